package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	// ErrNotEligible indica que a nota não atende às pré-condições de negócio
	// (tipo de documento ou situação). Não é falha: o status não regride e a
	// nota fica fora deste ciclo.
	ErrNotEligible = errors.New("nota fiscal não apta para processamento")

	// ErrStatusUpdate indica que um update de status não afetou nenhuma linha.
	ErrStatusUpdate = errors.New("atualização de status não confirmada")

	// ErrClaimRejected indica que o claim de lançamento falhou porque o status
	// armazenado já não era o esperado (outro ciclo tomou a nota).
	ErrClaimRejected = errors.New("nota já reivindicada por outro ciclo")

	ErrNotFound     = errors.New("recurso não encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
)

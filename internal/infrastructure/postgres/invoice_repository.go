package postgres

import (
	"context"
	"fmt"

	"github.com/fourmaq/nfe-robot/internal/domain/entity"
	"github.com/fourmaq/nfe-robot/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// AttemptCeiling teto de tentativas: notas que o atingem saem do ciclo
// automático e ficam para tratamento manual.
const AttemptCeiling = 25

// InvoiceRepo implementação de InvoiceRepository (usável com pool ou tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// FetchPending busca as notas pendentes com os metadados de filial, operação,
// centro de custo, política e tipo de lançamento.
func (r *InvoiceRepo) FetchPending(ctx context.Context, status, limit int) ([]entity.Invoice, error) {
	query := `
		SELECT
			NT.chave_acesso,
			F.numero,
			F.nome,
			O.numero,
			NT.conferente,
			NT.codigo_vendedor,
			CC.numero,
			PP.numero,
			TL.nome,
			NT.numero_nota
		FROM tb_notas_fiscais AS NT
		INNER JOIN tb_filiais AS F ON F.id = NT.id_filial
		INNER JOIN tb_processos AS P ON P.id = NT.id_processo
		INNER JOIN tb_operacoes AS O ON O.id = NT.id_operacao
		INNER JOIN tb_centros_custos AS CC ON CC.id = P.id_centro_de_custo
		INNER JOIN tb_politicas_pagamento AS PP ON PP.id = NT.id_politica_pagamento
		INNER JOIN tb_tipos_lancamentos AS TL ON TL.id = NT.id_tipo_lancamento
		WHERE NT.id_status_lancamento = $1 AND NT.tentativa_realizada < $2
		ORDER BY NT.tentativa_realizada ASC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, status, AttemptCeiling, limit)
	if err != nil {
		return nil, fmt.Errorf("buscar notas pendentes: %w", err)
	}
	defer rows.Close()

	var invoices []entity.Invoice
	for rows.Next() {
		var accessKey, branchNumber, branchName, operation, checker string
		var seller, costCenter, policy, launchType, invoiceNumber string
		if err := rows.Scan(&accessKey, &branchNumber, &branchName, &operation,
			&checker, &seller, &costCenter, &policy, &launchType, &invoiceNumber); err != nil {
			return nil, fmt.Errorf("scan nota pendente: %w", err)
		}
		inv, err := entity.NewInvoice(accessKey, branchNumber, branchName, operation,
			checker, seller, costCenter, policy, launchType, invoiceNumber)
		if err != nil {
			return nil, fmt.Errorf("mapear nota pendente: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// SetStatus sobrescreve o status da nota. Devolve false quando nenhuma linha
// foi afetada.
func (r *InvoiceRepo) SetStatus(ctx context.Context, accessKey string, status int) (bool, error) {
	query := `
		UPDATE tb_notas_fiscais
		SET id_status_lancamento = $1
		WHERE chave_acesso = $2`
	tag, err := r.q.Exec(ctx, query, status, accessKey)
	if err != nil {
		return false, fmt.Errorf("atualizar status da nota: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClaimLaunching transiciona o status condicionado ao valor anterior; o WHERE
// sobre o status atual é o que rejeita claims concorrentes.
func (r *InvoiceRepo) ClaimLaunching(ctx context.Context, accessKey string, from, to int) (bool, error) {
	query := `
		UPDATE tb_notas_fiscais
		SET id_status_lancamento = $1
		WHERE chave_acesso = $2 AND id_status_lancamento = $3`
	tag, err := r.q.Exec(ctx, query, to, accessKey, from)
	if err != nil {
		return false, fmt.Errorf("reivindicar nota para lançamento: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// IncrementAttempts soma uma tentativa realizada à nota.
func (r *InvoiceRepo) IncrementAttempts(ctx context.Context, accessKey string) (bool, error) {
	query := `
		UPDATE tb_notas_fiscais
		SET tentativa_realizada = tentativa_realizada + 1
		WHERE chave_acesso = $1`
	tag, err := r.q.Exec(ctx, query, accessKey)
	if err != nil {
		return false, fmt.Errorf("incrementar tentativas da nota: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

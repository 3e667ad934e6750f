package repository

import (
	"context"

	"github.com/fourmaq/nfe-robot/internal/domain/entity"
)

// InvoiceRepository porta de persistência para o ciclo de vida de lançamento
// das notas fiscais no banco operacional.
type InvoiceRepository interface {
	// FetchPending devolve até limit notas com o status informado, excluindo
	// as que atingiram o teto de tentativas, ordenadas por tentativas
	// ascendentes (notas novas primeiro).
	FetchPending(ctx context.Context, status, limit int) ([]entity.Invoice, error)

	// SetStatus sobrescreve o status de uma nota pela chave de acesso.
	// Devolve false quando nenhuma linha foi afetada; o chamador trata false
	// como falha de persistência e aplica a transição compensatória.
	SetStatus(ctx context.Context, accessKey string, status int) (bool, error)

	// ClaimLaunching transiciona o status somente se o valor armazenado ainda
	// for from (claim atômico contra ciclos sobrepostos). Devolve false quando
	// a condição não se sustenta.
	ClaimLaunching(ctx context.Context, accessKey string, from, to int) (bool, error)

	// IncrementAttempts soma uma tentativa à nota. Chamado exatamente uma vez
	// por tentativa de processamento, antes de qualquer interação com a UI,
	// para que até falhas precoces contem contra o teto.
	IncrementAttempts(ctx context.Context, accessKey string) (bool, error)
}

// ParametersRepository porta para a tabela de controle de status.
type ParametersRepository interface {
	Get(ctx context.Context) (entity.StatusParameters, error)
}

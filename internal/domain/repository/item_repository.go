package repository

import (
	"context"

	"github.com/fourmaq/nfe-robot/internal/domain/entity"
)

// ItemRepository porta para os itens da nota no banco operacional.
type ItemRepository interface {
	// InvoiceItems devolve os pares (código, origem) dos produtos da nota.
	InvoiceItems(ctx context.Context, accessKey string) ([]entity.ProductOrigin, error)
}

// SolutionItemRepository porta para o cadastro de produtos no banco do ERP.
type SolutionItemRepository interface {
	// ProductOrigin devolve o par registrado no ERP para o código, ou nil
	// quando o produto não existe lá (ausência não é erro).
	ProductOrigin(ctx context.Context, code string) (*entity.ProductOrigin, error)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fourmaq/nfe-robot/internal/domain/entity"
	"github.com/fourmaq/nfe-robot/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)
var _ repository.SolutionItemRepository = (*SolutionItemRepo)(nil)

// ItemRepo adaptador dos itens da nota no banco operacional.
type ItemRepo struct {
	q Querier
}

// NewItemRepository constrói o adaptador.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// InvoiceItems devolve os pares (código, origem) dos itens da nota.
func (r *ItemRepo) InvoiceItems(ctx context.Context, accessKey string) ([]entity.ProductOrigin, error) {
	query := `
		SELECT INP.codigo, INP.origem
		FROM tb_itens_notas_fiscais AS INP
		INNER JOIN tb_notas_fiscais AS NF ON NF.id = INP.id_nota_fiscal
		WHERE NF.chave_acesso = $1`
	rows, err := r.q.Query(ctx, query, accessKey)
	if err != nil {
		return nil, fmt.Errorf("buscar itens da nota: %w", err)
	}
	defer rows.Close()

	var items []entity.ProductOrigin
	for rows.Next() {
		var item entity.ProductOrigin
		if err := rows.Scan(&item.Code, &item.Origin); err != nil {
			return nil, fmt.Errorf("scan item da nota: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SolutionItemRepo adaptador do cadastro de produtos no banco do ERP.
type SolutionItemRepo struct {
	q Querier
}

// NewSolutionItemRepository constrói o adaptador.
func NewSolutionItemRepository(q Querier) *SolutionItemRepo {
	return &SolutionItemRepo{q: q}
}

// ProductOrigin devolve o par registrado no ERP para o código, ou nil quando
// o produto não existe lá. A empresa '1' é fixa: o cadastro replicado entre
// filiais vive sob ela.
func (r *SolutionItemRepo) ProductOrigin(ctx context.Context, code string) (*entity.ProductOrigin, error) {
	query := `
		SELECT P.e18codpro, P.e18cst1
		FROM cadite P
		WHERE P.e18codpro = $1 AND P.e01codigo = '1'`
	var item entity.ProductOrigin
	err := r.q.QueryRow(ctx, query, code).Scan(&item.Code, &item.Origin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar produto no ERP: %w", err)
	}
	return &item, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fourmaq/nfe-robot/internal/domain"
	"github.com/fourmaq/nfe-robot/internal/domain/entity"
	"github.com/fourmaq/nfe-robot/internal/domain/repository"
)

var _ repository.ParametersRepository = (*ParametersRepo)(nil)

// ParametersRepo adaptador da tabela de controle de status de lançamento.
type ParametersRepo struct {
	q Querier
}

// NewParametersRepository constrói o adaptador.
func NewParametersRepository(q Querier) *ParametersRepo {
	return &ParametersRepo{q: q}
}

// Get lê a única linha de controle com os quatro códigos de status.
func (r *ParametersRepo) Get(ctx context.Context) (entity.StatusParameters, error) {
	query := `
		SELECT
			id_status_nao_lancado,
			id_status_em_lancamento,
			id_status_lancado,
			id_status_a_conferir
		FROM tb_controle_status_lancamento`
	var params entity.StatusParameters
	err := r.q.QueryRow(ctx, query).Scan(
		&params.NotLaunched, &params.Launching, &params.Launched, &params.ToReview,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.StatusParameters{}, fmt.Errorf("%w: tabela de controle de status vazia", domain.ErrNotFound)
		}
		return entity.StatusParameters{}, fmt.Errorf("buscar parâmetros de status: %w", err)
	}
	if err := params.Validate(); err != nil {
		return entity.StatusParameters{}, err
	}
	return params, nil
}

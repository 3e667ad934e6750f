package reconcile

import (
	"context"

	"github.com/fourmaq/nfe-robot/internal/domain/entity"
	"github.com/fourmaq/nfe-robot/internal/domain/repository"
	"github.com/fourmaq/nfe-robot/pkg/logger"
)

// Reconciler compara a origem tributária dos produtos de uma nota entre o
// banco operacional e o cadastro do ERP. O resultado é consultivo: alimenta
// a correção de cadastro antes do lançamento, e qualquer falha de consulta
// degrada para lista vazia em vez de bloquear a nota.
type Reconciler struct {
	items    repository.ItemRepository
	solution repository.SolutionItemRepository
	log      *logger.Logger
}

// NewReconciler cria o comparador de origens com as duas fontes.
func NewReconciler(items repository.ItemRepository, solution repository.SolutionItemRepository, log *logger.Logger) *Reconciler {
	return &Reconciler{items: items, solution: solution, log: log}
}

// FindDivergentProducts devolve os produtos da nota cuja origem no banco
// operacional difere da registrada no ERP, carregando a origem do banco
// operacional (a que deve prevalecer). Produtos ausentes no ERP são
// ignorados: o cadastro deles é feito manualmente em outra rotina.
func (r *Reconciler) FindDivergentProducts(ctx context.Context, accessKey string) []entity.ProductOrigin {
	items, err := r.items.InvoiceItems(ctx, accessKey)
	if err != nil {
		r.log.Error().Err(err).Str("chave", accessKey).Msg("falha ao consultar itens da nota; seguindo sem correção de produtos")
		return nil
	}

	var divergent []entity.ProductOrigin
	for _, item := range items {
		registered, err := r.solution.ProductOrigin(ctx, item.Code)
		if err != nil {
			r.log.Error().Err(err).Str("produto", item.Code).Msg("falha ao consultar cadastro do ERP; seguindo sem correção de produtos")
			return nil
		}
		if registered == nil {
			r.log.Warn().Str("produto", item.Code).Msg("produto sem cadastro no ERP; correção ignorada")
			continue
		}
		if registered.Origin != item.Origin {
			divergent = append(divergent, item)
		}
	}

	if len(divergent) > 0 {
		r.log.Info().Int("produtos", len(divergent)).Str("chave", accessKey).Msg("origens divergentes entre banco operacional e ERP")
	}
	return divergent
}

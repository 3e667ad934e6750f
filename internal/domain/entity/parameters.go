package entity

import (
	"fmt"

	"github.com/fourmaq/nfe-robot/internal/domain"
)

// StatusParameters códigos de status de lançamento lidos da tabela de controle.
// Exatamente um deles se aplica a uma nota em qualquer momento; dentro de uma
// execução as transições são monotônicas (não lançado -> em lançamento ->
// lançado | a conferir), com regressão a não lançado apenas como compensação.
type StatusParameters struct {
	NotLaunched int // aguardando processamento
	Launching   int // marcador em voo (lease informal)
	Launched    int // terminal de sucesso
	ToReview    int // terminal ambíguo: UI concluída, persistência não confirmada
}

// Validate rejeita parâmetros com códigos repetidos, que quebrariam a
// disciplina de transição de status.
func (p StatusParameters) Validate() error {
	seen := map[int]bool{}
	for _, code := range []int{p.NotLaunched, p.Launching, p.Launched, p.ToReview} {
		if seen[code] {
			return fmt.Errorf("%w: códigos de status repetidos", domain.ErrInvalidInput)
		}
		seen[code] = true
	}
	return nil
}

package automation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fourmaq/nfe-robot/pkg/logger"
)

// Navigator sub-rotinas reutilizáveis de navegação: filial, título da rotina
// atual e acesso a módulos pelo menu e pela barra lateral. Todos os acessos
// têm verificação de idempotência ("já estou aqui?") para que notas seguidas
// da mesma filial não re-naveguem.
type Navigator struct {
	s   Surface
	log *logger.Logger
}

// NewNavigator constrói o navegador com a superfície e o logger da execução.
func NewNavigator(s Surface, log *logger.Logger) *Navigator {
	return &Navigator{s: s, log: log}
}

// CurrentBranch devolve o nome da filial exibida no topo da tela.
// O rótulo tem o formato "EMPRESA | FILIAL".
func (n *Navigator) CurrentBranch(ctx context.Context) (string, error) {
	text, err := n.s.InnerText(ctx, homeButtonBranch, 5*time.Second)
	if err != nil {
		return "", fmt.Errorf("ler filial atual: %w", err)
	}
	parts := strings.Split(text, " | ")
	return strings.TrimSpace(parts[len(parts)-1]), nil
}

// BranchMatches valida se a filial atual é a esperada. Erro de leitura conta
// como divergente: a seleção explícita corrige.
func (n *Navigator) BranchMatches(ctx context.Context, branchName string) bool {
	current, err := n.CurrentBranch(ctx)
	if err != nil {
		n.log.Warn().Err(err).Msg("não foi possível validar a filial atual")
		return false
	}
	return strings.EqualFold(strings.TrimSpace(branchName), current)
}

// SelectBranch garante a filial desejada. Se o rótulo já corresponde, não
// navega; senão abre o seletor, escolhe pelo id dentro do iframe e confirma.
func (n *Navigator) SelectBranch(ctx context.Context, branchID, branchName string) error {
	if n.BranchMatches(ctx, branchName) {
		n.log.Info().Str("filial", branchName).Msg("filial já selecionada")
		return nil
	}

	if err := n.s.WaitLoad(ctx); err != nil {
		return fmt.Errorf("selecionar filial: %w", err)
	}
	if err := n.s.Click(ctx, homeButtonBranch); err != nil {
		return fmt.Errorf("abrir seletor de filiais: %w", err)
	}
	if err := n.s.WaitVisible(ctx, homeIframeBranch, 10*time.Second); err != nil {
		return fmt.Errorf("esperar seletor de filiais: %w", err)
	}
	if err := n.s.FrameSelect(ctx, homeIframeBranch, homeDropdownBranch, branchID); err != nil {
		return fmt.Errorf("escolher filial %s: %w", branchID, err)
	}
	if err := n.s.FrameClick(ctx, homeIframeBranch, homeConfirmBranch); err != nil {
		return fmt.Errorf("confirmar filial %s: %w", branchID, err)
	}
	n.log.Info().Str("filial", branchName).Msg("filial selecionada")
	return nil
}

// OnRoutine valida se a rotina exibida no título é a esperada. O título tem o
// formato "MÓDULO - ROTINA".
func (n *Navigator) OnRoutine(ctx context.Context, titleSelector, routine string) bool {
	text, err := n.s.InnerText(ctx, titleSelector, 3*time.Second)
	if err != nil {
		n.log.Warn().Err(err).Str("rotina", routine).Msg("não foi possível validar a rotina atual")
		return false
	}
	parts := strings.Split(text, " - ")
	return routine == strings.TrimSpace(parts[len(parts)-1])
}

// OpenModule abre o menu de módulos e entra no módulo de destino.
func (n *Navigator) OpenModule(ctx context.Context, moduleSelector string) error {
	if err := n.s.Sleep(ctx, 2*time.Second); err != nil {
		return err
	}
	if err := n.s.Click(ctx, homeIconMenu); err != nil {
		return fmt.Errorf("abrir menu de módulos: %w", err)
	}
	if err := n.s.WaitVisible(ctx, homeMenuModules, 10*time.Second); err != nil {
		return fmt.Errorf("esperar menu de módulos: %w", err)
	}
	if err := n.s.Click(ctx, moduleSelector); err != nil {
		return fmt.Errorf("entrar no módulo: %w", err)
	}
	return nil
}

// Sidebar navega sequencialmente pelos seletores da barra lateral.
func (n *Navigator) Sidebar(ctx context.Context, selectors ...string) error {
	for _, selector := range selectors {
		if err := n.s.WaitVisible(ctx, selector, 10*time.Second); err != nil {
			return fmt.Errorf("esperar opção %s: %w", selector, err)
		}
		if err := n.s.Click(ctx, selector); err != nil {
			return fmt.Errorf("acessar opção %s: %w", selector, err)
		}
		if err := n.s.Sleep(ctx, 2*time.Second); err != nil {
			return err
		}
	}
	return nil
}

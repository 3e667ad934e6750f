package automation

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fourmaq/nfe-robot/pkg/logger"
)

// screenshotTrail captura os checkpoints de auditoria de uma nota em
// <dir>/<chave>/. Falha de captura não derruba o fluxo: a evidência é
// auxiliar, o lançamento é o que importa.
type screenshotTrail struct {
	s   Surface
	dir string
	log *logger.Logger
}

func newScreenshotTrail(s Surface, logDir, accessKey string, log *logger.Logger) *screenshotTrail {
	return &screenshotTrail{s: s, dir: filepath.Join(logDir, accessKey), log: log}
}

func (t *screenshotTrail) capture(ctx context.Context, name string) {
	path := filepath.Join(t.dir, name)
	if err := t.s.Screenshot(ctx, path); err != nil {
		t.log.Warn().Err(err).Str("arquivo", name).Msg("falha ao capturar screenshot")
	}
}

// Launcher preenche e confirma o formulário de lançamento. Os métodos são
// puramente de UI; as transições de status ficam no Workflow.
type Launcher struct {
	s     Surface
	nav   *Navigator
	shots *screenshotTrail
	log   *logger.Logger
}

// NewLauncher constrói o lançador.
func NewLauncher(s Surface, nav *Navigator, shots *screenshotTrail, log *logger.Logger) *Launcher {
	return &Launcher{s: s, nav: nav, shots: shots, log: log}
}

// FillPurchaseResale percorre o formulário de lançamento da NF-e de compra
// para revenda: operação e prévia de itens (puladas quando a tela de
// lançamento já está aberta), campos de entrada e as quatro abas.
func (l *Launcher) FillPurchaseResale(ctx context.Context, operation, checker, seller, policy, costCenter string) error {
	if err := l.s.Sleep(ctx, 5*time.Second); err != nil {
		return err
	}
	if !l.nav.OnRoutine(ctx, launchTitle, launchRoutine) {
		if err := l.insertOperation(ctx, operation); err != nil {
			return err
		}
		if err := l.previewItems(ctx); err != nil {
			return err
		}
	}

	if err := l.entry(ctx, checker, seller, policy, costCenter); err != nil {
		return err
	}
	if err := l.totals(ctx); err != nil {
		return err
	}
	if err := l.items(ctx); err != nil {
		return err
	}
	if err := l.taxes(ctx); err != nil {
		return err
	}
	return l.installments(ctx)
}

// FillTransfer finaliza a importação da nota de transferência entre filiais:
// avançar, importar, finalizar.
func (l *Launcher) FillTransfer(ctx context.Context) error {
	if err := l.s.WaitLoad(ctx); err != nil {
		return fmt.Errorf("lançar transferência: %w", err)
	}
	for _, selector := range []string{stockButtonNext, stockButtonImport, stockButtonFinish} {
		if err := l.s.Sleep(ctx, 2*time.Second); err != nil {
			return err
		}
		if err := l.s.Click(ctx, selector); err != nil {
			return fmt.Errorf("lançar transferência: %w", err)
		}
	}
	l.log.Info().Msg("nota de transferência lançada")
	return nil
}

func (l *Launcher) insertOperation(ctx context.Context, operation string) error {
	if err := l.s.WaitLoad(ctx); err != nil {
		return fmt.Errorf("inserir operação: %w", err)
	}
	if err := l.s.Fill(ctx, importFieldOperation, operation); err != nil {
		return fmt.Errorf("inserir operação: %w", err)
	}
	if err := l.s.Click(ctx, importButtonNext); err != nil {
		return fmt.Errorf("avançar operação: %w", err)
	}
	if err := l.s.Sleep(ctx, 2*time.Second); err != nil {
		return err
	}
	l.shots.capture(ctx, "1 - inserindo_operacao.png")
	if err := l.s.Click(ctx, importButtonConfirmNext); err != nil {
		return fmt.Errorf("confirmar operação: %w", err)
	}
	l.log.Info().Str("operacao", operation).Msg("operação inserida")
	return nil
}

func (l *Launcher) previewItems(ctx context.Context) error {
	if err := l.s.WaitLoad(ctx); err != nil {
		return fmt.Errorf("prévia de itens: %w", err)
	}
	if err := l.s.Sleep(ctx, 2*time.Second); err != nil {
		return err
	}
	l.shots.capture(ctx, "2 - verificando_itens.png")
	if err := l.s.Click(ctx, importButtonNext); err != nil {
		return fmt.Errorf("avançar prévia de itens: %w", err)
	}
	return nil
}

func (l *Launcher) entry(ctx context.Context, checker, seller, policy, costCenter string) error {
	if err := l.s.WaitLoad(ctx); err != nil {
		return fmt.Errorf("preencher campos: %w", err)
	}
	if err := l.s.Sleep(ctx, 5*time.Second); err != nil {
		return err
	}
	fields := []struct{ selector, value string }{
		{launchFieldChecker, checker},
		{launchFieldSeller, seller},
		{launchFieldPolicy, policy},
		{launchFieldCostCenter, costCenter},
	}
	for _, f := range fields {
		if err := l.s.Fill(ctx, f.selector, f.value); err != nil {
			return fmt.Errorf("preencher campos: %w", err)
		}
	}
	l.shots.capture(ctx, "3 - preenchendo_campos.png")
	if err := l.s.Click(ctx, launchButtonNext); err != nil {
		return fmt.Errorf("avançar campos: %w", err)
	}
	l.log.Info().Msg("campos de entrada preenchidos")
	return nil
}

func (l *Launcher) totals(ctx context.Context) error {
	if err := l.tabStep(ctx, launchTabTotals, "4 - verificando_totais.png", launchButtonNext); err != nil {
		return fmt.Errorf("verificar totais: %w", err)
	}
	return nil
}

func (l *Launcher) items(ctx context.Context) error {
	if err := l.tabStep(ctx, launchTableItems, "5 - verificando_itens_nota.png", launchButtonNextTab); err != nil {
		return fmt.Errorf("verificar itens: %w", err)
	}
	return nil
}

func (l *Launcher) taxes(ctx context.Context) error {
	if err := l.s.WaitLoad(ctx); err != nil {
		return fmt.Errorf("verificar impostos: %w", err)
	}
	if err := l.s.WaitVisible(ctx, launchTabTaxes, 15*time.Second); err != nil {
		return fmt.Errorf("verificar impostos: %w", err)
	}
	if err := l.s.Sleep(ctx, time.Second); err != nil {
		return err
	}
	if message := l.taxError(ctx); message != "" {
		l.shots.capture(ctx, "6 - erro_verificando_impostos.png")
		return fmt.Errorf("erro na aba de impostos: %s", message)
	}
	l.shots.capture(ctx, "6 - verificando_impostos.png")
	if err := l.s.Click(ctx, launchButtonNextTab); err != nil {
		return fmt.Errorf("avançar impostos: %w", err)
	}
	return nil
}

// taxError devolve o texto do banner de erro da aba de impostos, ou vazio.
// Banner ausente (timeout) significa aba limpa.
func (l *Launcher) taxError(ctx context.Context) string {
	text, err := l.s.InnerText(ctx, launchErrorTaxes, 2*time.Second)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func (l *Launcher) installments(ctx context.Context) error {
	if err := l.tabStep(ctx, launchTableInstallments, "7 - verificando_parcelas.png", launchButtonConfirm); err != nil {
		return fmt.Errorf("verificar parcelas: %w", err)
	}
	return nil
}

// tabStep fluxo comum das abas: esperar o elemento da aba, capturar o
// checkpoint e avançar.
func (l *Launcher) tabStep(ctx context.Context, gateSelector, screenshot, nextSelector string) error {
	if err := l.s.WaitLoad(ctx); err != nil {
		return err
	}
	if err := l.s.WaitVisible(ctx, gateSelector, 15*time.Second); err != nil {
		return err
	}
	if err := l.s.Sleep(ctx, time.Second); err != nil {
		return err
	}
	l.shots.capture(ctx, screenshot)
	return l.s.Click(ctx, nextSelector)
}

package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fourmaq/nfe-robot/internal/domain"
	"github.com/fourmaq/nfe-robot/internal/domain/entity"
	"github.com/fourmaq/nfe-robot/internal/domain/repository"
	"github.com/fourmaq/nfe-robot/pkg/logger"
)

// Credentials acesso ao ERP web.
type Credentials struct {
	URL      string
	User     string
	Password string
}

// Workflow máquina de estados de uma nota: autenticação, filial, correção de
// produtos, módulo, localização, manifestação (quando a variante exige),
// claim de lançamento, formulário e status terminal. Uma instância por nota,
// com superfície de navegador própria; o Workflow é o único escritor dos
// campos persistidos de status e tentativas da sua linha.
type Workflow struct {
	s       Surface
	repo    repository.InvoiceRepository
	params  entity.StatusParameters
	invoice entity.Invoice
	creds   Credentials
	log     *logger.Logger

	nav        *Navigator
	corrector  *ProductCorrector
	manifester *Manifester
	launcher   *Launcher
	shots      *screenshotTrail
}

// NewWorkflow monta o fluxo de uma nota com todas as dependências explícitas.
func NewWorkflow(s Surface, repo repository.InvoiceRepository, params entity.StatusParameters,
	invoice entity.Invoice, creds Credentials, logDir string, log *logger.Logger) *Workflow {

	nav := NewNavigator(s, log)
	validator := NewFiscalValidator(s, log)
	shots := newScreenshotTrail(s, logDir, invoice.AccessKey, log)

	return &Workflow{
		s:          s,
		repo:       repo,
		params:     params,
		invoice:    invoice,
		creds:      creds,
		log:        log,
		nav:        nav,
		corrector:  NewProductCorrector(s, nav, log),
		manifester: NewManifester(s, validator, log),
		launcher:   NewLauncher(s, nav, shots, log),
		shots:      shots,
	}
}

// Run processa a nota do login ao status terminal. Devolve
// domain.ErrNotEligible quando as pré-condições de negócio não valem (a linha
// permanece não lançada, sem screenshot de falha) e erro comum para falhas de
// UI ou persistência, com a compensação de status correspondente aplicada.
func (w *Workflow) Run(ctx context.Context) error {
	w.log.Info().Str("variante", w.invoice.EntryType.String()).Msg("processando nota fiscal")

	// A tentativa conta antes de qualquer interação com a UI: até um crash
	// precoce consome o teto e impede retentativa infinita.
	ok, err := w.repo.IncrementAttempts(ctx, w.invoice.AccessKey)
	if err != nil {
		return fmt.Errorf("incrementar tentativas: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: nota %s sem linha para incrementar tentativas", domain.ErrStatusUpdate, w.invoice.AccessKey)
	}

	err = w.process(ctx)
	switch {
	case err == nil:
		w.log.Info().Msg("processamento da nota finalizado com sucesso")
		return nil
	case errors.Is(err, domain.ErrNotEligible):
		w.log.Info().Msg("nota fora das pré-condições de negócio; fica para conferência manual")
		return err
	case errors.Is(err, domain.ErrClaimRejected):
		// Outro ciclo detém o lease; não sobrescrever o status dele.
		w.log.Warn().Msg("nota já em lançamento por outro ciclo")
		return err
	default:
		w.compensate(ctx)
		w.shots.capture(ctx, "9999 - processamento_nota_fiscal.png")
		w.log.Error().Err(err).Msg("erro ao processar a nota fiscal")
		return err
	}
}

func (w *Workflow) process(ctx context.Context) error {
	if err := w.login(ctx); err != nil {
		return err
	}
	if err := w.nav.SelectBranch(ctx, w.invoice.BranchNumber, w.invoice.BranchName); err != nil {
		return err
	}
	if err := w.corrector.CorrectAll(ctx, w.invoice.Products); err != nil {
		return fmt.Errorf("não foi possível atualizar o cadastro de produtos: %w", err)
	}
	if err := w.accessModule(ctx); err != nil {
		return err
	}
	if err := w.locate(ctx); err != nil {
		return err
	}

	if w.invoice.EntryType.RequiresManifestation() {
		if err := w.manifester.Manifest(ctx); err != nil {
			return err
		}
		if err := w.s.Click(ctx, fiscalButtonLaunch); err != nil {
			return fmt.Errorf("abrir lançamento da nota: %w", err)
		}
	}

	return w.launch(ctx)
}

// login autentica no ERP. O popup pós-login nem sempre aparece; a ausência
// dentro da espera não é erro.
func (w *Workflow) login(ctx context.Context) error {
	if err := w.s.Navigate(ctx, w.creds.URL); err != nil {
		return fmt.Errorf("abrir ERP: %w", err)
	}
	if err := w.s.Fill(ctx, loginFieldUser, w.creds.User); err != nil {
		return fmt.Errorf("preencher usuário: %w", err)
	}
	if err := w.s.Fill(ctx, loginFieldPassword, w.creds.Password); err != nil {
		return fmt.Errorf("preencher senha: %w", err)
	}
	if err := w.s.Click(ctx, loginButtonEnter); err != nil {
		return fmt.Errorf("entrar no ERP: %w", err)
	}

	if err := w.s.WaitVisible(ctx, loginClosePopup, 5*time.Second); err == nil {
		if err := w.s.Click(ctx, loginClosePopup); err != nil {
			return fmt.Errorf("fechar popup de login: %w", err)
		}
	} else {
		w.log.Warn().Msg("popup de confirmação de login não encontrado")
	}

	w.log.Info().Msg("login realizado com sucesso")
	return nil
}

// accessModule navega ao módulo da variante, com verificação de idempotência
// pelo título da rotina atual.
func (w *Workflow) accessModule(ctx context.Context) error {
	if err := w.s.WaitLoad(ctx); err != nil {
		return fmt.Errorf("acessar módulo: %w", err)
	}
	if err := w.s.Sleep(ctx, 2*time.Second); err != nil {
		return err
	}

	switch w.invoice.EntryType {
	case entity.EntryBranchTransfer:
		if w.nav.OnRoutine(ctx, stockTitle, stockRoutine) {
			w.log.Info().Msg("rotina de importação entre filiais já acessada")
			return nil
		}
		if err := w.nav.OpenModule(ctx, homeMenuModuleStock); err != nil {
			return err
		}
		return w.nav.Sidebar(ctx, stockSidebar, stockOptionImport)
	default:
		if w.nav.OnRoutine(ctx, fiscalTitle, fiscalRoutine) {
			w.log.Info().Msg("rotina de manifestação já acessada")
			return nil
		}
		if err := w.nav.OpenModule(ctx, homeMenuModuleFiscal); err != nil {
			return err
		}
		return w.nav.Sidebar(ctx, fiscalSidebar, fiscalOptionInvoice)
	}
}

// locate limpa os filtros e localiza a nota: pela chave de acesso no módulo
// fiscal, ou pelo número da nota na importação entre filiais.
func (w *Workflow) locate(ctx context.Context) error {
	if err := w.s.WaitLoad(ctx); err != nil {
		return fmt.Errorf("localizar nota: %w", err)
	}
	if err := w.s.Sleep(ctx, 2*time.Second); err != nil {
		return err
	}

	if w.invoice.EntryType == entity.EntryBranchTransfer {
		return w.locateTransfer(ctx)
	}
	return w.locateFiscal(ctx)
}

func (w *Workflow) locateFiscal(ctx context.Context) error {
	if err := w.s.Click(ctx, fiscalButtonClean); err != nil {
		return fmt.Errorf("limpar filtros: %w", err)
	}
	if err := w.s.Sleep(ctx, 2*time.Second); err != nil {
		return err
	}
	if err := w.s.Fill(ctx, fiscalFieldKey, w.invoice.AccessKey); err != nil {
		return fmt.Errorf("preencher chave de acesso: %w", err)
	}

	filters := []struct{ selector, value string }{
		{fiscalDropManifested, filterSituationManifested},
		{fiscalDropDocumentType, filterDocumentType},
		{fiscalDropSituation, filterSituation},
	}
	for _, f := range filters {
		if err := w.s.SelectOption(ctx, f.selector, f.value); err != nil {
			return fmt.Errorf("selecionar filtro: %w", err)
		}
	}

	if err := w.s.Click(ctx, fiscalButtonSearch); err != nil {
		return fmt.Errorf("pesquisar nota: %w", err)
	}
	if err := w.s.Sleep(ctx, 2*time.Second); err != nil {
		return err
	}
	if err := w.s.WaitVisible(ctx, fiscalButtonLaunch, 15*time.Second); err != nil {
		return fmt.Errorf("nota não localizada na pesquisa: %w", err)
	}
	w.log.Info().Msg("nota localizada na pesquisa")
	return nil
}

func (w *Workflow) locateTransfer(ctx context.Context) error {
	if err := w.s.SelectOption(ctx, stockDropdownOrigin, "0"); err != nil {
		return fmt.Errorf("selecionar filial de origem: %w", err)
	}
	if err := w.s.SelectOption(ctx, stockDropdownDest, "0"); err != nil {
		return fmt.Errorf("selecionar filial de destino: %w", err)
	}
	if err := w.s.Fill(ctx, stockFieldInvoice, w.invoice.InvoiceNumber); err != nil {
		return fmt.Errorf("preencher número da nota: %w", err)
	}
	if err := w.s.Click(ctx, stockButtonSearch); err != nil {
		return fmt.Errorf("pesquisar nota: %w", err)
	}
	if err := w.s.Sleep(ctx, 2*time.Second); err != nil {
		return err
	}
	if err := w.s.WaitVisible(ctx, stockOptionInvoice, 15*time.Second); err != nil {
		return fmt.Errorf("nota não localizada na pesquisa: %w", err)
	}
	if err := w.s.Click(ctx, stockOptionInvoice); err != nil {
		return fmt.Errorf("abrir nota localizada: %w", err)
	}
	w.log.Info().Str("numero", w.invoice.InvoiceNumber).Msg("nota localizada na pesquisa")
	return nil
}

// launch reivindica a nota (não lançado -> em lançamento), preenche o
// formulário da variante e grava o status terminal.
func (w *Workflow) launch(ctx context.Context) error {
	claimed, err := w.repo.ClaimLaunching(ctx, w.invoice.AccessKey, w.params.NotLaunched, w.params.Launching)
	if err != nil {
		return fmt.Errorf("reivindicar nota: %w", err)
	}
	if !claimed {
		return domain.ErrClaimRejected
	}

	if w.invoice.EntryType == entity.EntryBranchTransfer {
		err = w.launcher.FillTransfer(ctx)
	} else {
		err = w.launcher.FillPurchaseResale(ctx,
			w.invoice.Operation, w.invoice.Checker, w.invoice.Seller,
			w.invoice.PaymentPolicy, w.invoice.CostCenter)
	}
	if err != nil {
		w.shots.capture(ctx, "8888 - erro_nota_fiscal_lancada.png")
		return err
	}

	return w.finish(ctx)
}

// finish grava o status terminal. Falha do update de "lançado" degrada para
// "a conferir": o trabalho na UI foi feito, a contabilidade não confirmou, e
// um humano precisa olhar.
func (w *Workflow) finish(ctx context.Context) error {
	ok, err := w.repo.SetStatus(ctx, w.invoice.AccessKey, w.params.Launched)
	if err != nil || !ok {
		w.log.Error().Err(err).Msg("status 'lançado' não confirmado; marcando para conferência")
		if _, reviewErr := w.repo.SetStatus(ctx, w.invoice.AccessKey, w.params.ToReview); reviewErr != nil {
			w.log.Error().Err(reviewErr).Msg("falha também ao marcar 'a conferir'")
		}
	}
	w.shots.capture(ctx, "8 - nota_fiscal_lancada.png")
	w.log.Info().Msg("nota fiscal lançada")
	return nil
}

// compensate devolve a linha a "não lançado" para que um ciclo futuro tente
// de novo, limitado pelo teto de tentativas.
func (w *Workflow) compensate(ctx context.Context) {
	if _, err := w.repo.SetStatus(ctx, w.invoice.AccessKey, w.params.NotLaunched); err != nil {
		w.log.Error().Err(err).Msg("falha ao devolver a nota para 'não lançado'")
	}
}

package automation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fourmaq/nfe-robot/internal/domain"
	"github.com/fourmaq/nfe-robot/pkg/logger"
)

// Manifester executa a sub-rotina de manifestação da NF-e no módulo fiscal:
// verificação de elegibilidade, seleção, confirmação cross-frame e, quando o
// ERP exige, o popup de seleção manual de evento.
type Manifester struct {
	s         Surface
	validator *FiscalValidator
	log       *logger.Logger
}

// NewManifester constrói o manifestador.
func NewManifester(s Surface, validator *FiscalValidator, log *logger.Logger) *Manifester {
	return &Manifester{s: s, validator: validator, log: log}
}

// Manifest manifesta a nota aberta na pesquisa. Devolve domain.ErrNotEligible
// quando as pré-condições de negócio não valem (sem regressão de status) e
// erro comum quando a UI falha. Nota já manifestada é sucesso imediato.
func (m *Manifester) Manifest(ctx context.Context) error {
	eligible, err := m.validator.Eligible(ctx)
	if err != nil {
		return err
	}
	if !eligible {
		return domain.ErrNotEligible
	}

	manifested, err := m.validator.Manifested(ctx)
	if err != nil {
		return err
	}
	if manifested {
		m.log.Info().Msg("nota já manifestada")
		return nil
	}

	situation, err := m.validator.ManifestedSituation(ctx)
	if err != nil {
		return err
	}
	if !strings.EqualFold(situation, manifestedPending) {
		m.log.Info().Str("situacao", situation).Msg("situação de manifesto não permite manifestação")
		return domain.ErrNotEligible
	}

	if err := m.selectInvoice(ctx); err != nil {
		return err
	}
	if err := m.confirmOperation(ctx); err != nil {
		return err
	}
	m.walkSelectionPopup(ctx)

	// Algumas notas manifestam em uma etapa, outras exigem o popup; o que
	// vale é a situação final.
	manifested, err = m.validator.Manifested(ctx)
	if err != nil {
		return err
	}
	if !manifested {
		return fmt.Errorf("situação de manifesto não chegou a %q", manifestedApproved)
	}

	m.log.Info().Msg("nota manifestada com sucesso")
	return nil
}

// selectInvoice marca o checkbox da nota e confirma que o clique registrou.
func (m *Manifester) selectInvoice(ctx context.Context) error {
	if err := m.s.Check(ctx, fiscalCheckboxInvoice); err != nil {
		return fmt.Errorf("selecionar nota: %w", err)
	}
	if err := m.s.Sleep(ctx, 2*time.Second); err != nil {
		return err
	}
	checked, err := m.s.IsChecked(ctx, fiscalCheckboxInvoice)
	if err != nil {
		return fmt.Errorf("verificar seleção da nota: %w", err)
	}
	if !checked {
		return fmt.Errorf("seleção da nota não registrou")
	}
	return nil
}

// confirmOperation dispara a manifestação e confirma o diálogo de operação
// servido em iframe.
func (m *Manifester) confirmOperation(ctx context.Context) error {
	if err := m.s.Click(ctx, fiscalButtonManifest); err != nil {
		return fmt.Errorf("acionar manifestação: %w", err)
	}
	if err := m.s.Sleep(ctx, 3*time.Second); err != nil {
		return err
	}
	if err := m.s.FrameCheck(ctx, fiscalIframeConfirm, fiscalOptionConfirmOp); err != nil {
		return fmt.Errorf("marcar confirmação de operação: %w", err)
	}
	if err := m.s.Sleep(ctx, 2*time.Second); err != nil {
		return err
	}
	if err := m.s.FrameClick(ctx, fiscalIframeConfirm, fiscalButtonManifestOK); err != nil {
		return fmt.Errorf("confirmar manifestação: %w", err)
	}
	return m.s.Sleep(ctx, 2*time.Second)
}

// walkSelectionPopup percorre o popup de seleção manual quando ele aparece:
// atualizar situação, escolher o evento aprovado no dropdown, confirmar o
// evento e confirmar a situação. A ausência do popup dentro da espera é
// tolerada; nesse caso a manifestação fechou em uma etapa.
func (m *Manifester) walkSelectionPopup(ctx context.Context) {
	if err := m.s.WaitVisible(ctx, popupConfirmOperation, 6*time.Second); err != nil {
		m.log.Warn().Msg("popup de confirmação não identificado")
		return
	}

	steps := []func() error{
		func() error { return m.s.Click(ctx, popupUpdateSituation) },
		func() error { return m.s.WaitVisible(ctx, popupConfirmEvent, 6*time.Second) },
		func() error { return m.s.SelectOption(ctx, popupDropdownSituation, manifestedApproved) },
		func() error { return m.s.Click(ctx, popupButtonConfirmEvent) },
		func() error { return m.s.Click(ctx, popupConfirmSituation) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			m.log.Error().Err(err).Msg("falha ao percorrer o popup de confirmação")
			return
		}
		if err := m.s.Sleep(ctx, 2*time.Second); err != nil {
			return
		}
	}
	m.log.Info().Msg("manifestação confirmada pelo popup de seleção")
}

package automation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fourmaq/nfe-robot/pkg/logger"
)

// FiscalValidator verificações de elegibilidade da nota aberta no módulo
// fiscal: tipo de documento, situação de uso e situação de manifesto.
type FiscalValidator struct {
	s   Surface
	log *logger.Logger
}

// NewFiscalValidator constrói o validador.
func NewFiscalValidator(s Surface, log *logger.Logger) *FiscalValidator {
	return &FiscalValidator{s: s, log: log}
}

func (v *FiscalValidator) text(ctx context.Context, selector string) (string, error) {
	if err := v.s.Sleep(ctx, 2*time.Second); err != nil {
		return "", err
	}
	text, err := v.s.InnerText(ctx, selector, 5*time.Second)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// DocumentTypeApproved verifica se o documento exibido é "Nota Fiscal".
func (v *FiscalValidator) DocumentTypeApproved(ctx context.Context) (bool, error) {
	text, err := v.text(ctx, fiscalTextDocumentType)
	if err != nil {
		return false, fmt.Errorf("verificar tipo de documento: %w", err)
	}
	return strings.EqualFold(text, documentTypeApproved), nil
}

// SituationAuthorized verifica se a situação é de uso autorizado.
func (v *FiscalValidator) SituationAuthorized(ctx context.Context) (bool, error) {
	text, err := v.text(ctx, fiscalTextSituation)
	if err != nil {
		return false, fmt.Errorf("verificar situação da nota: %w", err)
	}
	return strings.EqualFold(text, situationApproved), nil
}

// ManifestedSituation devolve o texto da situação de manifesto.
func (v *FiscalValidator) ManifestedSituation(ctx context.Context) (string, error) {
	text, err := v.text(ctx, fiscalTextManifested)
	if err != nil {
		return "", fmt.Errorf("verificar situação de manifesto: %w", err)
	}
	return text, nil
}

// Manifested verifica se a situação de manifesto chegou ao valor aprovado.
func (v *FiscalValidator) Manifested(ctx context.Context) (bool, error) {
	text, err := v.ManifestedSituation(ctx)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(text, manifestedApproved), nil
}

// Eligible aplica as duas pré-condições de negócio: tipo de documento e
// situação autorizada. Ambas precisam valer para a nota seguir no fluxo.
func (v *FiscalValidator) Eligible(ctx context.Context) (bool, error) {
	ok, err := v.DocumentTypeApproved(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		v.log.Info().Msg("nota não é do tipo 'Nota Fiscal'")
		return false, nil
	}

	ok, err = v.SituationAuthorized(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		v.log.Info().Msg("nota não está com situação de uso autorizado")
		return false, nil
	}
	return true, nil
}

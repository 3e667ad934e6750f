package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBranch_JaSelecionadaNaoNavega(t *testing.T) {
	rec := &recorder{}
	surface := newFakeSurface(rec)
	surface.texts[homeButtonBranch] = []string{"FOURMAQ | MATRIZ"}

	nav := NewNavigator(surface, testLogger())
	err := nav.SelectBranch(context.Background(), "1", "matriz")
	require.NoError(t, err)

	assert.False(t, rec.has("click "+homeButtonBranch),
		"filial igual à exibida (case insensitive) não abre o seletor")
}

func TestSelectBranch_DivergenteSelecionaPeloIframe(t *testing.T) {
	rec := &recorder{}
	surface := newFakeSurface(rec)
	surface.texts[homeButtonBranch] = []string{"FOURMAQ | MATRIZ"}

	nav := NewNavigator(surface, testLogger())
	err := nav.SelectBranch(context.Background(), "2", "FILIAL CAMPINAS")
	require.NoError(t, err)

	assert.True(t, rec.has("click "+homeButtonBranch))
	assert.True(t, rec.has("frameselect "+homeIframeBranch+" "+homeDropdownBranch))
	assert.True(t, rec.has("frameclick "+homeIframeBranch+" "+homeConfirmBranch))
}

func TestSelectBranch_ErroDeLeituraForcaSelecao(t *testing.T) {
	rec := &recorder{}
	surface := newFakeSurface(rec)
	surface.failures["text "+homeButtonBranch] = errors.New("elemento não encontrado")

	nav := NewNavigator(surface, testLogger())
	err := nav.SelectBranch(context.Background(), "2", "FILIAL CAMPINAS")
	require.NoError(t, err)

	assert.True(t, rec.has("frameclick "+homeIframeBranch+" "+homeConfirmBranch),
		"sem conseguir ler o rótulo, a seleção explícita corrige")
}

func TestOnRoutine_ComparaSegmentoFinalDoTitulo(t *testing.T) {
	rec := &recorder{}
	surface := newFakeSurface(rec)
	surface.texts[fiscalTitle] = []string{"FISCAL - Manifestação NF-e"}

	nav := NewNavigator(surface, testLogger())
	assert.True(t, nav.OnRoutine(context.Background(), fiscalTitle, "Manifestação NF-e"))

	surface.texts[fiscalTitle] = []string{"ESTOQUE - Cadastro de Produtos"}
	assert.False(t, nav.OnRoutine(context.Background(), fiscalTitle, "Manifestação NF-e"))
}

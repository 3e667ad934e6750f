package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourmaq/nfe-robot/internal/domain"
	"github.com/fourmaq/nfe-robot/internal/domain/entity"
)

const testAccessKey = "35240811222333000181550010000012341000012349"

func TestParseEntryType_NomesRegistrados(t *testing.T) {
	typ, err := entity.ParseEntryType("Notas de Produtos/Compra para Revenda")
	require.NoError(t, err)
	assert.Equal(t, entity.EntryPurchaseResale, typ)
	assert.True(t, typ.RequiresManifestation(), "compra para revenda exige manifestação")

	typ, err = entity.ParseEntryType("Nota de Produto/Transferência entre Filiais")
	require.NoError(t, err)
	assert.Equal(t, entity.EntryBranchTransfer, typ)
	assert.False(t, typ.RequiresManifestation(), "transferência entre filiais não manifesta")
}

func TestParseEntryType_NomeDesconhecido(t *testing.T) {
	_, err := entity.ParseEntryType("Nota de Serviço")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewInvoice_CamposValidos(t *testing.T) {
	inv, err := entity.NewInvoice(testAccessKey, "2", "FILIAL CAMPINAS",
		"150", "MARIA", "JOSE", "10", "30 DIAS",
		"Notas de Produtos/Compra para Revenda", "1234")
	require.NoError(t, err)

	assert.Equal(t, testAccessKey, inv.AccessKey)
	assert.Equal(t, "FILIAL CAMPINAS", inv.BranchName)
	assert.Equal(t, entity.EntryPurchaseResale, inv.EntryType)
	assert.Empty(t, inv.Products, "divergências só são anexadas no despacho")
}

func TestNewInvoice_RejeitaLinhaIncompleta(t *testing.T) {
	cases := []struct {
		name      string
		accessKey string
		branchNum string
		branch    string
		launch    string
	}{
		{"sem chave de acesso", "", "2", "FILIAL", "Notas de Produtos/Compra para Revenda"},
		{"sem filial", testAccessKey, "", "", "Notas de Produtos/Compra para Revenda"},
		{"tipo desconhecido", testAccessKey, "2", "FILIAL", "Devolução"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := entity.NewInvoice(tc.accessKey, tc.branchNum, tc.branch,
				"150", "", "", "", "", tc.launch, "1234")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestStatusParameters_Validate(t *testing.T) {
	valid := entity.StatusParameters{NotLaunched: 1, Launching: 2, Launched: 3, ToReview: 4}
	require.NoError(t, valid.Validate())

	repeated := entity.StatusParameters{NotLaunched: 1, Launching: 1, Launched: 3, ToReview: 4}
	err := repeated.Validate()
	require.Error(t, err, "códigos repetidos quebram a disciplina de transição")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

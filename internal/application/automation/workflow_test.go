package automation

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourmaq/nfe-robot/internal/domain"
	"github.com/fourmaq/nfe-robot/internal/domain/entity"
)

const workflowTestKey = "35240811222333000181550010000012341000012349"

func testParams() entity.StatusParameters {
	return entity.StatusParameters{NotLaunched: 10, Launching: 20, Launched: 30, ToReview: 40}
}

func testCreds() Credentials {
	return Credentials{URL: "https://erp.example.test", User: "SUPERVISOR", Password: "s3cr3t"}
}

func purchaseInvoice() entity.Invoice {
	return entity.Invoice{
		AccessKey:     workflowTestKey,
		BranchNumber:  "2",
		BranchName:    "FILIAL CAMPINAS",
		Operation:     "150",
		Checker:       "12",
		Seller:        "7",
		CostCenter:    "3",
		PaymentPolicy: "21",
		EntryType:     entity.EntryPurchaseResale,
		InvoiceNumber: "1234",
	}
}

func transferInvoice() entity.Invoice {
	inv := purchaseInvoice()
	inv.EntryType = entity.EntryBranchTransfer
	return inv
}

// scriptPurchaseScreens roteiriza as telas do caminho feliz: filial já
// selecionada, nota elegível, manifesto pendente que confirma após o popup.
func scriptPurchaseScreens(f *fakeSurface) {
	f.texts[homeButtonBranch] = []string{"FOURMAQ | FILIAL CAMPINAS"}
	f.texts[fiscalTextDocumentType] = []string{documentTypeApproved}
	f.texts[fiscalTextSituation] = []string{situationApproved}
	f.texts[fiscalTextManifested] = []string{manifestedPending, manifestedPending, manifestedApproved}
}

func newTestWorkflow(invoice entity.Invoice) (*Workflow, *fakeSurface, *fakeInvoiceRepo, *recorder) {
	rec := &recorder{}
	surface := newFakeSurface(rec)
	repo := newFakeInvoiceRepo(rec)
	w := NewWorkflow(surface, repo, testParams(), invoice, testCreds(), "logs", testLogger())
	return w, surface, repo, rec
}

func TestWorkflowRun_CompraRevendaCaminhoFeliz(t *testing.T) {
	w, surface, repo, rec := newTestWorkflow(purchaseInvoice())
	scriptPurchaseScreens(surface)

	err := w.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.increments, "exatamente uma tentativa por execução")
	require.Len(t, repo.claims, 1)
	assert.Equal(t, [2]int{10, 20}, repo.claims[0], "claim transita não lançado -> em lançamento")
	assert.Equal(t, []int{30}, repo.statusWrites, "único write terminal: lançado")

	events := rec.all()
	require.NotEmpty(t, events)
	assert.Equal(t, "increment", events[0], "a tentativa conta antes de qualquer interação com a UI")
	assert.True(t, rec.has("click "+fiscalButtonManifest), "compra para revenda manifesta antes de lançar")
	assert.True(t, rec.has("shot "+filepath.Join("logs", workflowTestKey, "8 - nota_fiscal_lancada.png")))
	assert.False(t, rec.has("shot "+filepath.Join("logs", workflowTestKey, "9999 - processamento_nota_fiscal.png")),
		"sucesso não captura screenshot de falha")
}

func TestWorkflowRun_TransferenciaNaoManifesta(t *testing.T) {
	w, surface, repo, rec := newTestWorkflow(transferInvoice())
	surface.texts[homeButtonBranch] = []string{"FOURMAQ | FILIAL CAMPINAS"}

	err := w.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, rec.has("click "+fiscalButtonManifest), "transferência entre filiais não passa pela manifestação")
	assert.True(t, rec.has("click "+stockButtonImport), "transferência importa no módulo de estoque")
	assert.Equal(t, []int{30}, repo.statusWrites)
}

func TestWorkflowRun_NotaInelegivelNaoMudaStatus(t *testing.T) {
	w, surface, repo, rec := newTestWorkflow(purchaseInvoice())
	scriptPurchaseScreens(surface)
	surface.texts[fiscalTextDocumentType] = []string{"NFC-e"}

	err := w.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrNotEligible)

	assert.Equal(t, 1, repo.increments, "a tentativa conta mesmo para nota inelegível")
	assert.Empty(t, repo.claims, "nota inelegível nunca chega ao claim")
	assert.Empty(t, repo.statusWrites, "inelegibilidade não regride nem avança o status")
	assert.False(t, rec.has("shot "+filepath.Join("logs", workflowTestKey, "9999 - processamento_nota_fiscal.png")),
		"inelegibilidade não é falha: sem screenshot de erro")
}

func TestWorkflowRun_ClaimRejeitadoNaoCompensa(t *testing.T) {
	w, surface, repo, _ := newTestWorkflow(purchaseInvoice())
	scriptPurchaseScreens(surface)
	repo.claimOK = false

	err := w.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrClaimRejected)

	require.Len(t, repo.claims, 1)
	assert.Empty(t, repo.statusWrites,
		"claim rejeitado significa que outro ciclo detém a nota; o status dele não pode ser sobrescrito")
}

func TestWorkflowRun_ErroNosImpostosCompensaParaNaoLancado(t *testing.T) {
	w, surface, repo, rec := newTestWorkflow(purchaseInvoice())
	scriptPurchaseScreens(surface)
	surface.texts[launchErrorTaxes] = []string{"ICMS do item 2 sem CST"}

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotEligible)

	require.Len(t, repo.claims, 1, "a falha aconteceu depois do claim")
	assert.Equal(t, []int{10}, repo.statusWrites, "compensação devolve a nota a não lançado")
	assert.True(t, rec.has("shot "+filepath.Join("logs", workflowTestKey, "8888 - erro_nota_fiscal_lancada.png")))
	assert.True(t, rec.has("shot "+filepath.Join("logs", workflowTestKey, "9999 - processamento_nota_fiscal.png")))
}

func TestWorkflowRun_LancadoNaoConfirmadoViraAConferir(t *testing.T) {
	w, surface, repo, _ := newTestWorkflow(purchaseInvoice())
	scriptPurchaseScreens(surface)
	repo.statusOK[30] = false

	err := w.Run(context.Background())
	require.NoError(t, err, "o lançamento na UI foi feito; a divergência fica para conferência humana")

	assert.Equal(t, []int{30, 40}, repo.statusWrites,
		"write de lançado não confirmado degrada para a conferir")
}

func TestWorkflowRun_FalhaNoIncrementoAbortaAntesDaUI(t *testing.T) {
	w, surface, repo, _ := newTestWorkflow(purchaseInvoice())
	repo.incrementErr = errors.New("conexão perdida")

	err := w.Run(context.Background())
	require.Error(t, err)

	for _, event := range surface.rec.all() {
		assert.Equal(t, "increment", event, "sem tentativa registrada nenhuma primitiva de UI roda")
	}
}

package entity

import (
	"fmt"

	"github.com/fourmaq/nfe-robot/internal/domain"
)

// Nomes de tipo de lançamento como registrados em tb_tipos_lancamentos.
const (
	launchTypePurchaseResale = "Notas de Produtos/Compra para Revenda"
	launchTypeBranchTransfer = "Nota de Produto/Transferência entre Filiais"
)

// EntryType identifica a variante de fluxo aplicável à nota.
type EntryType int

const (
	// EntryPurchaseResale nota de compra para revenda: exige manifestação no
	// módulo fiscal antes do lançamento.
	EntryPurchaseResale EntryType = iota

	// EntryBranchTransfer nota de transferência entre filiais: importada no
	// módulo de estoque, sem manifestação.
	EntryBranchTransfer
)

// ParseEntryType mapeia o nome do tipo de lançamento para a variante de fluxo.
func ParseEntryType(name string) (EntryType, error) {
	switch name {
	case launchTypePurchaseResale:
		return EntryPurchaseResale, nil
	case launchTypeBranchTransfer:
		return EntryBranchTransfer, nil
	default:
		return 0, fmt.Errorf("%w: tipo de lançamento desconhecido %q", domain.ErrInvalidInput, name)
	}
}

// RequiresManifestation indica se a variante exige a sub-rotina de manifestação.
func (t EntryType) RequiresManifestation() bool {
	return t == EntryPurchaseResale
}

// String devolve o nome legível da variante.
func (t EntryType) String() string {
	switch t {
	case EntryPurchaseResale:
		return "compra-revenda"
	case EntryBranchTransfer:
		return "transferencia-filiais"
	default:
		return "desconhecido"
	}
}

// Invoice representa uma nota fiscal pendente de processamento, hidratada do
// join com filial, operação, centro de custo, política e tipo de lançamento.
// A entidade vive só durante a execução: o progresso persistido fica no status
// e no contador de tentativas da linha, nunca aqui.
type Invoice struct {
	AccessKey     string // chave de acesso (identificador natural)
	BranchNumber  string
	BranchName    string
	Operation     string
	Checker       string
	Seller        string
	CostCenter    string
	PaymentPolicy string
	EntryType     EntryType
	InvoiceNumber string

	// Products produtos com origem divergente, anexados no dispatch.
	Products []ProductOrigin
}

// NewInvoice constrói a entidade validando os campos obrigatórios da linha.
// Linha sem chave, sem filial ou com tipo de lançamento desconhecido é erro de
// integridade de dados, não um nil silencioso.
func NewInvoice(accessKey, branchNumber, branchName, operation, checker, seller,
	costCenter, paymentPolicy, launchTypeName, invoiceNumber string) (Invoice, error) {

	if accessKey == "" {
		return Invoice{}, fmt.Errorf("%w: chave de acesso vazia", domain.ErrInvalidInput)
	}
	if branchNumber == "" || branchName == "" {
		return Invoice{}, fmt.Errorf("%w: filial ausente na nota %s", domain.ErrInvalidInput, accessKey)
	}
	entryType, err := ParseEntryType(launchTypeName)
	if err != nil {
		return Invoice{}, fmt.Errorf("nota %s: %w", accessKey, err)
	}

	return Invoice{
		AccessKey:     accessKey,
		BranchNumber:  branchNumber,
		BranchName:    branchName,
		Operation:     operation,
		Checker:       checker,
		Seller:        seller,
		CostCenter:    costCenter,
		PaymentPolicy: paymentPolicy,
		EntryType:     entryType,
		InvoiceNumber: invoiceNumber,
	}, nil
}

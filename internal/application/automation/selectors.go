package automation

// Seletores das telas do ERP (interface GeneXus: IDs estáveis por campo).

// Tela de login.
const (
	loginFieldUser     = "#vUSUARIO"
	loginFieldPassword = "#vSENHA"
	loginButtonEnter   = "#ENTER"
	loginClosePopup    = "#gxp0_cls"
)

// Tela inicial e menu de módulos.
const (
	homeIconMenu         = "#DIVLOGO_MPAGE"
	homeButtonBranch     = "#TXTEMPRESAFILIAL_MPAGE"
	homeIframeBranch     = "#gxp0_ifrm"
	homeDropdownBranch   = "#vE35FILIAL"
	homeConfirmBranch    = "#BTNENTER"
	homeMenuModules      = "#MPW0100GRID1TABLE"
	homeMenuModuleFiscal = "#MPW0100GRID1TABLE_0008"
	homeMenuModuleStock  = "#MPW0100GRID1TABLE_0005"
)

// Módulo fiscal: pesquisa e manifestação de NF-e.
const (
	fiscalSidebar          = "//*[@id='cssmenu']/ul/li[9]/a"
	fiscalOptionInvoice    = "//*[@id='cssmenu']/ul/li[9]/ul/li[1]/a"
	fiscalTitle            = "#TXTTITULO_MPAGE"
	fiscalRoutine          = "Manifestação NF-e"
	fiscalButtonClean      = "#CLEANFILTERS"
	fiscalFieldKey         = "#vE161CHAVENFE"
	fiscalButtonSearch     = "#IMGPESQUISA"
	fiscalDropManifested   = "#vE161SITUACAOMANIFESTO"
	fiscalDropDocumentType = "#vE161TIPODOCUMENTO"
	fiscalDropSituation    = "#vE161SITUACAO"
	fiscalTextDocumentType = "#TXTTIPODOCUMENTO_0001"
	fiscalTextSituation    = "#TXTSITUACAO_0001"
	fiscalTextManifested   = "#TXTSITUACAOMANIFESTO_0001"
	fiscalCheckboxInvoice  = "#vCHECKNOTA_0001"
	fiscalButtonManifest   = "#BTNMANIFESTAR"
	fiscalIframeConfirm    = "#gxp1_ifrm"
	fiscalOptionConfirmOp  = "#vCONFIRMAOPERACAO"
	fiscalButtonManifestOK = "#BTNCONFIRMAR"
	fiscalButtonLaunch     = "#BTNLANCAR"
)

// Popups de seleção manual de evento (manifestação em duas etapas).
const (
	popupConfirmOperation   = "#gxp2_b"
	popupUpdateSituation    = "#BTNATUALIZASITUACAO"
	popupConfirmSituation   = "#BTNCONFIRMASITUACAO"
	popupConfirmEvent       = "#gxp3_b"
	popupDropdownSituation  = "#vE162EVENTO"
	popupButtonConfirmEvent = "#BTNCONFIRMAEVENTO"
)

// Importação do XML (etapa de operação antes do formulário de lançamento).
const (
	importFieldOperation    = "#vE120OPERACAO"
	importButtonNext        = "#BTNAVANCAR"
	importButtonConfirmNext = "#BTNCONFIRMAAVANCAR"
)

// Formulário de lançamento da NF-e (abas totais, itens, impostos, parcelas).
const (
	launchTitle             = "#TXTTITULO_MPAGE"
	launchRoutine           = "Lançamento NF-e"
	launchFieldChecker      = "#vE120CONFERENTE"
	launchFieldSeller       = "#vE120VENDEDOR"
	launchFieldPolicy       = "#vE120POLITICA"
	launchFieldCostCenter   = "#vE120CENTROCUSTO"
	launchButtonNext        = "#BTNPROSSEGUIR"
	launchTabTotals         = "#TABTOTAIS"
	launchTableItems        = "#GRIDITENS"
	launchButtonNextTab     = "#BTNPROXIMAABA"
	launchTabTaxes          = "#TABIMPOSTOS"
	launchErrorTaxes        = "#TXTERROIMPOSTOS"
	launchTableInstallments = "#GRIDPARCELAS"
	launchButtonConfirm     = "#BTNCONFIRMARLANCAMENTO"
)

// Módulo de estoque: importação de nota entre filiais.
const (
	stockSidebar        = "//*[@id='cssmenu']/ul/li[5]/a"
	stockOptionImport   = "//*[@id='cssmenu']/ul/li[5]/ul/li[3]/a"
	stockTitle          = "#TXTTITULO_MPAGE"
	stockRoutine        = "Importação de Nota entre Filiais"
	stockDropdownOrigin = "#vE140FILIALORIGEM"
	stockDropdownDest   = "#vE140FILIALDESTINO"
	stockFieldInvoice   = "#vE140NUMERONOTA"
	stockButtonSearch   = "#IMGPESQUISA"
	stockOptionInvoice  = "#GRIDNOTAS_0001"
	stockButtonNext     = "#BTNAVANCAR"
	stockButtonImport   = "#BTNIMPORTAR"
	stockButtonFinish   = "#BTNFINALIZAR"
)

// Cadastro de produtos (correção de origem tributária).
const (
	productSidebar        = "//*[@id='cssmenu']/ul/li[5]/a"
	productOptionStock    = "//*[@id='cssmenu']/ul/li[5]/ul/li[1]/a"
	productOptionRegister = "//*[@id='cssmenu']/ul/li[5]/ul/li[1]/ul/li[1]/a"
	productTitle          = "#TXTTITULO_MPAGE"
	productRoutine        = "Cadastro de Produtos"
	productButtonClean    = "#CLEANFILTERS"
	productFieldCode      = "#vE18CODPRO"
	productButtonSearch   = "#IMGPESQUISA"
	productButtonEdit     = "#IMGEDITAR_0001"
	productTabTax         = "#TABTRIBUTACAO"
	productDropdownOrigin = "#vE18ORIGEM"
	productButtonSave     = "#BTNSALVAR"
)

// Valores de filtro da pesquisa de manifestação.
const (
	filterSituationManifested = "Pendente"
	filterDocumentType        = "NF-e"
	filterSituation           = "Autorizada"
)

// Valores esperados nas verificações de elegibilidade e manifestação.
const (
	documentTypeApproved = "Nota Fiscal"
	situationApproved    = "Uso Autorizado no Momento da Consulta"
	manifestedApproved   = "Confirmada Operação"
	manifestedPending    = "Pendente"
)

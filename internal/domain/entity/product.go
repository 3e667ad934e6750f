package entity

// ProductOrigin par (código do produto, código de origem tributária) como
// registrado em um dos bancos. Ambos strings: os códigos do ERP carregam
// zeros à esquerda e nunca participam de aritmética.
type ProductOrigin struct {
	Code   string
	Origin string
}

package automation

import (
	"context"
	"time"
)

// Surface é a porta para a superfície de automação do navegador: o conjunto
// estreito de primitivas que o fluxo usa. A implementação real fica em
// internal/infrastructure/browser; os testes usam uma implementação roteirizada.
type Surface interface {
	// Navigate abre a URL na página do worker.
	Navigate(ctx context.Context, url string) error

	// Fill espera o elemento ficar visível e preenche o valor.
	Fill(ctx context.Context, selector, value string) error

	// Click espera o elemento e clica.
	Click(ctx context.Context, selector string) error

	// SelectOption seleciona uma opção de um <select> pelo texto ou valor.
	SelectOption(ctx context.Context, selector, option string) error

	// Check marca um checkbox; IsChecked relê o estado registrado.
	Check(ctx context.Context, selector string) error
	IsChecked(ctx context.Context, selector string) (bool, error)

	// InnerText devolve o texto do elemento, esperando até timeout.
	InnerText(ctx context.Context, selector string, timeout time.Duration) (string, error)

	// WaitVisible espera o elemento aparecer, até timeout.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// WaitLoad espera o carregamento da página assentar (network idle).
	WaitLoad(ctx context.Context) error

	// Sleep pausa o worker (as telas do ERP re-renderizam sem sinalização).
	Sleep(ctx context.Context, d time.Duration) error

	// Variantes cross-frame para os diálogos servidos em iframe.
	FrameClick(ctx context.Context, frameSelector, selector string) error
	FrameCheck(ctx context.Context, frameSelector, selector string) error
	FrameSelect(ctx context.Context, frameSelector, selector, option string) error

	// Screenshot captura a página inteira no caminho dado.
	Screenshot(ctx context.Context, path string) error
}

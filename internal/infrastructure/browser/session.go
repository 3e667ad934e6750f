package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/fourmaq/nfe-robot/internal/application/automation"
	"github.com/fourmaq/nfe-robot/pkg/logger"
)

// Session é uma instância dedicada de navegador com uma página, implementando
// a superfície de automação sobre o protocolo DevTools via rod. Cada worker
// recebe a sua: sessões não compartilham cookies nem estado de login.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	log      *logger.Logger
}

var _ automation.Surface = (*Session)(nil)

// defaultElementTimeout prazo das primitivas que não recebem timeout
// explícito. O sleeper padrão do rod retenta para sempre; sem este teto um
// seletor que nunca aparece prenderia o worker e, com ele, a barreira do
// ciclo inteiro.
const defaultElementTimeout = 30 * time.Second

// bounded deriva um contexto com o prazo padrão de resolução de elementos.
// Prazo mais curto já presente no contexto pai prevalece.
func bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultElementTimeout)
}

// NewSession sobe um Chromium gerenciado e abre a página do worker.
func NewSession(headless bool, log *logger.Logger) (*Session, error) {
	l := launcher.New().Headless(headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("iniciar navegador: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("conectar ao navegador: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("abrir página: %w", err)
	}

	return &Session{launcher: l, browser: b, page: page, log: log}, nil
}

// Close encerra a página, o navegador e o processo do Chromium.
func (s *Session) Close() {
	if err := s.page.Close(); err != nil {
		s.log.Warn().Err(err).Msg("falha ao fechar a página")
	}
	if err := s.browser.Close(); err != nil {
		s.log.Warn().Err(err).Msg("falha ao fechar o navegador")
	}
	s.launcher.Cleanup()
}

// element resolve o seletor na página, esperando o elemento existir. As telas
// do ERP misturam IDs GeneXus e itens de menu só alcançáveis por XPath.
func (s *Session) element(ctx context.Context, selector string) (*rod.Element, error) {
	page := s.page.Context(ctx)
	if strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(") {
		return page.ElementX(selector)
	}
	return page.Element(selector)
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("navegar para %s: %w", url, err)
	}
	return s.page.Context(ctx).WaitLoad()
}

func (s *Session) Fill(ctx context.Context, selector, value string) error {
	ctx, cancel := bounded(ctx)
	defer cancel()

	el, err := s.element(ctx, selector)
	if err != nil {
		return fmt.Errorf("localizar %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("esperar %s: %w", selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("limpar %s: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("preencher %s: %w", selector, err)
	}
	return nil
}

func (s *Session) Click(ctx context.Context, selector string) error {
	ctx, cancel := bounded(ctx)
	defer cancel()

	el, err := s.element(ctx, selector)
	if err != nil {
		return fmt.Errorf("localizar %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("esperar %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("clicar em %s: %w", selector, err)
	}
	return nil
}

func (s *Session) SelectOption(ctx context.Context, selector, option string) error {
	ctx, cancel := bounded(ctx)
	defer cancel()

	el, err := s.element(ctx, selector)
	if err != nil {
		return fmt.Errorf("localizar %s: %w", selector, err)
	}
	if err := el.Select([]string{option}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("selecionar %q em %s: %w", option, selector, err)
	}
	return nil
}

func (s *Session) Check(ctx context.Context, selector string) error {
	checked, err := s.IsChecked(ctx, selector)
	if err != nil {
		return err
	}
	if checked {
		return nil
	}
	return s.Click(ctx, selector)
}

func (s *Session) IsChecked(ctx context.Context, selector string) (bool, error) {
	ctx, cancel := bounded(ctx)
	defer cancel()

	el, err := s.element(ctx, selector)
	if err != nil {
		return false, fmt.Errorf("localizar %s: %w", selector, err)
	}
	prop, err := el.Property("checked")
	if err != nil {
		return false, fmt.Errorf("ler estado de %s: %w", selector, err)
	}
	return prop.Bool(), nil
}

func (s *Session) InnerText(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := s.element(tctx, selector)
	if err != nil {
		return "", fmt.Errorf("localizar %s: %w", selector, err)
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("ler texto de %s: %w", selector, err)
	}
	return text, nil
}

func (s *Session) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := s.element(tctx, selector)
	if err != nil {
		return fmt.Errorf("localizar %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("esperar %s: %w", selector, err)
	}
	return nil
}

func (s *Session) WaitLoad(ctx context.Context) error {
	if err := s.page.Context(ctx).WaitLoad(); err != nil {
		return fmt.Errorf("esperar carregamento da página: %w", err)
	}
	return nil
}

func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// frame resolve o documento dentro do iframe do seletor.
func (s *Session) frame(ctx context.Context, frameSelector string) (*rod.Page, error) {
	el, err := s.element(ctx, frameSelector)
	if err != nil {
		return nil, fmt.Errorf("localizar iframe %s: %w", frameSelector, err)
	}
	fr, err := el.Frame()
	if err != nil {
		return nil, fmt.Errorf("acessar iframe %s: %w", frameSelector, err)
	}
	return fr.Context(ctx), nil
}

func (s *Session) FrameClick(ctx context.Context, frameSelector, selector string) error {
	ctx, cancel := bounded(ctx)
	defer cancel()

	fr, err := s.frame(ctx, frameSelector)
	if err != nil {
		return err
	}
	el, err := fr.Element(selector)
	if err != nil {
		return fmt.Errorf("localizar %s no iframe: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("clicar em %s no iframe: %w", selector, err)
	}
	return nil
}

func (s *Session) FrameCheck(ctx context.Context, frameSelector, selector string) error {
	ctx, cancel := bounded(ctx)
	defer cancel()

	fr, err := s.frame(ctx, frameSelector)
	if err != nil {
		return err
	}
	el, err := fr.Element(selector)
	if err != nil {
		return fmt.Errorf("localizar %s no iframe: %w", selector, err)
	}
	prop, err := el.Property("checked")
	if err != nil {
		return fmt.Errorf("ler estado de %s no iframe: %w", selector, err)
	}
	if prop.Bool() {
		return nil
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("marcar %s no iframe: %w", selector, err)
	}
	return nil
}

func (s *Session) FrameSelect(ctx context.Context, frameSelector, selector, option string) error {
	ctx, cancel := bounded(ctx)
	defer cancel()

	fr, err := s.frame(ctx, frameSelector)
	if err != nil {
		return err
	}
	el, err := fr.Element(selector)
	if err != nil {
		return fmt.Errorf("localizar %s no iframe: %w", selector, err)
	}
	if err := el.Select([]string{option}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("selecionar %q em %s no iframe: %w", option, selector, err)
	}
	return nil
}

func (s *Session) Screenshot(ctx context.Context, path string) error {
	data, err := s.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("capturar tela: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("criar diretório de evidências: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("gravar evidência em %s: %w", path, err)
	}
	return nil
}

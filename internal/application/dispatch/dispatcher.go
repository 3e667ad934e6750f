package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fourmaq/nfe-robot/internal/application/automation"
	"github.com/fourmaq/nfe-robot/internal/application/reconcile"
	"github.com/fourmaq/nfe-robot/internal/domain"
	"github.com/fourmaq/nfe-robot/internal/domain/entity"
	"github.com/fourmaq/nfe-robot/internal/domain/repository"
	"github.com/fourmaq/nfe-robot/pkg/logger"
)

// SessionFactory abre uma superfície de navegador dedicada para um worker e
// devolve junto a função de encerramento dela.
type SessionFactory func() (automation.Surface, func(), error)

// CycleSummary é o retrato do último ciclo de despacho, exposto no endpoint
// de status.
type CycleSummary struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Dispatched int       `json:"dispatched"`
	Launched   int       `json:"launched"`
	Ineligible int       `json:"ineligible"`
	Failed     int       `json:"failed"`
}

// Dispatcher executa ciclos de processamento: busca o lote de notas não
// lançadas, anexa as divergências de origem de cada uma e despacha um worker
// por nota, cada qual com navegador e log próprios. Falha de uma nota nunca
// derruba as irmãs do mesmo ciclo.
type Dispatcher struct {
	invoices   repository.InvoiceRepository
	params     repository.ParametersRepository
	reconciler *reconcile.Reconciler
	sessions   SessionFactory
	creds      automation.Credentials
	limit      int
	logDir     string
	log        *logger.Logger

	mu   sync.Mutex
	last *CycleSummary
}

// NewDispatcher monta o despachante de ciclos.
func NewDispatcher(invoices repository.InvoiceRepository, params repository.ParametersRepository,
	reconciler *reconcile.Reconciler, sessions SessionFactory, creds automation.Credentials,
	limit int, logDir string, log *logger.Logger) *Dispatcher {

	return &Dispatcher{
		invoices:   invoices,
		params:     params,
		reconciler: reconciler,
		sessions:   sessions,
		creds:      creds,
		limit:      limit,
		logDir:     logDir,
		log:        log,
	}
}

// LastCycle devolve o resumo do último ciclo concluído, ou nil antes do
// primeiro.
func (d *Dispatcher) LastCycle() *CycleSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.last == nil {
		return nil
	}
	summary := *d.last
	return &summary
}

// RunCycle processa um lote completo e espera todos os workers terminarem
// antes de devolver. Lote vazio é um ciclo normal.
func (d *Dispatcher) RunCycle(ctx context.Context) error {
	summary := CycleSummary{ID: uuid.NewString(), StartedAt: time.Now()}
	log := d.log.WithField("ciclo", summary.ID)

	params, err := d.params.Get(ctx)
	if err != nil {
		return fmt.Errorf("carregar parâmetros de status: %w", err)
	}

	invoices, err := d.invoices.FetchPending(ctx, params.NotLaunched, d.limit)
	if err != nil {
		return fmt.Errorf("buscar notas pendentes: %w", err)
	}
	summary.Dispatched = len(invoices)

	if len(invoices) == 0 {
		log.Info().Msg("nenhuma nota pendente neste ciclo")
		d.record(summary)
		return nil
	}
	log.Info().Int("notas", len(invoices)).Msg("iniciando ciclo de processamento")

	var (
		mu      sync.Mutex
		g, gctx = errgroup.WithContext(ctx)
	)
	for _, invoice := range invoices {
		invoice := invoice
		g.Go(func() error {
			outcome := d.processOne(gctx, params, invoice, log)
			mu.Lock()
			switch {
			case outcome == nil:
				summary.Launched++
			case errors.Is(outcome, domain.ErrNotEligible):
				summary.Ineligible++
			default:
				summary.Failed++
			}
			mu.Unlock()
			// O isolamento entre notas é contratual: o erro já foi
			// tratado e contado, nunca propaga para cancelar as irmãs.
			return nil
		})
	}
	_ = g.Wait()

	summary.FinishedAt = time.Now()
	d.record(summary)
	log.Info().
		Int("lancadas", summary.Launched).
		Int("inelegiveis", summary.Ineligible).
		Int("falhas", summary.Failed).
		Msg("ciclo de processamento finalizado")
	return nil
}

func (d *Dispatcher) processOne(ctx context.Context, params entity.StatusParameters, invoice entity.Invoice, log *logger.Logger) (err error) {
	wlog, logErr := log.ForInvoice(d.logDir, invoice.AccessKey)
	if logErr != nil {
		log.Error().Err(logErr).Str("chave", invoice.AccessKey).Msg("falha ao abrir log da nota; usando o log do ciclo")
		wlog = log
	}

	defer func() {
		if r := recover(); r != nil {
			wlog.Error().Interface("panic", r).Msg("worker abortado por panic")
			err = fmt.Errorf("worker da nota %s: panic: %v", invoice.AccessKey, r)
		}
	}()

	surface, closeSession, err := d.sessions()
	if err != nil {
		wlog.Error().Err(err).Msg("falha ao abrir sessão de navegador")
		return fmt.Errorf("abrir sessão de navegador: %w", err)
	}
	defer closeSession()

	invoice.Products = d.reconciler.FindDivergentProducts(ctx, invoice.AccessKey)

	workflow := automation.NewWorkflow(surface, d.invoices, params, invoice, d.creds, d.logDir, wlog)
	return workflow.Run(ctx)
}

func (d *Dispatcher) record(summary CycleSummary) {
	if summary.FinishedAt.IsZero() {
		summary.FinishedAt = time.Now()
	}
	d.mu.Lock()
	d.last = &summary
	d.mu.Unlock()
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/fourmaq/nfe-robot/internal/application/automation"
	"github.com/fourmaq/nfe-robot/internal/application/dispatch"
	"github.com/fourmaq/nfe-robot/internal/application/reconcile"
	"github.com/fourmaq/nfe-robot/internal/infrastructure/browser"
	"github.com/fourmaq/nfe-robot/internal/infrastructure/postgres"
	httpRouter "github.com/fourmaq/nfe-robot/internal/interfaces/http"
	"github.com/fourmaq/nfe-robot/pkg/config"
	"github.com/fourmaq/nfe-robot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando robô de notas fiscais")

	// O diretório de logs guarda as evidências (log e screenshots por nota);
	// sem ele o processamento não tem rastro e não deve começar.
	if err := os.MkdirAll(cfg.Robot.LogDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Robot.LogDir).Msg("diretório de logs indisponível")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectPool, err := postgres.NewPool(ctx, cfg.Connect)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao banco operacional")
	}
	defer connectPool.Close()

	solutionPool, err := postgres.NewPool(ctx, cfg.Solution)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao banco do ERP")
	}
	defer solutionPool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(connectPool)
	paramsRepo := postgres.NewParametersRepository(connectPool)
	itemRepo := postgres.NewItemRepository(connectPool)
	solutionItemRepo := postgres.NewSolutionItemRepository(solutionPool)

	reconciler := reconcile.NewReconciler(itemRepo, solutionItemRepo, log)

	sessions := dispatch.SessionFactory(func() (automation.Surface, func(), error) {
		s, err := browser.NewSession(cfg.ERP.Headless, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	})

	dispatcher := dispatch.NewDispatcher(
		invoiceRepo, paramsRepo, reconciler, sessions,
		automation.Credentials{URL: cfg.ERP.URL, User: cfg.ERP.User, Password: cfg.ERP.Password},
		cfg.Robot.Limit, cfg.Robot.LogDir, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:    cfg.App.Name,
		Dispatcher: dispatcher,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	go pollLoop(ctx, dispatcher, cfg.Robot.Interval(), log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor HTTP")
	}

	log.Info().Msg("robô encerrado")
}

// pollLoop roda ciclos de despacho com pausa fixa entre eles até o contexto
// ser cancelado. O ciclo em andamento termina suas notas antes da pausa.
func pollLoop(ctx context.Context, dispatcher *dispatch.Dispatcher, interval time.Duration, log *logger.Logger) {
	for {
		if err := dispatcher.RunCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("ciclo de processamento abortado")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

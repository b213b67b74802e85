package cli

import (
	"context"
	"errors"
	"fmt"

	"shiftreport/internal/amqp"
	"shiftreport/internal/backend"
	"shiftreport/internal/config"
	"shiftreport/internal/exporter"
	"shiftreport/internal/log"
	"shiftreport/internal/pdf"
	"shiftreport/internal/report"
	"shiftreport/internal/store"
)

// App is the wired set of components every command starts from.
type App struct {
	Config       *config.Config
	Logger       *log.Logger
	Presentation config.Presentation
	Store        *store.Store
	Exporter     *exporter.Exporter
	Events       *amqp.Client
	Ready        backend.PingFunc

	cleanup []func() error
}

// NewApp opens the configured backend and builds the export pipeline. AMQP
// is optional: a broker that cannot be reached only disables export events.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	pres, err := config.LoadPresentation(cfg.ColumnsFile)
	if err != nil {
		return nil, err
	}
	app.Presentation = pres

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	app.Ready = res.Ping
	app.Store = store.New(res.Medium, res.Keys, logger)
	app.cleanup = append(app.cleanup, app.Store.Close)

	renderer, err := report.NewRenderer(cfg.ReportLocale, pres.Labels)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("create report renderer: %w", err)
	}

	opts := exporter.Options{
		Renderer:   renderer,
		PDFTimeout: cfg.PDFTimeout,
		Logger:     logger,
	}
	if cfg.GotenbergURL != "" {
		client := pdf.NewClient(cfg.GotenbergURL, cfg.PDFTimeout)
		if err := client.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "PDF renderer not reachable, PDF export will fail until it is",
				"url", cfg.GotenbergURL, log.FieldError, err)
		}
		opts.PDF = client
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without export events",
				log.FieldError, err)
		} else {
			logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			app.Events = client
			opts.Events = client
			app.cleanup = append(app.cleanup, client.Close)
		}
	}

	app.Exporter = exporter.New(opts)
	return app, nil
}

// Close releases everything NewApp opened, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		errs = append(errs, a.cleanup[i]())
	}
	a.cleanup = nil
	return errors.Join(errs...)
}

package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	apphttp "shiftreport/internal/http"
	"shiftreport/internal/log"
	"shiftreport/internal/session"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Duration("shutdown-timeout", 30*time.Second, "Time allowed for in-flight requests on shutdown")
	serveCmd.Flags().Int("mutations-per-minute", 120, "Rate limit for state changing requests per client")
	serveCmd.Flags().Bool("production", false, "Redirect plain HTTP to HTTPS")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the report editor and export server",
	Long: `Start the HTTP server. The last used branch is restored on startup and
every edit is saved to the configured backend.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
	perMinute, _ := cmd.Flags().GetInt("mutations-per-minute")
	production, _ := cmd.Flags().GetBool("production")

	app, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	logger := app.Logger
	cfg := app.Config

	sess := session.Open(cmd.Context(), session.Options{
		Store:         app.Store,
		Headers:       presentationHeaders(app.Presentation),
		DefaultBranch: cfg.DefaultBranch,
		DefaultTitle:  cfg.DefaultTitle,
		Logger:        logger,
	})

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Session:            sess,
		Exporter:           app.Exporter,
		Ready:              app.Ready,
		Logger:             logger,
		Production:         production,
		MutationsPerMinute: perMinute,
	})

	ctx, done := GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "Server shutdown error", log.FieldError, err)
		}
		if err := sess.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Final save failed", log.FieldBranch, sess.Branch(), log.FieldError, err)
		}
		if err := app.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to release resources", log.FieldError, err)
		}
	})

	logger.Info("Starting shiftreport server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		log.FieldBranch, sess.Branch(),
		"pdf_enabled", cfg.GotenbergURL != "",
		"events_enabled", app.Events != nil)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		_ = app.Close()
		return err
	}

	WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
	return nil
}

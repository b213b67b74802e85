package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"shiftreport/internal/amqp"
	"shiftreport/internal/log"
)

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "Time allowed to finish the current message on shutdown")
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print report export events as JSON lines",
	Long: `Consume the report export events published by the server and write
each one to stdout as a JSON line. Requires AMQP_URL.`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")

	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return err
	}
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required to consume export events")
	}
	logger := SetupLogger(cfg).WithComponent(log.ComponentCLI)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	defer client.Close()

	ctx, done := GracefulShutdown(logger, shutdownTimeout, nil)

	logger.Info("Consuming report export events", "queue", cfg.AMQPQueue)
	err = client.ConsumeReportExported(ctx, eventPrinter(cmd.OutOrStdout()))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	WaitForShutdown(ctx, done)
	return nil
}

// eventPrinter writes each event as one JSON line.
func eventPrinter(w io.Writer) func(*amqp.ReportExportedMessage) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return func(msg *amqp.ReportExportedMessage) error {
		return enc.Encode(msg)
	}
}

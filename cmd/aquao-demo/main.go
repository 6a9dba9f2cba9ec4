// Command aquao-demo runs the AquaO session demonstration: it reads the identity,
// authenticates with a freshly signed token, reads the identity again, logs out and
// reads it a last time, printing the principal and session after each call.
//
// Settings come from the environment and from the dotenv file selected by NODE_ENV
// (".env" for production, ".env.<NODE_ENV>" otherwise) in the working directory.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	goAquao "github.com/aquao/goAquao"
	"github.com/aquao/goAquao/internal/logger"
	promexport "github.com/aquao/goAquao/metrics/export/prometheus"
	"github.com/aquao/goAquao/session"
)

func main() {
	if err := run(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "aquao-demo:", err)
		os.Exit(1)
	}
}

func run(stdout io.Writer) error {
	cfg, err := goAquao.LoadConfig(".")
	if err != nil {
		return err
	}

	log := logger.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	slog.SetDefault(log)

	sinks := []goAquao.AuditSink{goAquao.NewSlogSink(log)}
	if cfg.Audit.Path != "" {
		f, err := os.OpenFile(cfg.Audit.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		defer f.Close()
		sinks = append(sinks, goAquao.NewJSONWriterSink(f))
	}

	client, err := goAquao.New().
		WithConfig(cfg).
		WithLogger(log).
		WithAuditSink(goAquao.MultiAuditSink(sinks...)).
		Build()
	if err != nil {
		return err
	}

	tracker, err := session.NewTracker(cfg.SessionName)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting sequence", slog.String("host", cfg.Host), slog.String("env", cfg.Env))
	report, runErr := client.Run(ctx, tracker)
	for _, step := range report.Steps {
		fmt.Fprintf(stdout, "Principal : '%s' with SESSION '%s'\n", step.Principal.Name, step.SessionID)
	}

	if cfg.Metrics.Textfile != "" {
		if err := promexport.WriteTextfile(cfg.Metrics.Textfile, client); err != nil {
			log.Error("write metrics textfile", logger.Error(err))
		}
	}

	if runErr != nil {
		return runErr
	}
	log.Info("sequence completed", logger.Latency(report.Duration))
	return nil
}

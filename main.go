package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/cmd/extract"
	"github.com/nrtkbb/fsorg/cmd/history"
	"github.com/nrtkbb/fsorg/cmd/importrules"
	"github.com/nrtkbb/fsorg/cmd/insert"
	"github.com/nrtkbb/fsorg/cmd/ls"
	"github.com/nrtkbb/fsorg/cmd/migrate"
	"github.com/nrtkbb/fsorg/cmd/organize"
	"github.com/nrtkbb/fsorg/cmd/rename"
	"github.com/nrtkbb/fsorg/cmd/rules"
	"github.com/nrtkbb/fsorg/cmd/serve"
	"github.com/nrtkbb/fsorg/cmd/testdata"
	"github.com/nrtkbb/fsorg/cmd/version"
	"github.com/nrtkbb/fsorg/config"
	"github.com/nrtkbb/fsorg/logging"
)

// initTracer initializes the OpenTelemetry tracer provider
func initTracer() (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	resource := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("fsorg"),
		semconv.ServiceVersion(version.Version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource),
	)
	otel.SetTracerProvider(tp)

	return tp, nil
}

func main() {
	configPath := flag.String("config", config.DefaultPath(), "configuration file")

	// Register subcommands
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&ls.Command{}, "browse")
	subcommands.Register(&organize.Command{}, "organize")
	subcommands.Register(&insert.Command{}, "organize")
	subcommands.Register(&rename.Command{}, "organize")
	subcommands.Register(&extract.Command{}, "organize")
	subcommands.Register(&rules.Command{}, "store")
	subcommands.Register(&importrules.Command{}, "store")
	subcommands.Register(&history.Command{}, "store")
	subcommands.Register(&migrate.Command{}, "store")
	subcommands.Register(&serve.Command{}, "")
	subcommands.Register(&version.Command{}, "")
	subcommands.Register(&testdata.Command{}, "")

	// Set the default subcommand to help if no subcommand is specified
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	status := run(context.Background(), cfg)
	logging.Sync()
	os.Exit(int(status))
}

func run(ctx context.Context, cfg *config.Config) subcommands.ExitStatus {
	if cfg.Tracing {
		tp, err := initTracer()
		if err != nil {
			logging.L().Error("failed to initialize tracing", zap.Error(err))
			return subcommands.ExitFailure
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logging.L().Error("error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// Execute the specified subcommand
	return subcommands.Execute(ctx, cfg)
}

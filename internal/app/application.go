package app

import (
	"context"
	"github.com/Imm0bilize/carbon-predict-client/internal/config"
	"github.com/Imm0bilize/carbon-predict-client/internal/entities"
	"github.com/Imm0bilize/carbon-predict-client/internal/infrastucture/console"
	"github.com/Imm0bilize/carbon-predict-client/internal/ucase"
	"github.com/Imm0bilize/carbon-predict-client/pkg/mlservice"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const serviceName = "carbon-predict-client"

// newTraceProvider is swapped in tests to observe the shutdown path.
var newTraceProvider = createTraceProvider

func createTraceProvider(ctx context.Context, cfg config.OTELConfig) (func(context.Context) error, error) {
	if !cfg.Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptrace.New(
		ctx,
		otlptracegrpc.NewClient(
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(net.JoinHostPort(cfg.Host, cfg.Port)),
			otlptracegrpc.WithDialOption(grpc.WithUserAgent(serviceName)),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "error creating otlp exporter")
	}

	resources, err := resource.New(
		ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("library.language", "go"),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "error creating trace resources")
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resources),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}))
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.Level)

	return zapCfg.Build()
}

// Run sends the fixed prediction request and prints the answer to out.
// Logs go to stderr so that out only ever receives the response line.
func Run(cfg *config.Config, out io.Writer) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return run(ctx, cfg, entities.Endpoint, out)
}

func run(ctx context.Context, cfg *config.Config, endpoint string, out io.Writer) error {
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return errors.Wrap(err, "error creating logger")
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("logger initialized")

	shutdownTraceProvider, err := newTraceProvider(ctx, cfg.OTEL)
	if err != nil {
		return err
	}
	defer func() {
		shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shCancel()

		if err := shutdownTraceProvider(shCtx); err != nil {
			logger.Error("error stopping trace provider", zap.Error(err))
		}
	}()

	predictor, err := mlservice.NewClient(endpoint, cfg.Predictor.Timeout, logger)
	if err != nil {
		return errors.Wrap(err, "error creating ml service client")
	}
	logger.Debug("ml service client created", zap.String("endpoint", endpoint))

	uCase := ucase.NewUseCase(
		logger,
		predictor,
		ucase.NewAnalyzeUseCase(),
		console.NewPrinter(logger, out),
	)

	processErr := uCase.Process(ctx, entities.DefaultPredictionRequest())

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()

	if err = predictor.Shutdown(shCtx); err != nil {
		logger.Error("error stopping ml service client", zap.Error(err))
	}

	return errors.Wrap(processErr, "error processing prediction")
}

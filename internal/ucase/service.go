package ucase

import (
	"context"
	"github.com/Imm0bilize/carbon-predict-client/internal/entities"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type (
	PredictorUCase interface {
		Predict(ctx context.Context, request entities.PredictionRequest) ([]byte, error)
	}

	AnalyzerUCase interface {
		Analyze(ctx context.Context, result []byte) (entities.PredictionResult, error)
	}

	ReporterUCase interface {
		Report(ctx context.Context, result []byte) error
	}
)

type UseCase struct {
	analyzer  AnalyzerUCase
	predictor PredictorUCase
	reporter  ReporterUCase

	logger *zap.Logger
	tracer trace.Tracer
}

func NewUseCase(
	logger *zap.Logger,
	predictor PredictorUCase,
	analyzer AnalyzerUCase,
	reporter ReporterUCase,
) *UseCase {
	return &UseCase{
		analyzer:  analyzer,
		predictor: predictor,
		reporter:  reporter,
		logger:    logger.Named("ucase"),
		tracer:    otel.GetTracerProvider().Tracer("uCase"),
	}
}

func (u UseCase) Process(ctx context.Context, request entities.PredictionRequest) error {
	ctx, span := u.tracer.Start(ctx, "ProcessRequest")
	defer span.End()

	res, err := u.predictor.Predict(ctx, request)
	if err != nil {
		return errors.Wrap(err, "predictor.Predict")
	}

	// The body is printed as is whatever its shape, the analysis only feeds the log.
	result, err := u.analyzer.Analyze(ctx, res)
	if err != nil {
		u.logger.Debug("response is not a carbon prediction", zap.Error(err))
	} else {
		u.logger.Info("carbon reduction predicted",
			zap.Int("userID", result.UserID),
			zap.Float64("predictedCarbonReduction", *result.PredictedCarbonReduction),
			zap.String("message", result.Message),
		)
	}

	if err = u.reporter.Report(ctx, res); err != nil {
		return errors.Wrap(err, "reporter.Report")
	}

	return nil
}

package ucase

import (
	"context"
	"encoding/json"
	"github.com/Imm0bilize/carbon-predict-client/internal/entities"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type AnalyzeUseCase struct {
	tracer trace.Tracer
}

var (
	_ AnalyzerUCase = AnalyzeUseCase{}
)

var ErrUnrecognizedResult = errors.New("unrecognized prediction result")

func NewAnalyzeUseCase() *AnalyzeUseCase {
	return &AnalyzeUseCase{
		otel.GetTracerProvider().Tracer("AnalyzeUseCase"),
	}
}

func (a AnalyzeUseCase) Analyze(ctx context.Context, result []byte) (entities.PredictionResult, error) {
	_, span := a.tracer.Start(ctx, "Analyze")
	defer span.End()

	var converted entities.PredictionResult
	if err := json.Unmarshal(result, &converted); err != nil {
		err = errors.Wrapf(ErrUnrecognizedResult, "can't decode result: %v", err)
		span.RecordError(err)
		return entities.PredictionResult{}, err
	}

	if converted.PredictedCarbonReduction == nil {
		err := errors.Wrap(ErrUnrecognizedResult, "predicted_carbon_reduction is missing")
		span.RecordError(err)
		return entities.PredictionResult{}, err
	}

	span.SetAttributes(
		attribute.Int("user.id", converted.UserID),
		attribute.Float64("carbon.reduction", *converted.PredictedCarbonReduction),
	)

	return converted, nil
}

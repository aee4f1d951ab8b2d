package ucase

import (
	"context"
	"github.com/Imm0bilize/carbon-predict-client/internal/entities"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"testing"
)

type stubPredictor struct {
	response []byte
	err      error
	requests []entities.PredictionRequest
}

func (s *stubPredictor) Predict(_ context.Context, request entities.PredictionRequest) ([]byte, error) {
	s.requests = append(s.requests, request)
	return s.response, s.err
}

type stubReporter struct {
	reported [][]byte
	err      error
}

func (s *stubReporter) Report(_ context.Context, result []byte) error {
	s.reported = append(s.reported, result)
	return s.err
}

func TestProcessReportsRawResponse(t *testing.T) {
	predictor := &stubPredictor{response: []byte(`{"result":"ok"}`)}
	reporter := &stubReporter{}

	uc := NewUseCase(zaptest.NewLogger(t), predictor, NewAnalyzeUseCase(), reporter)
	if err := uc.Process(context.Background(), entities.DefaultPredictionRequest()); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(predictor.requests) != 1 || predictor.requests[0] != entities.DefaultPredictionRequest() {
		t.Errorf("predictor requests = %+v", predictor.requests)
	}
	if len(reporter.reported) != 1 || string(reporter.reported[0]) != `{"result":"ok"}` {
		t.Errorf("reported = %q", reporter.reported)
	}
}

func TestProcessLogsCarbonPrediction(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	predictor := &stubPredictor{response: []byte(`{"user_id":101,"predicted_carbon_reduction":1.5,"message":"done"}`)}
	uc := NewUseCase(zap.New(core), predictor, NewAnalyzeUseCase(), &stubReporter{})

	if err := uc.Process(context.Background(), entities.DefaultPredictionRequest()); err != nil {
		t.Fatalf("Process: %v", err)
	}

	entries := logs.FilterMessage("carbon reduction predicted").All()
	if len(entries) != 1 {
		t.Fatalf("got %d prediction log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["predictedCarbonReduction"]; got != 1.5 {
		t.Errorf("logged prediction = %v, want 1.5", got)
	}
}

func TestProcessPredictorFailure(t *testing.T) {
	predictErr := errors.New("connection refused")
	reporter := &stubReporter{}

	uc := NewUseCase(zaptest.NewLogger(t), &stubPredictor{err: predictErr}, NewAnalyzeUseCase(), reporter)

	err := uc.Process(context.Background(), entities.DefaultPredictionRequest())
	if !errors.Is(err, predictErr) {
		t.Fatalf("error = %v, want wrapped predictor error", err)
	}
	if len(reporter.reported) != 0 {
		t.Errorf("reporter called %d times after failed prediction", len(reporter.reported))
	}
}

func TestProcessReporterFailure(t *testing.T) {
	reportErr := errors.New("broken pipe")

	uc := NewUseCase(
		zaptest.NewLogger(t),
		&stubPredictor{response: []byte(`{}`)},
		NewAnalyzeUseCase(),
		&stubReporter{err: reportErr},
	)

	if err := uc.Process(context.Background(), entities.DefaultPredictionRequest()); !errors.Is(err, reportErr) {
		t.Fatalf("error = %v, want wrapped reporter error", err)
	}
}

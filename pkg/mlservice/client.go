package mlservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/Imm0bilize/carbon-predict-client/internal/entities"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrRequestFailed is matched by every error Predict returns.
var ErrRequestFailed = errors.New("request failed")

// RequestFailure describes a prediction call that did not end with a 2xx response.
// StatusCode is zero when no response was received at all.
type RequestFailure struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *RequestFailure) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d %s", ErrRequestFailed, e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("%s: %v", ErrRequestFailed, e.Err)
}

func (e *RequestFailure) Is(target error) bool {
	return target == ErrRequestFailed
}

func (e *RequestFailure) Unwrap() error {
	return e.Err
}

type Client struct {
	endpoint string
	http     *http.Client
	tracer   trace.Tracer
	logger   *zap.Logger
}

func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "can`t parse ml-service endpoint")
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, errors.Errorf("ml-service endpoint %q is not an absolute url", endpoint)
	}

	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logger:   logger.Named("ml-service-client"),
		tracer:   otel.Tracer("mlservice-client"),
	}, nil
}

func (c Client) Predict(ctx context.Context, request entities.PredictionRequest) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "MLServiceClient.Predict")
	defer span.End()

	body, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "json.Marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "can`t build prediction request")
	}
	req.Header.Set("Content-Type", "application/json")

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	c.logger.Debug("sending prediction request",
		zap.String("endpoint", c.endpoint),
		zap.ByteString("payload", body),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(span, &RequestFailure{Err: err})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(span, &RequestFailure{Err: errors.Wrap(err, "can`t read response body")})
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.fail(span, &RequestFailure{StatusCode: resp.StatusCode, Body: respBody})
	}

	c.logger.Debug("prediction response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(respBody)),
	)

	return respBody, nil
}

func (c Client) fail(span trace.Span, failure *RequestFailure) error {
	span.RecordError(failure)
	span.SetStatus(codes.Error, failure.Error())

	fields := []zap.Field{zap.Error(failure)}
	if failure.StatusCode != 0 {
		fields = append(fields, zap.Int("status", failure.StatusCode), zap.ByteString("body", failure.Body))
	}
	c.logger.Error("error during make prediction", fields...)

	return failure
}

func (c Client) Shutdown(_ context.Context) error {
	c.http.CloseIdleConnections()
	return nil
}

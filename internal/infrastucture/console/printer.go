package console

import (
	"context"
	"github.com/Imm0bilize/carbon-predict-client/internal/entities"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"io"
)

// Printer writes prediction responses as single labelled lines.
type Printer struct {
	label  string
	out    io.Writer
	tracer trace.Tracer
	logger *zap.Logger
}

func NewPrinter(logger *zap.Logger, out io.Writer) *Printer {
	return &Printer{
		label:  entities.ResponseLabel,
		out:    out,
		tracer: otel.Tracer("console"),
		logger: logger.Named("console-printer"),
	}
}

func (p Printer) Report(ctx context.Context, result []byte) error {
	_, span := p.tracer.Start(ctx, "console.Report")
	defer span.End()

	line := make([]byte, 0, len(p.label)+len(result)+1)
	line = append(line, p.label...)
	line = append(line, result...)
	line = append(line, '\n')

	n, err := p.out.Write(line)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "can't write response to output")
	}

	p.logger.Debug("response printed", zap.Int("bytes", n))

	return nil
}

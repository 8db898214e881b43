package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// 记录辅助函数对 nil span / nil err 必须安全，调用方不做防御
func TestRecordHelpersTolerateNilInput(t *testing.T) {
	span := trace.SpanFromContext(context.Background())
	err := errors.New("boom")

	assert.NotPanics(t, func() {
		RecordError(nil, err, ErrorTypeDB)
		RecordError(span, nil, ErrorTypeDB)
		RecordErrorWithInfo(nil, err, ErrorTypeExtraction)
		RecordErrorWithInfo(span, err, ErrorTypeExtraction, attribute.String("error.stage", "extract"))
		RecordHTTPError(nil, err, 500)
		RecordHTTPError(span, nil, 500)
		RecordHTTPError(span, err, 503)
		RecordHTTPError(span, err, 404)
	})
}

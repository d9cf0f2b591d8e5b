// File: internal/infra/logging/logging_test.go
package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestTraceDurationEmitsStartAndFinish(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	done := TraceDuration(&logger, "ConversationUC.SendTurn")
	done()

	out := buf.String()
	if !strings.Contains(out, `"start"`) || !strings.Contains(out, `"finish"`) {
		t.Fatalf("missing start/finish entries: %s", out)
	}
	if !strings.Contains(out, "ConversationUC.SendTurn") {
		t.Fatalf("method name not logged: %s", out)
	}
	if !strings.Contains(out, `"duration"`) {
		t.Fatalf("finish entry has no duration: %s", out)
	}
}

func TestWithAttachesContextFields(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithTraceID(context.Background(), "trace-123")
	ctx = WithUserID(ctx, "user-456")
	With(ctx, &logger).Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"trace_id":"trace-123"`) {
		t.Fatalf("trace_id missing: %s", out)
	}
	if !strings.Contains(out, `"user_id":"user-456"`) {
		t.Fatalf("user_id missing: %s", out)
	}
}

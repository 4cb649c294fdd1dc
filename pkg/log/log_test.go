package log

import (
	"context"
	"os"
	"testing"

	contextPkg "CommunityCompass/pkg/context"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

func TestErrorWithTraceIDUsesRequestID(t *testing.T) {
	traceID := ErrorWithTraceID(Fields{"request_id": "01JREQ"}, "boom")
	require.Equal(t, "01JREQ", traceID)
}

func TestErrorWithTraceIDGeneratesID(t *testing.T) {
	first := ErrorWithTraceID(nil, "boom")
	second := ErrorWithTraceID(Fields{"request_id": "unknown"}, "boom")

	require.Len(t, first, 36)
	require.Len(t, second, 36)
	require.NotEqual(t, first, second)
}

func TestWithRequestID(t *testing.T) {
	entry := WithRequestID(contextPkg.WithRequestID(context.Background(), "01JREQ"))
	require.Equal(t, "01JREQ", entry.Data["request_id"])

	entry = WithRequestID(context.Background())
	require.Equal(t, "unknown", entry.Data["request_id"])

	require.Equal(t, "client-1", ForClient("client-1").Data[ClientIDKey])
}

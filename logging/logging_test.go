package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogRecordsMessage(t *testing.T) {
	w := new(bytes.Buffer)
	require.NoError(t, AddLogger("test", FilterByLevel(ALWAYS), NewHandlerWriter(w, "", Human, 0), false))
	defer AddLogger("test", nil, nil, false)

	require.NoError(t, Info(context.Background(), "hello %s", "world"))
	for _, l := range y.loggers {
		if hw, ok := l.Handler.(*baseHandlerWriter); ok {
			hw.Flush()
		}
	}

	require.Contains(t, w.String(), "hello world")
}

func TestFilterByLevelRejectsBelowThreshold(t *testing.T) {
	f := FilterByLevel(ERROR)
	ok, err := f.Accept(context.Background(), "pkg", DEBUG)
	require.False(t, ok)
	require.Error(t, err)

	ok, err = f.Accept(context.Background(), "pkg", SEVERE)
	require.True(t, ok)
	require.NoError(t, err)
}

func TestFmtRecordMessageIndentsContinuationLines(t *testing.T) {
	got := fmtRecordMessage("first\nsecond\nthird")
	require.True(t, strings.HasPrefix(got, "first\n\tsecond\n\tthird"))
}

package helper

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrettyHandlerHandle(t *testing.T) {
	ctx := context.Background()

	levels := []struct {
		level    slog.Level
		expected string
	}{
		{slog.LevelDebug, "DEBUG:"},
		{slog.LevelInfo, "INFO:"},
		{slog.LevelWarn, "WARN:"},
		{slog.LevelError, "ERROR:"},
	}

	for _, tt := range levels {
		t.Run("Handle "+tt.expected+" level log", func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewPrettyHandler(&buf, PrettyHandlerOptions{
				SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug},
			})

			record := slog.NewRecord(time.Now(), tt.level, "section analysed", 0)
			record.AddAttrs(slog.Int("section", 3), slog.String("book", "Emma"))

			err := handler.Handle(ctx, record)

			assert.NoError(t, err, "Expected Handle to not return an error")
			output := buf.String()
			assert.Contains(t, output, tt.expected, "Expected output to contain level")
			assert.Contains(t, output, "section analysed", "Expected output to contain the message")
			assert.Contains(t, output, "\"section\": 3", "Expected output to contain int attribute")
			assert.Contains(t, output, "Emma", "Expected output to contain string attribute")
		})
	}

	t.Run("Handle log with no attributes", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "simple message", 0)

		err := handler.Handle(ctx, record)

		assert.NoError(t, err)
		assert.Contains(t, buf.String(), "{}", "Expected output to contain empty JSON object for attributes")
	})

	t.Run("Handle log formats timestamp correctly", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "time test", 0)

		err := handler.Handle(ctx, record)

		assert.NoError(t, err)
		assert.Regexp(t, `\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, buf.String(), "Expected output to contain properly formatted timestamp")
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Verbose logger prints info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("Splitting book into sections")

		assert.Contains(t, buf.String(), "Splitting book into sections")
	})

	t.Run("Quiet logger drops info but keeps warnings", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Info("Splitting book into sections")
		logger.Warn("No positive interaction weights")

		assert.NotContains(t, buf.String(), "Splitting book into sections")
		assert.Contains(t, buf.String(), "No positive interaction weights")
	})
}

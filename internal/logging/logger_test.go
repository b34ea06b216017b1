package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsSilent(t *testing.T) {
	Set(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}

func TestSet(t *testing.T) {
	var buf bytes.Buffer
	Set(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer Set(nil)

	Logger().Debug("drawing closed", "elements", 5)
	assert.Contains(t, buf.String(), "elements=5")
}

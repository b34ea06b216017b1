package schemdraw

import (
	"log/slog"

	"github.com/benoitkugler/schemfig/internal/logging"
)

// SetLogger configures the logger for schemdraw and all the
// rendering packages of this module. By default, nothing is logged.
// Pass nil to restore the silent behavior.
//
// Log levels used:
//   - [slog.LevelDebug]: layout and rendering sizes
//   - [slog.LevelInfo]: output written by a figure
//   - [slog.LevelWarn]: unsupported SVG content ignored
func SetLogger(l *slog.Logger) { logging.Set(l) }

// Logger returns the current logger.
func Logger() *slog.Logger { return logging.Logger() }

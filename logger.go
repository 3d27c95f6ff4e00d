package graphview

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled reports false, so the viewer and the
// backends never build the attributes of a record nobody reads.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

// silent is the logger in effect until SetLogger installs another.
func silent() *slog.Logger { return slog.New(discard{}) }

// current is shared by the viewer, the gesture controller and every
// registered backend.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent())
}

// SetLogger routes the log output of graphview and its backends to l.
// Nothing is logged until it is called; nil silences output again. It is
// safe to call while a Viewer is drawing.
//
// Records are prefixed with the emitting package ("graphview:", "backend:",
// "raster:", "pipeline:", "scene:") and carry their subject as attributes
// such as node, backend, pass or err:
//   - [slog.LevelDebug]: drag and pan begin and end, a dragged node vanishing
//     with a graph replacement, dangling edges skipped while projecting or
//     batching, and pipeline shader compilation with its SPIR-V size
//   - [slog.LevelInfo]: a layout response applied (node and edge counts) and
//     Viewer.SetRenderer switching backend
//   - [slog.LevelWarn]: layout responses rejected or failed, backend.Default
//     falling through an unavailable backend, a shader that naga cannot
//     compile (the pipeline then draws on the CPU only), and a label font
//     that cannot be loaded
//
// A render loop that wants gesture tracing:
//
//	graphview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent()
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger, or a silent one.
func Logger() *slog.Logger {
	return current.Load()
}

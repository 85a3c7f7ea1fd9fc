package stage

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// globalDebug mirrors the most recently set debug flag so that entity
// operations (which lack a Director pointer) can check it cheaply.
var globalDebug bool

// SetDebugMode enables or disables debug checks globally. When enabled,
// disposed-entity access panics and tree depth warnings are logged.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// DebugMode reports whether debug checks are enabled.
func DebugMode() bool {
	return globalDebug
}

// debugLogger receives debug-mode warnings raised from entity operations.
var debugLogger = slog.Default()

// SetDebugLogger replaces the logger used for debug-mode warnings.
func SetDebugLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger()
	}
	debugLogger = l
}

// debugCheckDisposed panics with a descriptive message when a disposed
// entity is used in a tree operation. Callers only invoke it in debug mode.
func debugCheckDisposed(e *Entity, op string) {
	if e.disposed {
		panic(fmt.Sprintf("stage debug: %s on disposed entity %q", op, e.Name))
	}
}

// debugMaxTreeDepth is the depth past which AddChild logs a warning.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(e *Entity) {
	depth := 0
	for p := e; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("entity tree too deep",
			"depth", depth, "limit", debugMaxTreeDepth, "entity", e.Name)
	}
}

// tickStats holds per-tick timing for the Director. Only populated in debug
// mode.
type tickStats struct {
	commandTime time.Duration
	updateTime  time.Duration
	commands    int
	active      int
}

func (d *Director) debugLog(stats tickStats) {
	d.log.Debug("tick",
		"commands", stats.commands,
		"active", stats.active,
		"command_time", stats.commandTime,
		"update_time", stats.updateTime)
}

// discardLogger returns a logger that drops every record.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// orDiscard returns l, or a discarding logger when l is nil.
func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discardLogger()
	}
	return l
}

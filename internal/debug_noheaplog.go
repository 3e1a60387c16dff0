//go:build !debugheaplog

package internal

import (
	"context"
	"log/slog"
)

// LogEnabled reports whether l would emit a record at lvl. Callers check it
// before building attributes on the packet path.
func LogEnabled(l *slog.Logger, lvl slog.Level) bool {
	return l != nil && l.Handler().Enabled(context.Background(), lvl)
}

// LogAttrs logs to l if it is not nil. Built with the debugheaplog tag it is
// replaced by a printer that reports heap allocations between calls.
func LogAttrs(l *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if l != nil {
		l.LogAttrs(context.Background(), level, msg, attrs...)
	}
}

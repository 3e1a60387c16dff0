//go:build debugheaplog

package internal

import (
	"log/slog"
)

// LogEnabled always reports true so every trace point is printed.
func LogEnabled(*slog.Logger, slog.Level) bool { return true }

// LogAttrs prints with the runtime's print builtins so logging itself never
// allocates, then reports any allocation made since the last log call.
func LogAttrs(_ *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if level == LevelTrace {
		print("TRACE ")
	} else {
		print(level.String(), " ")
	}
	print(msg)
	for _, a := range attrs {
		switch a.Value.Kind() {
		case slog.KindString:
			print(" ", a.Key, "=", a.Value.String())
		case slog.KindInt64:
			print(" ", a.Key, "=", a.Value.Int64())
		case slog.KindUint64:
			print(" ", a.Key, "=", a.Value.Uint64())
		case slog.KindBool:
			print(" ", a.Key, "=", a.Value.Bool())
		}
	}
	println()
	LogAllocs(msg)
}

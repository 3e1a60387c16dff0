package internal

import (
	"log/slog"
	"runtime"
	"sync"
)

// LevelTrace is below debug and used for per-packet decisions.
const LevelTrace slog.Level = slog.LevelDebug - 2

var (
	memstats    runtime.MemStats
	lastAllocs  uint64
	lastMallocs uint64
	allocmu     sync.Mutex
)

// LogAllocs prints the heap growth since the previous call, if any, tagged with msg.
// It is used with the debugheaplog build tag to prove the packet path does not allocate.
func LogAllocs(msg string) {
	allocmu.Lock()
	defer allocmu.Unlock()
	runtime.ReadMemStats(&memstats)
	if memstats.TotalAlloc == lastAllocs {
		return
	}
	print("[ALLOC] ", msg)
	print(" inc=", int64(memstats.TotalAlloc)-int64(lastAllocs))
	print(" n=", int64(memstats.Mallocs)-int64(lastMallocs))
	print(" heap=", memstats.HeapAlloc)
	println()
	lastAllocs = memstats.TotalAlloc
	lastMallocs = memstats.Mallocs
}

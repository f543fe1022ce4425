package log

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"

	"roxtract/internal/logging"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
)

// Setup installs the roxtract logger as the slog default. The debug flag
// overrides ROXTRACT_LOG_LEVEL.
func Setup(debugMode bool) {
	initOnce.Do(func() {
		lg := logging.NewLogger()
		if debugMode {
			lg.SetLevel(charmlog.DebugLevel)
			lg.SetReportCaller(true)
		}

		slog.SetDefault(slog.New(lg.Logger))
		initialized.Store(true)
	})
}

func Initialized() bool {
	return initialized.Load()
}

func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}

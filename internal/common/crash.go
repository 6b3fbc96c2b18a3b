package common

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// CrashDir is where crash reports are written. SetupCrashDir points it
// next to the log file.
var CrashDir = "./logs"

// SetupCrashDir derives the crash directory from the configured log file
func SetupCrashDir(config *Config) {
	CrashDir = filepath.Dir(config.LogFilePath())
}

// WriteCrashReport writes the panic value, its stack and every goroutine
// to a timestamped file and returns the path. On failure the report goes
// to stderr and the returned path is empty.
func WriteCrashReport(panicVal interface{}, stack string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "studydesk %s crashed at %s\n\n", GetFullVersion(), time.Now().Format(time.RFC3339))
	fmt.Fprintf(&sb, "panic: %v\n\n%s\n", panicVal, stack)
	fmt.Fprintf(&sb, "goroutines: %d  GOOS: %s  GOARCH: %s\n\n", runtime.NumGoroutine(), runtime.GOOS, runtime.GOARCH)
	sb.WriteString(allStacks())

	path := filepath.Join(CrashDir, "crash-"+time.Now().Format("2006-01-02T15-04-05")+".log")
	if err := os.MkdirAll(CrashDir, 0755); err == nil {
		if err = os.WriteFile(path, []byte(sb.String()), 0644); err == nil {
			fmt.Fprintf(os.Stderr, "fatal: %v (report saved to %s)\n", panicVal, path)
			return path
		}
	}
	fmt.Fprint(os.Stderr, sb.String())
	return ""
}

// RecoverWithCrashFile is deferred at the top of main
func RecoverWithCrashFile() {
	if r := recover(); r != nil {
		buf := make([]byte, 8192)
		n := runtime.Stack(buf, false)
		WriteCrashReport(r, string(buf[:n]))
		os.Exit(2)
	}
}

func allStacks() string {
	buf := make([]byte, 64*1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) || len(buf) >= 16*1024*1024 {
			return string(buf[:n])
		}
		buf = make([]byte, len(buf)*2)
	}
}

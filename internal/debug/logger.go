// Package debug is a process-wide debug log. The terminal belongs to the
// UI, so output goes to a file or nowhere.
package debug

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	writer io.Writer = io.Discard
)

// SetOutput sets the debug output destination. nil discards.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	writer = w
}

// Log writes a debug message. Safe to call from command goroutines.
func Log(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if writer == io.Discard {
		return
	}
	fmt.Fprintf(writer, "%s "+format+"\n", append([]interface{}{time.Now().Format("15:04:05.000")}, args...)...)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return writer != io.Discard
}

// Package log configures apex/log for the memo command line tools.
package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/apex/log"
)

// LevelEnv names the environment variable holding the log level.
const LevelEnv = "MEMODEMO_LOG"

// InitLogger sets up apex with a CustomHandler on stderr and a level from
// MEMODEMO_LOG. Unknown or empty levels fall back to error.
func InitLogger() {
	log.SetHandler(NewHandler(os.Stderr))
	log.SetLevel(ParseLevel(os.Getenv(LevelEnv)))
}

// ParseLevel maps a level name to an apex level, defaulting to error.
func ParseLevel(s string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.ErrorLevel
	}
	return level
}

// CustomHandler formats log entries as "timestamp L message k=v ...".
type CustomHandler struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewHandler returns a CustomHandler writing to w.
func NewHandler(w io.Writer) *CustomHandler {
	return &CustomHandler{writer: w}
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1s %s", e.Timestamp.Format("2006-01-02 15:04:05"), strings.ToUpper(e.Level.String()), e.Message)

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields[name])
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, b.String())
	return err
}

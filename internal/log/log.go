package log

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
)

// Init sets up Apex with a custom handler and a log level. An empty
// level falls back to INFO.
func Init(level string) {
	if level == "" {
		level = "info"
	}
	log.SetHandler(&Handler{})
	log.SetLevelFromString(strings.ToLower(level))
}

// Handler formats log messages and writes them to stdout.
type Handler struct{}

// HandleLog implements the log.Handler interface.
func (h *Handler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())

	fields := make([]string, 0, len(e.Fields))
	for _, name := range sortedFieldNames(e.Fields) {
		fields = append(fields, fmt.Sprintf("%s=%v", name, e.Fields[name]))
	}

	if len(fields) > 0 {
		fmt.Fprintf(os.Stdout, "%s %.1s %s %s\n", timestamp, level, e.Message, strings.Join(fields, " "))
	} else {
		fmt.Fprintf(os.Stdout, "%s %.1s %s\n", timestamp, level, e.Message)
	}
	return nil
}

func sortedFieldNames(f log.Fields) []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

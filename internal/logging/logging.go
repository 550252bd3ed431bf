package logging

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Logger writes one JSON object per line. Every record gets a "ts" in the configured
// location and a "level" derived from "status" when the caller did not set one.
type Logger struct {
	mu        *sync.Mutex
	out       io.Writer
	loc       *time.Location
	component string
}

// New returns a Logger writing to w. A nil location means UTC.
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{mu: &sync.Mutex{}, out: w, loc: loc}
}

// Default logs to stdout in UTC.
func Default() *Logger {
	return New(os.Stdout, time.UTC)
}

// With returns a child logger that stamps "component" on every record.
func (l *Logger) With(component string) *Logger {
	return &Logger{mu: l.mu, out: l.out, loc: l.loc, component: component}
}

// Log writes data as a single JSON line. The map is not retained.
func (l *Logger) Log(data map[string]any) {
	entry := make(map[string]any, len(data)+3)
	for k, v := range data {
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	if _, ok := entry["component"]; !ok && l.component != "" {
		entry["component"] = l.component
	}
	if _, ok := entry["level"]; !ok {
		if entry["status"] == "error" {
			entry["level"] = "error"
		} else {
			entry["level"] = "info"
		}
	}

	b, err := json.Marshal(entry)
	if err != nil {
		log.Printf("failed to marshal log entry: %v", err)
		return
	}
	b = append(b, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(b)
}

// Info logs an informational event.
func (l *Logger) Info(event string, fields map[string]any) {
	l.Log(merge(fields, "event", event, "level", "info"))
}

// Warn logs a recoverable problem.
func (l *Logger) Warn(event string, fields map[string]any) {
	l.Log(merge(fields, "event", event, "level", "warn"))
}

// Error logs a failure together with its cause.
func (l *Logger) Error(event string, err error, fields map[string]any) {
	m := merge(fields, "event", event, "level", "error")
	if err != nil {
		m["error_message"] = err.Error()
	}
	l.Log(m)
}

func merge(fields map[string]any, kv ...string) map[string]any {
	m := make(map[string]any, len(fields)+len(kv)/2+1)
	for k, v := range fields {
		m[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

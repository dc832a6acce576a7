package logbuffer

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Entry struct {
	Timestamp time.Time         `json:"timestamp"`
	Level     string            `json:"level"`
	Component string            `json:"component,omitempty"` // WEBHOOK | EVOLUTION | AI ...
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// Buffer is a fixed-size ring of recent log entries. It implements logrus.Hook.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
	idx     int
	count   int
}

func New(size int) *Buffer {
	if size <= 0 {
		size = 500
	}
	return &Buffer{entries: make([]Entry, size)}
}

func (b *Buffer) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (b *Buffer) Fire(e *logrus.Entry) error {
	entry := Entry{
		Timestamp: e.Time.UTC(),
		Level:     e.Level.String(),
		Message:   e.Message,
	}
	entry.Component, entry.Message = splitComponent(e.Message)
	if len(e.Data) > 0 {
		entry.Fields = make(map[string]string, len(e.Data))
		for k, v := range e.Data {
			entry.Fields[k] = fmt.Sprint(v)
		}
	}
	b.Append(entry)
	return nil
}

func (b *Buffer) Append(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	b.mu.Lock()
	b.entries[b.idx] = e
	b.idx = (b.idx + 1) % len(b.entries)
	if b.count < len(b.entries) {
		b.count++
	}
	b.mu.Unlock()
}

// Query returns up to limit entries, newest first. An empty level matches all;
// otherwise entries at that severity or worse are returned.
func (b *Buffer) Query(level string, since time.Time, limit int) []Entry {
	threshold := logrus.TraceLevel
	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			threshold = lvl
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	res := make([]Entry, 0, b.count)
	for i := 0; i < b.count; i++ {
		pos := (b.idx - 1 - i + len(b.entries)) % len(b.entries)
		e := b.entries[pos]
		if !since.IsZero() && e.Timestamp.Before(since) {
			continue
		}
		lvl, err := logrus.ParseLevel(e.Level)
		if err == nil && lvl > threshold {
			continue
		}
		res = append(res, e)
		if limit > 0 && len(res) >= limit {
			break
		}
	}
	return res
}

func splitComponent(msg string) (string, string) {
	if !strings.HasPrefix(msg, "[") {
		return "", msg
	}
	end := strings.Index(msg, "]")
	if end <= 1 {
		return "", msg
	}
	return msg[1:end], strings.TrimSpace(msg[end+1:])
}

var defaultBuffer = New(500)

// Install replaces the shared buffer with one of the given size and registers
// it on the standard logrus logger.
func Install(size int) *Buffer {
	defaultBuffer = New(size)
	logrus.AddHook(defaultBuffer)
	return defaultBuffer
}

func Default() *Buffer {
	return defaultBuffer
}

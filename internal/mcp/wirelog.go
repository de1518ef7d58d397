package mcp

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
)

// WireLog appends every request/response frame to a JSON-lines file, one
// object per line keyed by timestamp. Rotation keeps the file bounded.
type WireLog struct {
	mu sync.Mutex
	w  io.Writer
}

type wireEntry struct {
	TS        string          `json:"ts"`
	Session   string          `json:"session"`
	Direction string          `json:"direction"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Raw       string          `json:"raw,omitempty"`
}

func NewWireLog(path string) *WireLog {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	return &WireLog{w: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
	}}
}

// Write logs one frame. Frames that are not valid JSON (the parse-error
// case) go out string-encoded under "raw" instead of "payload".
func (l *WireLog) Write(session, direction string, frame []byte) {
	e := wireEntry{
		TS:        time.Now().Format(time.RFC3339Nano),
		Session:   session,
		Direction: direction,
	}
	if json.Valid(frame) {
		e.Payload = json.RawMessage(frame)
	} else {
		e.Raw = string(frame)
	}
	line, err := json.Marshal(e)
	if err != nil {
		return
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(line)
}

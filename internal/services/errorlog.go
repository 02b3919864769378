package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/storage"

	"github.com/Lllllllleong/easyrent/internal/gcp"
)

type errorLogEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ErrorLog appends {"id","text"} lines to a local JSONL file. Lines written
// since the last Archive are also kept in memory so a run can ship them to
// Cloud Storage.
type ErrorLog struct {
	mu      sync.Mutex
	path    string
	pending bytes.Buffer
}

// NewErrorLog returns a log writing to path.
func NewErrorLog(path string) *ErrorLog {
	return &ErrorLog{path: path}
}

func (l *ErrorLog) Append(id, text string) error {
	line, err := json.Marshal(errorLogEntry{ID: id, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode error log entry: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open error log %s: %w", l.path, err)
	}
	defer file.Close()
	if _, err := file.Write(line); err != nil {
		return fmt.Errorf("failed to write error log %s: %w", l.path, err)
	}
	l.pending.Write(line)
	return nil
}

// Archive uploads the lines appended since the previous call as
// error-logs/<yyyy-mm-dd>/<runID>.jsonl. Nothing is written for a clean run.
func (l *ErrorLog) Archive(ctx context.Context, bucket *storage.BucketHandle, runID string) (string, error) {
	l.mu.Lock()
	content := bytes.Clone(l.pending.Bytes())
	l.pending.Reset()
	l.mu.Unlock()

	if len(content) == 0 {
		return "", nil
	}
	objectName := fmt.Sprintf("error-logs/%s/%s.jsonl", time.Now().UTC().Format("2006-01-02"), runID)
	if err := gcp.SaveToGCSAtomically(ctx, bucket, objectName, bytes.NewReader(content)); err != nil {
		return "", err
	}
	return objectName, nil
}

type discardLog struct{}

func (discardLog) Append(string, string) error { return nil }

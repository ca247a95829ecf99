package s3

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"zabbix-bridge/internal/schema"
)

// ObjectPutter is the slice of the S3 client the archiver needs.
type ObjectPutter interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// Archiver buffers events and uploads them as gzipped JSON line
// objects, one batch per object, keyed by day.
type Archiver struct {
	putter    ObjectPutter
	batchSize int

	mu     sync.Mutex
	buffer []*schema.Event
}

// NewArchiver creates an archiver uploading through the given client.
func NewArchiver(putter ObjectPutter, batchSize int) *Archiver {
	if batchSize < 1 {
		batchSize = 1000
	}
	return &Archiver{
		putter:    putter,
		batchSize: batchSize,
		buffer:    make([]*schema.Event, 0, batchSize),
	}
}

// Write buffers an event, uploading when the batch is full.
func (a *Archiver) Write(event *schema.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.buffer = append(a.buffer, event)
	if len(a.buffer) >= a.batchSize {
		return a.flushLocked()
	}
	return nil
}

// Flush uploads whatever is buffered.
func (a *Archiver) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flushLocked()
}

func (a *Archiver) flushLocked() error {
	if len(a.buffer) == 0 {
		return nil
	}

	events := a.buffer
	a.buffer = make([]*schema.Event, 0, a.batchSize)

	body, err := encodeBatch(events)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	return a.putter.Put(ctx, batchKey(time.Now().UTC()), body, "application/gzip")
}

// encodeBatch renders events as gzipped JSON lines.
func encodeBatch(events []*schema.Event) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := json.NewEncoder(gz)
	for _, event := range events {
		if err := enc.Encode(event); err != nil {
			gz.Close()
			return nil, fmt.Errorf("s3: failed to encode event: %w", err)
		}
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("s3: failed to compress batch: %w", err)
	}
	return buf.Bytes(), nil
}

func batchKey(now time.Time) string {
	return fmt.Sprintf("%s/batch-%s.jsonl.gz", now.Format("2006/01/02"), uuid.New())
}

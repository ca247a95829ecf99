package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"zabbix-bridge/internal/schema"

	"github.com/ClickHouse/clickhouse-go/v2/lib/column"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
)

// Mock driver.Conn and driver.Batch so the writers can be exercised
// without a ClickHouse instance.

type mockConn struct {
	mu      sync.Mutex
	batches []*mockBatch
	sendErr error
}

func (m *mockConn) Contributors() []string                                           { return nil }
func (m *mockConn) ServerVersion() (*driver.ServerVersion, error)                    { return nil, nil }
func (m *mockConn) Select(_ context.Context, _ any, _ string, _ ...any) error        { return nil }
func (m *mockConn) Query(_ context.Context, _ string, _ ...any) (driver.Rows, error) { return nil, nil }
func (m *mockConn) QueryRow(_ context.Context, _ string, _ ...any) driver.Row        { return nil }
func (m *mockConn) Exec(_ context.Context, _ string, _ ...any) error                 { return nil }
func (m *mockConn) AsyncInsert(_ context.Context, _ string, _ bool, _ ...any) error  { return nil }
func (m *mockConn) Ping(_ context.Context) error                                     { return nil }
func (m *mockConn) Stats() driver.Stats                                              { return driver.Stats{} }
func (m *mockConn) Close() error                                                     { return nil }

func (m *mockConn) PrepareBatch(_ context.Context, _ string, _ ...driver.PrepareBatchOption) (driver.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := &mockBatch{sendErr: m.sendErr}
	m.batches = append(m.batches, batch)
	return batch, nil
}

func (m *mockConn) appended() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, b := range m.batches {
		total += b.rows
	}
	return total
}

type mockBatch struct {
	mu      sync.Mutex
	rows    int
	sent    bool
	sendErr error
}

func (m *mockBatch) Abort() error { return nil }
func (m *mockBatch) Append(_ ...any) error {
	m.mu.Lock()
	m.rows++
	m.mu.Unlock()
	return nil
}
func (m *mockBatch) AppendStruct(_ any) error        { return nil }
func (m *mockBatch) Column(_ int) driver.BatchColumn { return nil }
func (m *mockBatch) Flush() error                    { return nil }
func (m *mockBatch) Send() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = true
	return nil
}
func (m *mockBatch) IsSent() bool                { return m.sent }
func (m *mockBatch) Rows() int                   { return m.rows }
func (m *mockBatch) Columns() []column.Interface { return nil }
func (m *mockBatch) Close() error                { return nil }

func newMockClient(conn driver.Conn) *ClickHouseClient {
	return &ClickHouseClient{conn: conn, config: DefaultClickHouseConfig()}
}

func newStoredEvent() *schema.Event {
	return &schema.Event{
		EventID:       uuid.New(),
		Instant:       time.Now().UTC(),
		ReceivedAt:    time.Now().UTC(),
		Source:        schema.Source{Product: "zabbix", URL: "http://zabbix.local"},
		Kind:          schema.KindProblem,
		Name:          "disk space low",
		Severity:      6,
		Host:          "db-01",
		Tags:          []schema.Tag{{Tag: "env", Value: "prod"}},
		SchemaVersion: schema.SchemaVersionCurrent,
	}
}

func TestBatchWriterBuffersBelowBatchSize(t *testing.T) {
	conn := &mockConn{}
	bw := NewBatchWriter(newMockClient(conn), BatchWriterConfig{
		BatchSize:     100,
		FlushInterval: time.Hour,
		RetryDelay:    time.Millisecond,
	})
	defer bw.Close()

	for i := 0; i < 5; i++ {
		if err := bw.Write(newStoredEvent()); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	m := bw.Metrics()
	if m.Pending != 5 || m.Written != 0 {
		t.Errorf("metrics = %+v; want 5 pending, none written", m)
	}
}

func TestBatchWriterFlushesOnBatchSize(t *testing.T) {
	conn := &mockConn{}
	bw := NewBatchWriter(newMockClient(conn), BatchWriterConfig{
		BatchSize:     3,
		FlushInterval: time.Hour,
		RetryDelay:    time.Millisecond,
	})
	defer bw.Close()

	for i := 0; i < 3; i++ {
		if err := bw.Write(newStoredEvent()); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	if got := conn.appended(); got != 3 {
		t.Errorf("appended rows = %d; want 3", got)
	}
	m := bw.Metrics()
	if m.Written != 3 || m.Batches != 1 || m.Pending != 0 {
		t.Errorf("metrics = %+v; want 3 written in 1 batch", m)
	}
}

func TestBatchWriterCloseFlushes(t *testing.T) {
	conn := &mockConn{}
	bw := NewBatchWriter(newMockClient(conn), BatchWriterConfig{
		BatchSize:     100,
		FlushInterval: time.Hour,
		RetryDelay:    time.Millisecond,
	})

	bw.Write(newStoredEvent())
	bw.Write(newStoredEvent())

	if err := bw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := conn.appended(); got != 2 {
		t.Errorf("appended rows = %d; want 2 flushed on close", got)
	}
	if err := bw.Write(newStoredEvent()); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("write after close = %v; want ErrWriterClosed", err)
	}
}

func TestBatchWriterInsertFailureCountsFailed(t *testing.T) {
	conn := &mockConn{sendErr: errors.New("connection reset")}
	bw := NewBatchWriter(newMockClient(conn), BatchWriterConfig{
		BatchSize:     1,
		FlushInterval: time.Hour,
		MaxRetries:    1,
		RetryDelay:    time.Millisecond,
	})
	defer bw.Close()

	err := bw.Write(newStoredEvent())
	if !errors.Is(err, ErrBatchInsertFailed) {
		t.Fatalf("write = %v; want ErrBatchInsertFailed", err)
	}
	if m := bw.Metrics(); m.Failed != 1 || m.Written != 0 {
		t.Errorf("metrics = %+v; want 1 failed", m)
	}
}

func TestSampleWriterWritesInstantKeyedSamples(t *testing.T) {
	conn := &mockConn{}
	sw := NewSampleWriter(newMockClient(conn))

	samples := map[time.Time]map[string]any{
		time.Unix(1700000000, 100).UTC(): {"value": "0.51"},
		time.Unix(1700000060, 200).UTC(): {"value": "0.57"},
	}
	if err := sw.WriteSamples(context.Background(), "23296", "10084", "float", samples); err != nil {
		t.Fatalf("WriteSamples: %v", err)
	}
	if got := conn.appended(); got != 2 {
		t.Errorf("appended rows = %d; want 2", got)
	}
}

func TestSampleWriterEmptyIsNoop(t *testing.T) {
	conn := &mockConn{}
	sw := NewSampleWriter(newMockClient(conn))
	if err := sw.WriteSamples(context.Background(), "1", "2", "float", nil); err != nil {
		t.Fatalf("WriteSamples: %v", err)
	}
	if len(conn.batches) != 0 {
		t.Error("empty sample set must not prepare a batch")
	}
}

func TestSampleValue(t *testing.T) {
	if got := sampleValue(map[string]any{"value": "0.51"}); got != "0.51" {
		t.Errorf("plain value = %q; want 0.51", got)
	}
	got := sampleValue(map[string]any{"value": "oom killer invoked", "severity": "3"})
	if !strings.Contains(got, "oom killer invoked") || !strings.Contains(got, "severity") {
		t.Errorf("multi-field value = %q; want JSON with all fields", got)
	}
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if len(migrations) < 2 {
		t.Fatalf("got %d migrations; want at least events and history", len(migrations))
	}
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version <= migrations[i-1].Version {
			t.Errorf("migrations out of order: %d after %d", migrations[i].Version, migrations[i-1].Version)
		}
	}
	if migrations[0].Name != "create_events" {
		t.Errorf("first migration = %q; want create_events", migrations[0].Name)
	}
}

func TestSplitStatements(t *testing.T) {
	sql := `-- a comment
CREATE TABLE t (x UInt8) ENGINE = Memory;

-- trailing comment only
`
	statements := splitStatements(sql)
	if len(statements) != 1 {
		t.Fatalf("got %d statements; want 1: %q", len(statements), statements)
	}
	if !strings.Contains(statements[0], "CREATE TABLE t") {
		t.Errorf("statement = %q", statements[0])
	}
}

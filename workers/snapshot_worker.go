package workers

import (
	"context"
	"log"

	"task-reward-system/utils"
)

// SaveRequest is one pending profile write. Version is the monotonic stamp
// assigned by the TaskStore at mutation time.
type SaveRequest struct {
	Key     string
	Version int64
	Blob    []byte
}

// SnapshotWorker drains save requests on a single goroutine so writes land
// in mutation order. A request whose version is at or below the last write
// for its key is stale — a newer snapshot already superseded it — and is
// skipped. Failed writes are logged and dropped: the in-memory profile stays
// authoritative and the next mutation produces a fresh snapshot anyway.
type SnapshotWorker struct {
	store    utils.BlobStore
	requests chan SaveRequest
	written  map[string]int64
}

func NewSnapshotWorker(store utils.BlobStore, buffer int) *SnapshotWorker {
	if buffer <= 0 {
		buffer = 256
	}
	return &SnapshotWorker{
		store:    store,
		requests: make(chan SaveRequest, buffer),
		written:  make(map[string]int64),
	}
}

// Schedule enqueues a write without ever blocking the mutation path. When
// the queue is full the oldest pending request is dropped to make room — a
// newer snapshot for its key supersedes it.
func (w *SnapshotWorker) Schedule(key string, version int64, blob []byte) {
	req := SaveRequest{Key: key, Version: version, Blob: blob}
	for {
		select {
		case w.requests <- req:
			return
		default:
		}
		select {
		case dropped := <-w.requests:
			log.Printf("⚠️  Snapshot queue full, superseding pending write %s v%d", dropped.Key, dropped.Version)
		default:
		}
	}
}

// Run drains the queue until the context is cancelled, then flushes whatever
// is still pending.
func (w *SnapshotWorker) Run(ctx context.Context) {
	log.Println("Starting snapshot worker...")
	for {
		select {
		case <-ctx.Done():
			w.flush()
			log.Println("Snapshot worker stopped.")
			return
		case req := <-w.requests:
			w.apply(ctx, req)
		}
	}
}

func (w *SnapshotWorker) flush() {
	for {
		select {
		case req := <-w.requests:
			w.apply(context.Background(), req)
		default:
			return
		}
	}
}

func (w *SnapshotWorker) apply(ctx context.Context, req SaveRequest) {
	if last, ok := w.written[req.Key]; ok && req.Version <= last {
		return
	}
	if err := w.store.Store(ctx, req.Key, req.Blob, req.Version); err != nil {
		log.Printf("❌ Failed to persist snapshot %s v%d: %v", req.Key, req.Version, err)
		return
	}
	w.written[req.Key] = req.Version
}

// Package ingest decouples capture from persistence. Handlers hand records
// to the pipeline and move on; a worker writes them out in the background.
// A database outage degrades capture fidelity, never user-facing behavior.
package ingest

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/securecorp/honeypot/models"
	"github.com/securecorp/honeypot/repositories"
)

// writeTimeout bounds each background write so a stuck database cannot
// wedge the worker forever.
const writeTimeout = 5 * time.Second

const defaultBuffer = 256

type job struct {
	kind  string
	write func(context.Context) error
}

// Pipeline is a fire-and-forget writer for capture records. Record calls
// return immediately; write outcomes are observed only in logs. No ordering
// is guaranteed across records.
type Pipeline struct {
	repos  *repositories.Repositories
	logger *zap.Logger

	queue chan job
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

// New creates a pipeline with the given queue capacity and starts its
// worker. Close must be called to drain it on shutdown.
func New(repos *repositories.Repositories, logger *zap.Logger, buffer int) *Pipeline {
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	p := &Pipeline{
		repos:  repos,
		logger: logger,
		queue:  make(chan job, buffer),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// RecordRequest enqueues a request log entry for writing.
func (p *Pipeline) RecordRequest(entry *models.RequestLogEntry) {
	p.enqueue("request log", func(ctx context.Context) error {
		return p.repos.RequestLogs.Create(ctx, entry)
	})
}

// RecordAttempt enqueues a credential attempt for writing.
func (p *Pipeline) RecordAttempt(attempt *models.CredentialAttempt) {
	p.enqueue("credential attempt", func(ctx context.Context) error {
		return p.repos.Credentials.Create(ctx, attempt)
	})
}

// RecordAdminAccess enqueues an admin access record for writing.
func (p *Pipeline) RecordAdminAccess(record *models.AdminAccessRecord) {
	p.enqueue("admin access record", func(ctx context.Context) error {
		return p.repos.AdminAccess.Create(ctx, record)
	})
}

// enqueue submits a job without ever blocking the caller. When the queue is
// full the record is dropped: losing a capture beats adding latency.
func (p *Pipeline) enqueue(kind string, write func(context.Context) error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.logger.Warn("ingest pipeline closed, dropping record", zap.String("kind", kind))
		return
	}

	select {
	case p.queue <- job{kind: kind, write: write}:
	default:
		p.logger.Warn("ingest queue full, dropping record", zap.String("kind", kind))
	}
}

func (p *Pipeline) run() {
	defer close(p.done)

	for j := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := j.write(ctx)
		cancel()

		if err != nil {
			p.logger.Warn("failed to persist record",
				zap.String("kind", j.kind),
				zap.Error(err),
			)
		}
	}
}

// Close stops accepting records and blocks until queued writes have been
// attempted. Safe to call more than once.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done
}

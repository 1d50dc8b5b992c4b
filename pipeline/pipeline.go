package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aluiziolira/go-game-deals/config"
	"github.com/aluiziolira/go-game-deals/models"
	"github.com/aluiziolira/go-game-deals/parser"
	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	// ErrPipelineClosed is returned when rows are submitted after Close.
	ErrPipelineClosed = errors.New("pipeline: closed")
	// ErrPipelineCloseTimeout is returned when workers do not drain in time.
	ErrPipelineCloseTimeout = errors.New("pipeline: close timed out")
)

var drainTimeout = 30 * time.Second

// OutputWriter receives validated export rows in batches.
type OutputWriter interface {
	Write(records []*models.GameRecord) error
	Close() error
	Validate() error
}

// Pipeline checks export rows, drops repeated titles and hands the rest to
// a writer in batches.
type Pipeline struct {
	ctx       context.Context
	writer    OutputWriter
	rows      chan *models.GameRecord
	batchSize int
	names     *nameWindow
	stats     *exportStats
	workers   sync.WaitGroup

	mu     sync.Mutex // guards closed and err
	closed bool
	err    error

	closeRows sync.Once
	done      chan struct{}
	doneOnce  sync.Once
}

// NewPipeline sizes the queue, batches and title window from cfg.
func NewPipeline(ctx context.Context, writer OutputWriter, cfg *config.Config) *Pipeline {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Pipeline{
		ctx:       ctx,
		writer:    writer,
		rows:      make(chan *models.GameRecord, positiveOr(cfg.PipelineBufferSize, 512)),
		batchSize: positiveOr(cfg.BatchSize, 64),
		names:     newNameWindow(positiveOr(cfg.DedupeMaxSize, 10000)),
		stats:     newExportStats(),
		done:      make(chan struct{}),
	}
}

func positiveOr(n, fallback int) int {
	if n > 0 {
		return n
	}
	return fallback
}

// Start launches writer workers. Rows keep their submission order only
// with a single worker.
func (p *Pipeline) Start(workers int) {
	if closed, _ := p.state(); closed {
		return
	}
	for i := 0; i < positiveOr(workers, 1); i++ {
		p.workers.Add(1)
		go p.work()
	}
}

// Process queues rows. Nil rows are ignored.
func (p *Pipeline) Process(records ...*models.GameRecord) error {
	closed, err := p.state()
	switch {
	case err != nil:
		return err
	case closed:
		return ErrPipelineClosed
	}

	for _, r := range records {
		if r == nil {
			continue
		}
		if err := p.submit(r); err != nil {
			return err
		}
	}
	return nil
}

// ProcessMap queues one row per game, ordered by title.
func (p *Pipeline) ProcessMap(games models.AggregateMap) error {
	return p.Process(models.Flatten(games)...)
}

// Close stops intake and waits up to drainTimeout for queued rows to be written.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.closeRows.Do(func() { close(p.rows) })

	drained := make(chan struct{})
	go func() {
		p.workers.Wait()
		close(drained)
	}()

	defer p.finish()
	select {
	case <-drained:
		return p.Err()
	case <-time.After(drainTimeout):
		return fmt.Errorf("%w after %s", ErrPipelineCloseTimeout, drainTimeout)
	}
}

// Err returns the first write failure, if any.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// GetMetrics returns exported_games and validation_errors counters.
func (p *Pipeline) GetMetrics() map[string]interface{} {
	return p.stats.snapshot()
}

// StartMetricsReporting logs progress every interval until Close.
func (p *Pipeline) StartMetricsReporting(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				slog.Debug("export progress",
					slog.Int64("exported", p.stats.exported.Load()),
					slog.Any("validation_errors", p.stats.rejections()),
				)
			case <-p.done:
				return
			}
		}
	}()
}

func (p *Pipeline) work() {
	defer p.workers.Done()

	batch := make([]*models.GameRecord, 0, p.batchSize)
	for r := range p.rows {
		if !p.accept(r) {
			continue
		}
		batch = append(batch, r)
		if len(batch) < p.batchSize {
			continue
		}
		if err := p.writer.Write(batch); err != nil {
			p.fail(fmt.Errorf("write batch: %w", err))
			return
		}
		batch = batch[:0]
	}

	if len(batch) > 0 {
		if err := p.writer.Write(batch); err != nil {
			p.fail(fmt.Errorf("write batch: %w", err))
		}
	}
}

// accept reports whether r should be exported, counting the reason when not.
func (p *Pipeline) accept(r *models.GameRecord) bool {
	if err := parser.ValidateRecord(r); err != nil {
		slog.Debug("dropping export row", slog.String("name", r.Name), slog.Any("error", err))
		p.stats.reject("invalid_record")
		return false
	}
	if !p.names.admit(r.Name) {
		p.stats.reject("duplicate_name")
		return false
	}
	p.stats.exported.Add(1)
	return true
}

func (p *Pipeline) submit(r *models.GameRecord) (err error) {
	// Close may race a submit and close rows underneath it.
	defer func() {
		if recover() != nil {
			err = ErrPipelineClosed
		}
	}()

	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case <-p.done:
		return ErrPipelineClosed
	case p.rows <- r:
		return nil
	}
}

func (p *Pipeline) fail(err error) {
	p.mu.Lock()
	first := p.err == nil
	if first {
		p.err = err
		p.closed = true
	}
	p.mu.Unlock()

	if first {
		p.finish()
	}
}

func (p *Pipeline) state() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed, p.err
}

func (p *Pipeline) finish() {
	p.doneOnce.Do(func() { close(p.done) })
}

// nameWindow remembers the most recent titles seen by the pipeline.
type nameWindow struct {
	mu    sync.Mutex
	names *lru.Cache[string, struct{}]
}

func newNameWindow(size int) *nameWindow {
	names, _ := lru.New[string, struct{}](size)
	return &nameWindow{names: names}
}

// admit records name and reports whether it was not already in the window.
func (w *nameWindow) admit(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.names.Contains(name) {
		return false
	}
	w.names.Add(name, struct{}{})
	return true
}

type exportStats struct {
	exported atomic.Int64

	mu       sync.Mutex
	rejected map[string]int
}

func newExportStats() *exportStats {
	return &exportStats{rejected: make(map[string]int)}
}

func (s *exportStats) reject(reason string) {
	s.mu.Lock()
	s.rejected[reason]++
	s.mu.Unlock()
}

func (s *exportStats) rejections() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.rejected))
	for k, v := range s.rejected {
		out[k] = v
	}
	return out
}

func (s *exportStats) snapshot() map[string]interface{} {
	return map[string]interface{}{
		"exported_games":    s.exported.Load(),
		"validation_errors": s.rejections(),
	}
}

package paging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunConfig selects the policy and capacity for one simulation pass
type RunConfig struct {
	Policy PolicyKind
	Frames int
	Trace  bool       // keep every Step in Result.Steps
	OnStep func(Step) // optional per-reference callback
}

// Step is the trace event emitted after each reference
type Step struct {
	Index    int
	Address  uint64
	Page     uint64
	Offset   uint64
	Fault    bool
	Evicted  bool
	Victim   uint64 // evicted page, valid when Evicted is set
	Frame    int    // slot holding Page after the step
	Snapshot Snapshot
}

// Result is the outcome of one simulation pass
type Result struct {
	ID            string
	Policy        PolicyKind
	Frames        int
	References    int
	DistinctPages int
	Faults        int
	Hits          int
	Evictions     int
	Steps         []Step
}

// HitRatio returns hits over references, 0 for an empty stream
func (r *Result) HitRatio() float64 {
	if r.References == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.References)
}

// Run simulates one pass of stream through a fresh frame table. It is a pure
// function of its inputs apart from the generated run ID.
func Run(stream *ReferenceStream, cfg RunConfig) (*Result, error) {
	if cfg.Frames < 1 {
		return nil, ErrInvalidFrames("Run", cfg.Frames)
	}
	if stream == nil {
		stream = NewPageStream(nil)
	}

	policy, err := NewPolicy(cfg.Policy, stream)
	if err != nil {
		return nil, err
	}

	table := NewFrameTable(cfg.Frames)
	result := &Result{
		ID:            uuid.New().String(),
		Policy:        cfg.Policy,
		Frames:        cfg.Frames,
		References:    stream.Len(),
		DistinctPages: stream.DistinctPages(),
	}
	if cfg.Trace {
		result.Steps = make([]Step, 0, stream.Len())
	}
	emit := cfg.Trace || cfg.OnStep != nil

	var stamp uint64
	for i := 0; i < stream.Len(); i++ {
		page := stream.Page(i)
		step := Step{
			Index:   i,
			Address: stream.Address(i),
			Page:    page,
			Offset:  stream.Offset(i),
		}

		if slot, ok := table.Lookup(page); ok {
			table.Touch(slot, i)
			result.Hits++
			step.Frame = slot
		} else {
			result.Faults++
			step.Fault = true
			if !table.IsFull() {
				step.Frame = table.Admit(page, i, stamp)
			} else {
				slot := policy.Victim(table, i)
				step.Evicted = true
				step.Victim = table.Frame(slot).Page
				table.Replace(slot, page, i, stamp)
				result.Evictions++
				step.Frame = slot
			}
			stamp++
		}

		if emit {
			step.Snapshot = table.Snapshot()
			if cfg.Trace {
				result.Steps = append(result.Steps, step)
			}
			if cfg.OnStep != nil {
				cfg.OnStep(step)
			}
		}
	}

	return result, nil
}

// Simulator wraps Run with logging, metrics and result memoization. It is
// safe for concurrent use; every run still gets its own frame table.
type Simulator struct {
	logger      *zap.Logger
	metrics     *Metrics
	cache       *ResultCache
	parallelism int
}

// Option configures a Simulator
type Option func(*Simulator)

// WithLogger sets the logger (default: nop)
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records every run into m
func WithMetrics(m *Metrics) Option {
	return func(s *Simulator) {
		s.metrics = m
	}
}

// WithResultCache memoizes untraced runs in c
func WithResultCache(c *ResultCache) Option {
	return func(s *Simulator) {
		s.cache = c
	}
}

// WithParallelism bounds how many runs Sweep and Compare execute at once
func WithParallelism(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// NewSimulator creates a simulator
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		logger:      zap.NewNop(),
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one simulation pass. Results served from the cache are shared
// and must not be modified.
func (s *Simulator) Run(ctx context.Context, stream *ReferenceStream, cfg RunConfig) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cacheable := s.cache != nil && stream != nil && !cfg.Trace && cfg.OnStep == nil
	if cacheable {
		if cached, ok := s.cache.Get(stream, cfg.Policy, cfg.Frames); ok {
			s.logger.Debug("result cache hit",
				zap.Stringer("policy", cfg.Policy),
				zap.Int("frames", cfg.Frames),
				zap.String("run_id", cached.ID),
			)
			if s.metrics != nil {
				s.metrics.RecordCacheHit(cfg.Policy)
			}
			return cached, nil
		}
	}

	start := time.Now()
	result, err := Run(stream, cfg)
	if err != nil {
		s.logger.Error("simulation rejected", zap.Stringer("policy", cfg.Policy), zap.Error(err))
		return nil, err
	}
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordRun(result, elapsed)
	}
	s.logger.Debug("simulation finished",
		zap.String("run_id", result.ID),
		zap.Stringer("policy", result.Policy),
		zap.Int("frames", result.Frames),
		zap.Int("references", result.References),
		zap.Int("faults", result.Faults),
		zap.Duration("elapsed", elapsed),
	)

	if cacheable {
		s.cache.Put(stream, result)
	}
	return result, nil
}

package paging

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepConfig describes a capacity sweep. Policy defaults to FIFO, the only
// policy that can show Belady's anomaly.
type SweepConfig struct {
	Policy    PolicyKind
	MinFrames int
	MaxFrames int
}

// SweepPoint is the fault count observed at one capacity
type SweepPoint struct {
	Frames int
	Faults int
}

// Anomaly is a pair of adjacent sweep points where more frames produced more faults
type Anomaly struct {
	Before SweepPoint
	After  SweepPoint
}

// Sweep runs FIFO at every capacity in [minFrames, maxFrames]
func Sweep(stream *ReferenceStream, minFrames, maxFrames int) ([]SweepPoint, error) {
	return NewSimulator().Sweep(context.Background(), stream, SweepConfig{
		Policy:    FIFO,
		MinFrames: minFrames,
		MaxFrames: maxFrames,
	})
}

// Sweep runs the policy once per capacity, each from an empty table, and
// returns the fault curve ordered by frame count.
func (s *Simulator) Sweep(ctx context.Context, stream *ReferenceStream, cfg SweepConfig) ([]SweepPoint, error) {
	if cfg.MinFrames < 1 {
		return nil, ErrInvalidFrames("Sweep", cfg.MinFrames)
	}
	if cfg.MaxFrames < cfg.MinFrames {
		return nil, ErrInvalidSweepRange("Sweep", cfg.MinFrames, cfg.MaxFrames)
	}

	points := make([]SweepPoint, cfg.MaxFrames-cfg.MinFrames+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i := range points {
		frames := cfg.MinFrames + i
		g.Go(func() error {
			result, err := s.Run(gctx, stream, RunConfig{Policy: cfg.Policy, Frames: frames})
			if err != nil {
				return err
			}
			points[i] = SweepPoint{Frames: frames, Faults: result.Faults}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("sweep finished",
		zap.Stringer("policy", cfg.Policy),
		zap.Int("min_frames", cfg.MinFrames),
		zap.Int("max_frames", cfg.MaxFrames),
	)
	return points, nil
}

// Compare runs several policies at the same capacity. Results follow the
// order of kinds.
func (s *Simulator) Compare(ctx context.Context, stream *ReferenceStream, frames int, kinds []PolicyKind) ([]*Result, error) {
	results := make([]*Result, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, kind := range kinds {
		g.Go(func() error {
			result, err := s.Run(gctx, stream, RunConfig{Policy: kind, Frames: frames})
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FindAnomalies returns every adjacent pair of points where the frame count
// grew and the fault count grew with it.
func FindAnomalies(points []SweepPoint) []Anomaly {
	var anomalies []Anomaly
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		if cur.Frames > prev.Frames && cur.Faults > prev.Faults {
			anomalies = append(anomalies, Anomaly{Before: prev, After: cur})
		}
	}
	return anomalies
}

package simulation

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/contactkeval/range-touch/internal/gaussian"
	"github.com/contactkeval/range-touch/internal/logger"
)

// DefaultChunkSize is the number of paths drawn from one random stream.
const DefaultChunkSize = 1000

// Config controls how a run is executed. None of it changes the model.
type Config struct {
	Seed      int64 `json:"seed,omitempty" mapstructure:"seed"`             // 0 = seed from the clock
	Workers   int   `json:"workers,omitempty" mapstructure:"workers"`       // 0 = runtime.NumCPU()
	ChunkSize int   `json:"chunk_size,omitempty" mapstructure:"chunk_size"` // 0 = DefaultChunkSize
}

// Engine runs simulations in parallel.
//
// Iterations are cut into chunks of ChunkSize paths. Chunk i always draws
// from stream i of the run seed and chunks are merged in index order, so a
// fixed seed and chunk size give the same Result for any worker count.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration after defaults.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run validates p and simulates p.Iterations paths. A cancelled ctx stops
// the run at the next path boundary and no partial result is returned.
func (e *Engine) Run(ctx context.Context, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seed := e.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	bounds := p.Bounds()
	size := e.cfg.ChunkSize
	chunks := (p.Iterations + size - 1) / size

	logger.Infof("simulating %d paths over %d days: price=%.2f atr=%.4f band=[%.2f, %.2f] seed=%d",
		p.Iterations, p.Days, p.CurrentPrice, p.ATR, bounds.Lower, bounds.Upper, seed)
	logger.Debugf("%d chunks of up to %d paths on %d workers", chunks, size, e.cfg.Workers)

	start := time.Now()
	parts := make([]*tally, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i := 0; i < chunks; i++ {
		n := min(size, p.Iterations-i*size)
		g.Go(func() error {
			src := gaussian.NewSource(uint64(seed), uint64(i))
			t, err := runChunk(gctx, p, bounds, src, n)
			if err != nil {
				return err
			}
			parts[i] = t
			logger.Tracef("chunk %d done: %d paths, %d touched a bound", i, n, t.combined)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Errorf("simulation aborted: %v", err)
		return nil, err
	}

	total := newTally(p.Iterations)
	for _, t := range parts {
		total.merge(t)
	}
	res := total.finalize(p, seed)

	logger.Infof("simulation finished in %v: upper=%.2f%% lower=%.2f%% either=%.2f%%",
		time.Since(start), res.ProbabilityUpper, res.ProbabilityLower, res.ProbabilityCombined)
	return res, nil
}

// Simulate runs every path sequentially on src. It is the single-stream
// form of Run, for callers that manage their own random source.
// The returned Result carries Seed 0 since the source is opaque here.
func Simulate(p Params, src gaussian.Source) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	t, err := runChunk(context.Background(), p, p.Bounds(), src, p.Iterations)
	if err != nil {
		return nil, err
	}
	return t.finalize(p, 0), nil
}

func runChunk(ctx context.Context, p Params, b Bounds, src gaussian.Source, n int) (*tally, error) {
	t := newTally(n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, out := simulatePath(p, b, src)
		t.add(path, out)
	}
	return t, nil
}

package organize

import (
	"context"
	L "fftpeg/logger"
	"fftpeg/metrics"
	"fmt"
	"sync"
	"time"
)

// Sweeper runs SweepBroken on a fixed interval. Overlapping runs are skipped.
type Sweeper struct {
	engine   *Engine
	interval time.Duration

	mu         sync.Mutex
	inProgress bool
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewSweeper(engine *Engine, interval time.Duration) *Sweeper {
	return &Sweeper{engine: engine, interval: interval}
}

// Start launches the sweep loop. It is a no-op while a loop is already
// running.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		L.Warn("sweeper: already started")
		return
	}
	sweepCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(sweepCtx, s.done)
	L.Info(fmt.Sprintf("sweeper: started, interval %s", s.interval))
}

// Stop cancels the loop and waits for it to return.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	L.Info("sweeper: stopped")
}

func (s *Sweeper) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce sweeps all namespaces. skipped is true when another run was
// already in progress.
func (s *Sweeper) RunOnce() (removed int, skipped bool, err error) {
	s.mu.Lock()
	if s.inProgress {
		s.mu.Unlock()
		L.Warn("sweeper: sweep already running, skipping")
		return 0, true, nil
	}
	s.inProgress = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inProgress = false
		s.mu.Unlock()
	}()

	removed, err = s.engine.SweepBroken()
	metrics.SweepRuns.Inc()
	metrics.LastSweep.SetToCurrentTime()
	if err != nil {
		L.Error(fmt.Sprintf("sweeper: %v", err))
	}
	if removed > 0 {
		L.Info(fmt.Sprintf("sweeper: removed %d broken links", removed))
	}
	return removed, false, err
}

func (s *Sweeper) InProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inProgress
}

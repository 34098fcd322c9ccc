package scrape

import (
	"context"
	"math/rand"
	"time"
)

// PacerConfig controls inter-request delays.
type PacerConfig struct {
	JitterMin  time.Duration // lower bound of the per-profile delay
	JitterMax  time.Duration // upper bound of the per-profile delay
	PageDelay  time.Duration // pause between "Load More" clicks
	BurstEvery int           // cooldown after this many successful writes
	Cooldown   time.Duration // duration of the periodic cooldown
}

// DefaultPacerConfig mirrors the pacing the site tolerates in practice.
func DefaultPacerConfig() PacerConfig {
	return PacerConfig{
		JitterMin:  2 * time.Second,
		JitterMax:  10 * time.Second,
		PageDelay:  1 * time.Second,
		BurstEvery: 40,
		Cooldown:   120 * time.Second,
	}
}

// Pacer computes politeness delays. It is a pure function of its counters;
// sleeping is the caller's job (see Pause).
type Pacer struct {
	cfg  PacerConfig
	rand *rand.Rand
}

// NewPacer builds a Pacer. A nil source seeds from the wall clock.
func NewPacer(cfg PacerConfig, src rand.Source) *Pacer {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Pacer{cfg: cfg, rand: rand.New(src)}
}

// NextDelay returns the pause that should follow a profile visit. Every
// BurstEvery-th successful write earns the long cooldown; everything else
// gets uniform jitter in [JitterMin, JitterMax].
func (p *Pacer) NextDelay(okCount int) time.Duration {
	if p.cfg.BurstEvery > 0 && okCount > 0 && okCount%p.cfg.BurstEvery == 0 {
		return p.cfg.Cooldown
	}
	span := p.cfg.JitterMax - p.cfg.JitterMin
	if span <= 0 {
		return p.cfg.JitterMin
	}
	return p.cfg.JitterMin + time.Duration(p.rand.Int63n(int64(span)))
}

// PageDelay returns the fixed pause between pagination clicks.
func (p *Pacer) PageDelay() time.Duration {
	return p.cfg.PageDelay
}

// Pause sleeps for delay or until ctx is done, whichever comes first.
func Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

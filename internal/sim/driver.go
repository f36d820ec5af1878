package sim

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Driver paces an Engine on a wall-clock ticker. The speed multiplier only
// shortens the interval; every tick still advances the game by one base
// interval. At most one ticker goroutine is live at a time.
type Driver struct {
	engine   *Engine
	interval time.Duration

	mu     sync.Mutex
	speed  float64
	paused bool
	parent context.Context
	cancel context.CancelFunc
	// done is closed when the ticker goroutine returns, including on its own
	// after game over.
	done chan struct{}

	// OnTick observes each tick result. It runs on the ticker goroutine and
	// must not call back into the Driver.
	OnTick func(TickReport)
}

func NewDriver(engine *Engine, interval time.Duration, speed float64) *Driver {
	if interval <= 0 {
		interval = time.Second
	}
	if speed <= 0 {
		speed = 1
	}
	return &Driver{engine: engine, interval: interval, speed: speed}
}

// Start launches the ticker. Calling Start on a running driver restarts it.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.parent = ctx
	d.restartLocked()
}

func (d *Driver) restartLocked() {
	d.stopLocked()
	if d.parent == nil || d.paused {
		return
	}
	ctx, cancel := context.WithCancel(d.parent)
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done
	go d.loop(ctx, time.Duration(float64(d.interval)/d.speed), done)
}

func (d *Driver) stopLocked() {
	if d.done == nil {
		return
	}
	d.cancel()
	<-d.done
	d.cancel = nil
	d.done = nil
}

func (d *Driver) runningLocked() bool {
	if d.done == nil {
		return false
	}
	select {
	case <-d.done:
		return false
	default:
		return true
	}
}

func (d *Driver) loop(ctx context.Context, every time.Duration, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := d.engine.Advance(ctx, d.interval)
			if errors.Is(err, ErrGameOver) {
				d.engine.log.Info("driver stopped: game over")
				return
			}
			if err != nil {
				d.engine.log.Error("tick failed", "err", err)
				continue
			}
			if d.OnTick != nil {
				d.OnTick(report)
			}
			if report.GameOver {
				d.engine.log.Info("driver stopped: game over")
				return
			}
		}
	}
}

// SetSpeed stops the live ticker and starts a new one at the new cadence.
func (d *Driver) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.speed = speed
	if d.runningLocked() {
		d.restartLocked()
	}
}

func (d *Driver) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = true
	d.stopLocked()
}

func (d *Driver) Resume() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.paused {
		return
	}
	d.paused = false
	d.restartLocked()
}

// Stop halts the ticker; Start may be called again later.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

type DriverStatus struct {
	Speed    float64       `json:"speed"`
	Paused   bool          `json:"paused"`
	Running  bool          `json:"running"`
	Interval time.Duration `json:"interval"`
}

func (d *Driver) Status() DriverStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DriverStatus{Speed: d.speed, Paused: d.paused, Running: d.runningLocked(), Interval: d.interval}
}

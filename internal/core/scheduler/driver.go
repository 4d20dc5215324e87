package scheduler

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ticker is the driver's target, normally a *Scheduler.
type Ticker interface {
	Tick(now time.Time)
}

// Driver invokes its target at a fixed rate. Ticks never overlap: the next
// one is not dispatched before the previous call returns.
type Driver struct {
	mu       sync.Mutex
	target   Ticker
	interval time.Duration
	stopCh   chan struct{}
	running  bool
	logger   *zap.Logger
}

// NewDriver creates a driver. A non-positive interval defaults to one second.
func NewDriver(target Ticker, interval time.Duration, logger *zap.Logger) *Driver {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		target:   target,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the ticking loop. Calling Start again cancels the previous
// loop before installing a new one, so restarts never leave two drivers
// running.
func (driver *Driver) Start() {
	driver.mu.Lock()
	if driver.running {
		close(driver.stopCh)
		driver.logger.Info("tick driver restarted")
	}
	driver.stopCh = make(chan struct{})
	driver.running = true
	stopCh := driver.stopCh
	driver.mu.Unlock()

	go driver.run(stopCh)
}

// Stop terminates the ticking loop.
func (driver *Driver) Stop() {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	if !driver.running {
		return
	}
	close(driver.stopCh)
	driver.running = false
}

func (driver *Driver) run(stopCh chan struct{}) {
	ticker := time.NewTicker(driver.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			driver.target.Tick(tickTime)
		}
	}
}

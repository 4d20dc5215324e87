package platform

import (
	"time"

	"resthawk/internal/core/scheduler"

	"go.uber.org/zap"
)

// IdleProbe senses user idleness and screen lock for the current session.
type IdleProbe struct {
	logger *zap.Logger
	sensor sessionSensor
}

// sessionSensor is the OS-specific part of the probe.
type sessionSensor interface {
	// idleDuration returns the time since the last user input.
	idleDuration() (time.Duration, error)
	// locked reports whether the session screen is locked.
	locked() (bool, error)
}

// NewIdleProbe returns a probe backed by the platform sensor.
func NewIdleProbe(logger *zap.Logger) *IdleProbe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdleProbe{
		logger: logger,
		sensor: newSessionSensor(),
	}
}

// StateFor classifies the session. Sensor errors degrade to Unknown so a
// broken probe can never stall the scheduler.
func (probe *IdleProbe) StateFor(threshold time.Duration) scheduler.SessionState {
	locked, err := probe.sensor.locked()
	if err != nil {
		probe.logger.Debug("lock probe failed", zap.Error(err))
		return scheduler.SessionUnknown
	}
	if locked {
		return scheduler.SessionLocked
	}

	idleFor, err := probe.sensor.idleDuration()
	if err != nil {
		probe.logger.Debug("idle probe failed", zap.Error(err))
		return scheduler.SessionUnknown
	}
	if idleFor >= threshold {
		return scheduler.SessionIdle
	}
	return scheduler.SessionActive
}

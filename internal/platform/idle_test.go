package platform

import (
	"errors"
	"testing"
	"time"

	"resthawk/internal/core/scheduler"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSensor struct {
	idle     time.Duration
	idleErr  error
	isLocked bool
	lockErr  error
}

func (sensor *fakeSensor) idleDuration() (time.Duration, error) {
	return sensor.idle, sensor.idleErr
}

func (sensor *fakeSensor) locked() (bool, error) {
	return sensor.isLocked, sensor.lockErr
}

func newTestProbe(sensor sessionSensor) *IdleProbe {
	return &IdleProbe{logger: zap.NewNop(), sensor: sensor}
}

func TestStateForLocked(t *testing.T) {
	probe := newTestProbe(&fakeSensor{isLocked: true})
	assert.Equal(t, scheduler.SessionLocked, probe.StateFor(time.Minute))
}

func TestStateForIdleThreshold(t *testing.T) {
	probe := newTestProbe(&fakeSensor{idle: 2 * time.Minute})
	assert.Equal(t, scheduler.SessionIdle, probe.StateFor(time.Minute))
	assert.Equal(t, scheduler.SessionIdle, probe.StateFor(2*time.Minute), "threshold is inclusive")
	assert.Equal(t, scheduler.SessionActive, probe.StateFor(3*time.Minute))
}

func TestStateForSensorErrorsDegradeToUnknown(t *testing.T) {
	probe := newTestProbe(&fakeSensor{lockErr: errors.New("no session bus")})
	assert.Equal(t, scheduler.SessionUnknown, probe.StateFor(time.Minute))

	probe = newTestProbe(&fakeSensor{idleErr: errors.New("no idle counter")})
	assert.Equal(t, scheduler.SessionUnknown, probe.StateFor(time.Minute))
}

//go:build darwin

package platform

import (
	"errors"
	"time"
)

// errSensorUnsupported indicates idle sensing is not implemented here; the
// probe reports Unknown and the scheduler falls back to tick-drift detection.
var errSensorUnsupported = errors.New("session sensor unsupported")

type darwinSensor struct{}

func newSessionSensor() sessionSensor {
	return &darwinSensor{}
}

func (sensor *darwinSensor) idleDuration() (time.Duration, error) {
	return 0, errSensorUnsupported
}

func (sensor *darwinSensor) locked() (bool, error) {
	return false, errSensorUnsupported
}

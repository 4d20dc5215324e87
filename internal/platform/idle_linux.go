//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// errSensorUnsupported indicates the desktop session exposes no idle counter.
var errSensorUnsupported = errors.New("session sensor unsupported")

type linuxSensor struct {
	xprintidlePath string
	loginctlPath   string
}

func newSessionSensor() sessionSensor {
	sensor := &linuxSensor{}
	if path, err := exec.LookPath("xprintidle"); err == nil {
		sensor.xprintidlePath = path
	}
	if path, err := exec.LookPath("loginctl"); err == nil {
		sensor.loginctlPath = path
	}
	return sensor
}

func (sensor *linuxSensor) idleDuration() (time.Duration, error) {
	if sensor.xprintidlePath == "" {
		return 0, errSensorUnsupported
	}
	sessionType := strings.ToLower(os.Getenv("XDG_SESSION_TYPE"))
	if sessionType == "wayland" {
		return 0, errSensorUnsupported
	}

	output, err := exec.Command(sensor.xprintidlePath).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	value := strings.TrimSpace(string(output))
	idleMillis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

func (sensor *linuxSensor) locked() (bool, error) {
	if sensor.loginctlPath == "" {
		return false, nil
	}

	sessionID := os.Getenv("XDG_SESSION_ID")
	if sessionID == "" {
		return false, nil
	}
	output, err := exec.Command(sensor.loginctlPath, "show-session", sessionID, "--property=LockedHint").Output()
	if err != nil {
		return false, fmt.Errorf("loginctl show-session: %w", err)
	}

	value := strings.TrimSpace(string(output))
	return value == "LockedHint=yes", nil
}

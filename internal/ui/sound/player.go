// Package sound plays short synthesized cues around breaks.
package sound

import (
	"fmt"
	"sync"
	"time"

	"resthawk/internal/core/model"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(44100)

// Player renders sound-start and sound-end cues through the system speaker.
// Initialization is lazy; an unavailable audio device just mutes the cues.
type Player struct {
	logger   *zap.Logger
	initOnce sync.Once
	initErr  error
}

// NewPlayer creates a player. The speaker is opened on first use.
func NewPlayer(logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{logger: logger}
}

// PlayStart plays the break-start cue.
func (player *Player) PlayStart(sound model.SoundType) {
	switch sound {
	case model.SoundGong:
		player.play(330, 262, 500*time.Millisecond)
	case model.SoundBlip:
		player.play(660, 880, 120*time.Millisecond)
	}
}

// PlayEnd plays the break-end cue, the start cue mirrored.
func (player *Player) PlayEnd(sound model.SoundType) {
	switch sound {
	case model.SoundGong:
		player.play(262, 330, 500*time.Millisecond)
	case model.SoundBlip:
		player.play(880, 660, 120*time.Millisecond)
	}
}

func (player *Player) play(firstFreq, secondFreq float64, noteLength time.Duration) {
	player.initOnce.Do(func() {
		player.initErr = speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond))
		if player.initErr != nil {
			player.logger.Warn("speaker unavailable, sound cues muted", zap.Error(player.initErr))
		}
	})
	if player.initErr != nil {
		return
	}

	first, err := note(firstFreq, noteLength)
	if err != nil {
		player.logger.Debug("tone synthesis failed", zap.Error(err))
		return
	}
	second, err := note(secondFreq, noteLength)
	if err != nil {
		player.logger.Debug("tone synthesis failed", zap.Error(err))
		return
	}

	speaker.Play(beep.Seq(first, second))
}

func note(freq float64, length time.Duration) (beep.Streamer, error) {
	tone, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, fmt.Errorf("sine tone %.0fhz: %w", freq, err)
	}
	return &effects.Volume{
		Streamer: beep.Take(sampleRate.N(length), tone),
		Base:     2,
		Volume:   -1,
	}, nil
}

// Package audio defines the sound triggers the game fires. Playback is
// fire and forget: implementations must not block the game loop.
package audio

import "time"

type Waveform uint8

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

func (w Waveform) String() string {
	switch w {
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Triangle:
		return "triangle"
	default:
		return "sine"
	}
}

// Note is a tone scheduled Delay after the call that plays it.
type Note struct {
	Freq     float64
	Duration time.Duration
	Wave     Waveform
	Delay    time.Duration
}

type Player interface {
	Explosion()
	Gunshot()
	BossAppear(variant int)
	NewbieAppear(variant int)
	Alarm()
	StopAlarm()
	Success()
	Failure()
	Farewell()

	Tone(freq float64, d time.Duration, wave Waveform)
	Notes(notes ...Note)

	StartMusic()
	StopMusic()
	PauseMusic()
	ResumeMusic()
	SetMusicVolume(v float64)
	StartGunLoop()
	StopGunLoop()

	// ToggleMute flips the mute state and returns the new state.
	ToggleMute() bool
	Muted() bool
}

// Nop plays nothing. It tracks mute state only.
type Nop struct {
	muted bool
}

var _ Player = (*Nop)(nil)

func (*Nop) Explosion()                            {}
func (*Nop) Gunshot()                              {}
func (*Nop) BossAppear(int)                        {}
func (*Nop) NewbieAppear(int)                      {}
func (*Nop) Alarm()                                {}
func (*Nop) StopAlarm()                            {}
func (*Nop) Success()                              {}
func (*Nop) Failure()                              {}
func (*Nop) Farewell()                             {}
func (*Nop) Tone(float64, time.Duration, Waveform) {}
func (*Nop) Notes(...Note)                         {}
func (*Nop) StartMusic()                           {}
func (*Nop) StopMusic()                            {}
func (*Nop) PauseMusic()                           {}
func (*Nop) ResumeMusic()                          {}
func (*Nop) SetMusicVolume(float64)                {}
func (*Nop) StartGunLoop()                         {}
func (*Nop) StopGunLoop()                          {}

func (n *Nop) ToggleMute() bool {
	n.muted = !n.muted
	return n.muted
}

func (n *Nop) Muted() bool {
	return n.muted
}

package sound

import (
	"math"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/game/audio"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/valyala/fastrand"
)

const sampleRate = beep.SampleRate(44100)

// oscillator renders one waveform for a fixed number of samples.
type oscillator struct {
	freq     float64
	phase    float64
	wave     audio.Waveform
	position int
	duration int
}

func newOscillator(freq float64, d time.Duration, wave audio.Waveform) *oscillator {
	return &oscillator{freq: freq, wave: wave, duration: sampleRate.N(d)}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case audio.Square:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case audio.Sawtooth:
			val = 2 * (o.phase - 0.5)
		case audio.Triangle:
			val = 4*math.Abs(o.phase-0.5) - 1
		default:
			val = math.Sin(2 * math.Pi * o.phase)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(sampleRate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decay fades a stream exponentially to silence over its duration.
type decay struct {
	streamer beep.Streamer
	position int
	total    int
}

func newDecay(s beep.Streamer, d time.Duration) *decay {
	return &decay{streamer: s, total: sampleRate.N(d)}
}

func (e *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		// 0.3 down to 0.01 over the full duration
		vol := 0.3 * math.Pow(0.01/0.3, float64(e.position)/float64(e.total))
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *decay) Err() error { return e.streamer.Err() }

// noise is white noise with a falling envelope and a low rumble.
type noise struct {
	position int
	total    int
	rumble   float64
}

func newNoise(d time.Duration, rumble float64) *noise {
	return &noise{total: sampleRate.N(d), rumble: rumble}
}

func (g *noise) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.position >= g.total {
			return i, i > 0
		}
		t := float64(g.position) / float64(sampleRate)
		env := math.Exp(-t * 12)
		white := float64(fastrand.Uint32n(1<<16))/(1<<15) - 1
		low := 0.3 * math.Sin(2*math.Pi*g.rumble*t)
		v := env * (0.4*white + low)

		samples[i][0] = v
		samples[i][1] = v
		g.position++
	}
	return len(samples), true
}

func (g *noise) Err() error { return nil }

func tone(freq float64, d time.Duration, wave audio.Waveform) beep.Streamer {
	return newDecay(newOscillator(freq, d, wave), d)
}

// sequence mixes notes, each delayed by its own offset.
func sequence(notes ...audio.Note) beep.Streamer {
	var streams []beep.Streamer
	for _, n := range notes {
		s := tone(n.Freq, n.Duration, n.Wave)
		if n.Delay > 0 {
			s = beep.Seq(beep.Silence(sampleRate.N(n.Delay)), s)
		}
		streams = append(streams, s)
	}
	return beep.Mix(streams...)
}

func volume(s beep.Streamer, v float64) *effects.Volume {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func explosionSound() beep.Streamer {
	return newNoise(ms(300), 80)
}

func gunshotSound() beep.Streamer {
	return beep.Mix(newNoise(ms(80), 200), tone(1200, ms(40), audio.Square))
}

func bossSound(variant int) beep.Streamer {
	if variant%2 == 1 {
		return sequence(
			audio.Note{Freq: 440, Duration: ms(200), Wave: audio.Sawtooth},
			audio.Note{Freq: 330, Duration: ms(200), Wave: audio.Sawtooth, Delay: ms(150)},
			audio.Note{Freq: 220, Duration: ms(400), Wave: audio.Sawtooth, Delay: ms(300)},
		)
	}
	return sequence(
		audio.Note{Freq: 220, Duration: ms(200), Wave: audio.Square},
		audio.Note{Freq: 330, Duration: ms(200), Wave: audio.Square, Delay: ms(150)},
		audio.Note{Freq: 440, Duration: ms(400), Wave: audio.Square, Delay: ms(300)},
	)
}

func newbieSound(variant int) beep.Streamer {
	if variant%2 == 1 {
		return sequence(
			audio.Note{Freq: 500, Duration: ms(150), Wave: audio.Triangle},
			audio.Note{Freq: 400, Duration: ms(200), Wave: audio.Triangle, Delay: ms(120)},
		)
	}
	return sequence(
		audio.Note{Freq: 600, Duration: ms(150), Wave: audio.Sine},
		audio.Note{Freq: 800, Duration: ms(200), Wave: audio.Sine, Delay: ms(120)},
	)
}

func successSound() beep.Streamer {
	return sequence(
		audio.Note{Freq: 800, Duration: ms(200), Wave: audio.Square},
		audio.Note{Freq: 1000, Duration: ms(200), Wave: audio.Square, Delay: ms(100)},
		audio.Note{Freq: 1200, Duration: ms(300), Wave: audio.Square, Delay: ms(200)},
	)
}

func failureSound() beep.Streamer {
	return sequence(
		audio.Note{Freq: 150, Duration: ms(300), Wave: audio.Sawtooth},
		audio.Note{Freq: 100, Duration: ms(300), Wave: audio.Sawtooth, Delay: ms(200)},
		audio.Note{Freq: 80, Duration: ms(500), Wave: audio.Sawtooth, Delay: ms(400)},
	)
}

func farewellSound() beep.Streamer {
	return sequence(
		audio.Note{Freq: 523, Duration: ms(250), Wave: audio.Triangle},
		audio.Note{Freq: 440, Duration: ms(250), Wave: audio.Triangle, Delay: ms(200)},
		audio.Note{Freq: 349, Duration: ms(500), Wave: audio.Triangle, Delay: ms(400)},
	)
}

// alarmLoop is one period of the two-tone siren.
func alarmLoop() beep.Streamer {
	return beep.Seq(
		newOscillator(880, ms(250), audio.Square),
		newOscillator(660, ms(250), audio.Square),
	)
}

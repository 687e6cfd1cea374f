package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// tracks are the bass roots of the background loops.
var tracks = []float64{110, 98, 130.81, 146.83, 87.31}

// beat is a kick and bass loop in the spirit of an office radio.
type beat struct {
	pos    int
	period int
	bass   float64
}

func newBeat(bass float64, period time.Duration) *beat {
	return &beat{bass: bass, period: sampleRate.N(period)}
}

func (g *beat) Stream(samples [][2]float64) (n int, ok bool) {
	kickLen := sampleRate.N(100 * time.Millisecond)
	for i := range samples {
		p := g.pos % g.period
		t := float64(p) / float64(sampleRate)

		kick := 0.0
		if p < kickLen {
			env := 1 - float64(p)/float64(kickLen)
			kick = 0.4 * env * math.Sin(2*math.Pi*60*(1+2*env)*t)
		}
		v := kick + 0.15*math.Sin(2*math.Pi*g.bass*t)

		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *beat) Err() error { return nil }

func musicLoop(track int) beep.Streamer {
	return newBeat(tracks[track%len(tracks)], 600*time.Millisecond)
}

func gunLoop() beep.Streamer {
	return newBeat(220, 150*time.Millisecond)
}

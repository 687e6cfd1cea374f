package sound

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/game/audio"
	"github.com/gopxl/beep"
)

// drain streams s to the end and returns the samples.
func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()

	var out [][2]float64
	buf := make([][2]float64, 512)
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
	t.Fatal("stream never ended")
	return nil
}

func TestOscillator(t *testing.T) {
	t.Parallel()

	waves := []audio.Waveform{audio.Sine, audio.Square, audio.Sawtooth, audio.Triangle}
	for _, w := range waves {
		w := w
		t.Run(w.String(), func(t *testing.T) {
			t.Parallel()

			samples := drain(t, newOscillator(440, 100*time.Millisecond, w))
			if got, want := len(samples), sampleRate.N(100*time.Millisecond); got != want {
				t.Errorf("expected %d samples got %d", want, got)
			}
			for _, s := range samples {
				if math.Abs(s[0]) > 1 || s[0] != s[1] {
					t.Fatalf("bad sample %v", s)
				}
			}
		})
	}
}

func TestToneDecays(t *testing.T) {
	t.Parallel()

	samples := drain(t, tone(440, 200*time.Millisecond, audio.Square))
	head := math.Abs(samples[0][0])
	tail := math.Abs(samples[len(samples)-1][0])
	if head <= tail {
		t.Errorf("expected decay, head=%v tail=%v", head, tail)
	}
}

func TestSequenceLength(t *testing.T) {
	t.Parallel()

	samples := drain(t, sequence(
		audio.Note{Freq: 800, Duration: 200 * time.Millisecond, Wave: audio.Sine},
		audio.Note{Freq: 1000, Duration: 150 * time.Millisecond, Wave: audio.Triangle, Delay: 100 * time.Millisecond},
	))
	if got, want := len(samples), sampleRate.N(250*time.Millisecond); got != want {
		t.Errorf("expected %d samples got %d", want, got)
	}
}

func TestEffectsEnd(t *testing.T) {
	t.Parallel()

	effects := map[string]beep.Streamer{
		"explosion": explosionSound(),
		"gunshot":   gunshotSound(),
		"boss":      bossSound(1),
		"newbie":    newbieSound(0),
		"success":   successSound(),
		"failure":   failureSound(),
		"farewell":  farewellSound(),
	}
	for name, s := range effects {
		if len(drain(t, s)) == 0 {
			t.Errorf("%s: empty effect", name)
		}
	}
}

func TestPlayerWithoutSpeaker(t *testing.T) {
	t.Parallel()

	p := New(context.Background())
	p.Explosion()
	p.StartMusic()
	p.PauseMusic()
	p.ResumeMusic()
	p.SetMusicVolume(0)
	p.Alarm()
	p.StopAlarm()
	p.StopMusic()
	p.Close()

	if !p.ToggleMute() || !p.Muted() {
		t.Error("expected muted")
	}
	if p.ToggleMute() {
		t.Error("expected unmuted")
	}
}

// Package sound plays the game's audio through the system speaker.
package sound

import (
	"context"
	"sync"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/game/audio"
	"github.com/docbreaker-games/docbreaker/internal/logging"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/valyala/fastrand"
	"go.uber.org/zap"
)

const defaultMusicVolume = 0.3

// Player synthesizes every effect on the fly and mixes it into a single
// speaker stream. Until Init succeeds every call is a no-op, so a machine
// without audio still runs the game.
type Player struct {
	mtx    sync.Mutex
	logger *zap.SugaredLogger

	mixer  *beep.Mixer
	master *effects.Volume

	initialized bool
	muted       bool
	musicVolume float64
	track       int

	music   *beep.Ctrl
	musicFx *effects.Volume
	gun     *beep.Ctrl
	alarm   *beep.Ctrl
}

var _ audio.Player = (*Player)(nil)

func New(ctx context.Context) *Player {
	mixer := &beep.Mixer{}
	return &Player{
		logger:      logging.FromContext(ctx).Named("sound"),
		mixer:       mixer,
		master:      volume(mixer, 1),
		musicVolume: defaultMusicVolume,
		track:       -1,
	}
}

// Init opens the speaker.
func (p *Player) Init() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.master)
	p.initialized = true
	return nil
}

func (p *Player) Close() {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// play adds s to the mix. The caller holds p.mtx.
func (p *Player) play(s beep.Streamer) {
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// effect plays a one shot sound. Muted effects are dropped rather than
// mixed silently.
func (p *Player) effect(s beep.Streamer) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.muted {
		return
	}
	p.play(s)
}

func (p *Player) Explosion()            { p.effect(explosionSound()) }
func (p *Player) Gunshot()              { p.effect(gunshotSound()) }
func (p *Player) BossAppear(v int)      { p.effect(bossSound(v)) }
func (p *Player) NewbieAppear(v int)    { p.effect(newbieSound(v)) }
func (p *Player) Success()              { p.effect(successSound()) }
func (p *Player) Failure()              { p.effect(failureSound()) }
func (p *Player) Farewell()             { p.effect(farewellSound()) }
func (p *Player) Notes(n ...audio.Note) { p.effect(sequence(n...)) }

func (p *Player) Tone(freq float64, d time.Duration, wave audio.Waveform) {
	p.effect(tone(freq, d, wave))
}

// loop starts a looping stream under ctrl unless it already plays.
func (p *Player) loop(ctrl **beep.Ctrl, s beep.Streamer) {
	if *ctrl != nil && !(*ctrl).Paused {
		return
	}
	c := &beep.Ctrl{Streamer: beep.Loop(-1, s)}
	*ctrl = c
	p.play(c)
}

func (p *Player) stop(ctrl **beep.Ctrl) {
	if *ctrl == nil {
		return
	}
	speaker.Lock()
	(*ctrl).Paused = true
	(*ctrl).Streamer = nil
	speaker.Unlock()
	*ctrl = nil
}

func (p *Player) Alarm() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.loop(&p.alarm, alarmLoop())
}

func (p *Player) StopAlarm() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.stop(&p.alarm)
}

// StartMusic switches to a randomly chosen background track, never the
// one that is playing.
func (p *Player) StartMusic() {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.stop(&p.music)
	next := int(fastrand.Uint32n(uint32(len(tracks))))
	if next == p.track {
		next = (next + 1) % len(tracks)
	}
	p.track = next

	p.musicFx = volume(musicLoop(next), p.musicVolume)
	p.loop(&p.music, p.musicFx)
	p.logger.Debugw("music started", "track", next)
}

func (p *Player) StopMusic() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.stop(&p.music)
}

func (p *Player) PauseMusic() {
	p.setPaused(true)
}

func (p *Player) ResumeMusic() {
	p.setPaused(false)
}

func (p *Player) setPaused(paused bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	speaker.Lock()
	defer speaker.Unlock()
	for _, c := range []*beep.Ctrl{p.music, p.gun, p.alarm} {
		if c != nil {
			c.Paused = paused
		}
	}
}

func (p *Player) SetMusicVolume(v float64) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.musicVolume = v
	if p.musicFx == nil {
		return
	}
	fx := volume(nil, v)
	speaker.Lock()
	p.musicFx.Volume = fx.Volume
	p.musicFx.Silent = fx.Silent
	speaker.Unlock()
}

func (p *Player) StartGunLoop() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.loop(&p.gun, volume(gunLoop(), p.musicVolume))
}

func (p *Player) StopGunLoop() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.stop(&p.gun)
}

// ToggleMute silences the whole mix, loops included.
func (p *Player) ToggleMute() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.muted = !p.muted
	speaker.Lock()
	p.master.Silent = p.muted
	speaker.Unlock()
	return p.muted
}

func (p *Player) Muted() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.muted
}

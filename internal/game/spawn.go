package game

import (
	"time"

	"github.com/docbreaker-games/docbreaker/internal/game/audio"
	"github.com/docbreaker-games/docbreaker/internal/game/entity"
	"github.com/docbreaker-games/docbreaker/internal/game/world"
)

func (s *Session) spawnByTimers(now time.Duration) {
	if now-s.lastDocument > s.cfg.documentInterval(s.score) {
		s.spawnDocument()
		s.lastDocument = now
	}
	if now-s.lastNewbie > s.cfg.newbieInterval(s.score) {
		s.spawnNewbie()
		s.lastNewbie = now
	}
	if now-s.lastStar > s.cfg.starInterval(s.score) {
		s.spawnStar()
		s.lastStar = now
	}
	if s.tokens < s.cfg.MaxTokens && now-s.lastAIItem > s.cfg.AIItemInterval {
		if s.rnd.Float64() < s.cfg.AIItemChance {
			s.spawnAIItem()
		}
		s.lastAIItem = now
	}

	bossInterval := s.cfg.BossInterval
	if len(s.stacked) >= s.cfg.BossBusyThreshold {
		bossInterval = s.cfg.BossBusyInterval
	}
	if now-s.lastBoss > bossInterval {
		s.spawnBoss(now)
		s.lastBoss = now
	}

	if len(s.stacked) >= s.cfg.BombMinStacked && s.bomb == nil && !s.boss.active && now-s.lastBomb > s.bombInterval {
		s.spawnBomb(now)
		s.lastBomb = now
	}
}

// spawnDocument adds a flying document. Now and then the document is an
// AI bonus or a bomb instead of a plain one.
func (s *Session) spawnDocument() {
	roll := s.rnd.Float64()
	switch {
	case roll < s.cfg.BombDocumentChance:
		s.documents = append(s.documents, entity.NewBombDocument(s.env))
	case roll < s.cfg.BombDocumentChance+s.cfg.AIDocumentChance:
		s.documents = append(s.documents, entity.NewAIDocument(s.env))
	default:
		s.documents = append(s.documents, entity.NewDocument(s.env, s.score))
	}
}

func (s *Session) spawnNewbie() {
	n := entity.NewNewbie(s.env)
	s.newbies = append(s.newbies, n)
	s.audio.NewbieAppear(n.Variant)
}

func (s *Session) spawnStar() {
	s.stars = append(s.stars, entity.NewStar(s.env))
	s.audio.Notes(
		audio.Note{Freq: 800, Duration: 200 * time.Millisecond, Wave: audio.Sine},
		audio.Note{Freq: 1000, Duration: 150 * time.Millisecond, Wave: audio.Triangle, Delay: 100 * time.Millisecond},
	)
}

func (s *Session) spawnAIItem() {
	s.aiItems = append(s.aiItems, entity.NewAIItem(s.env))
	s.audio.Notes(
		audio.Note{Freq: 1200, Duration: 150 * time.Millisecond, Wave: audio.Square},
		audio.Note{Freq: 1500, Duration: 100 * time.Millisecond, Wave: audio.Sawtooth, Delay: 80 * time.Millisecond},
	)
}

// spawnBoss rolls for the boss. It never appears on top of another mode.
func (s *Session) spawnBoss(now time.Duration) {
	if s.boss.active || s.blockBreaker || s.gunMode {
		return
	}
	chance := s.cfg.BossChance
	if len(s.stacked) >= s.cfg.BossBusyThreshold {
		chance = s.cfg.BossBusyChance
	}
	if s.rnd.Float64() > chance {
		return
	}

	f, size := s.cfg.Field, s.cfg.BossSize
	s.boss = boss{
		active:  true,
		since:   now,
		variant: world.Intn(s.rnd, 2),
		x:       s.rnd.Float64() * (f.Width - size),
		y:       s.rnd.Float64()*(f.Height-size-f.Top) + f.Top,
	}
	s.audio.BossAppear(s.boss.variant)
	s.logger.Debugw("boss appeared", "x", s.boss.x, "y", s.boss.y)
}

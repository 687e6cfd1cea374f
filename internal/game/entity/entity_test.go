package entity

import (
	"testing"

	"github.com/docbreaker-games/docbreaker/internal/game/render"
	"github.com/docbreaker-games/docbreaker/internal/game/world"
)

type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

var field = world.Field{Width: 800, Height: 600, Top: 80}

func TestDocumentScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		size     float64
		lifespan float64
		want     int
	}{
		{"small and quick", 30, 60, 10},
		{"large and slow", 70, 210, 3},
		{"middle", 50, 120, 3},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := &Document{body: body{Size: tc.size, Lifespan: tc.lifespan}}
			if got := d.Score(); got != tc.want {
				t.Errorf("expected %d got %d", tc.want, got)
			}
		})
	}
}

func TestNewDocumentDifficulty(t *testing.T) {
	t.Parallel()

	env := NewEnv(field, fixed(0.5))
	easy := NewDocument(env, 0)
	hard := NewDocument(env, 10000)

	if easy.Lifespan != 180 {
		t.Errorf("expected lifespan floor 180 got %v", easy.Lifespan)
	}
	if hard.Lifespan != 180 {
		t.Errorf("expected lifespan floor 180 got %v", hard.Lifespan)
	}
	if easy.Y < field.Top || easy.X < 0 || easy.X+easy.Size > field.Width {
		t.Errorf("document spawned outside field: %+v", easy.body)
	}
}

func TestDocumentSinks(t *testing.T) {
	t.Parallel()

	env := NewEnv(field, fixed(0.5))
	d := NewDocument(env, 0)

	ticks := 0
	for d.Update(env) {
		ticks++
		if d.X < 0 || d.X > field.Width-d.Size || d.Y < field.Top || d.Y > field.Height-d.Size {
			t.Fatalf("document left the field: %+v", d.body)
		}
	}
	if float64(ticks+1) < d.Lifespan {
		t.Errorf("document died early after %d ticks", ticks)
	}

	evs := env.Drain()
	if len(evs) != 1 || evs[0].Kind != EventSunk {
		t.Fatalf("expected one sunk event got %+v", evs)
	}
	if d.Click() {
		t.Error("sunk document must not accept clicks")
	}
	if len(env.Drain()) != 0 {
		t.Error("drain must forget events")
	}
}

func TestDocumentClick(t *testing.T) {
	t.Parallel()

	env := NewEnv(field, fixed(0.5))
	d := NewDocument(env, 0)
	if !d.IsClicked(d.X+1, d.Y+1) {
		t.Fatal("expected hit inside bounds")
	}
	if !d.Click() {
		t.Fatal("first click must register")
	}
	if d.Click() {
		t.Fatal("second click must not register")
	}
	if d.Update(env) {
		t.Fatal("clicked document must die on next update")
	}

	var scene render.Scene
	d.Draw(&scene)
	if len(scene.Commands) != 0 {
		t.Error("clicked document must not draw")
	}
}

func TestBombDocumentDetonates(t *testing.T) {
	t.Parallel()

	env := NewEnv(field, fixed(0))
	b := NewBombDocument(env)
	if b.Fuse != bombFuseMinFactor {
		t.Fatalf("expected fuse %v got %v", bombFuseMinFactor, b.Fuse)
	}

	ticks := 0
	for b.Update(env) {
		ticks++
		if ticks > 1000 {
			t.Fatal("bomb never finished")
		}
	}
	evs := env.Drain()
	if len(evs) != 1 || evs[0].Kind != EventDetonated {
		t.Fatalf("expected one detonation got %+v", evs)
	}
	if evs[0].Score != bombBlastPenalty || b.Score() != bombBlastPenalty {
		t.Errorf("expected penalty %d", bombBlastPenalty)
	}
	if b.Click() {
		t.Error("exploding bomb must not accept clicks")
	}
	if b.Radius < bombBlastRadius {
		t.Errorf("bomb removed before blast finished: %v", b.Radius)
	}
}

func TestBombDocumentClickedDetonates(t *testing.T) {
	t.Parallel()

	env := NewEnv(field, fixed(0.5))
	b := NewBombDocument(env)
	if !b.Click() {
		t.Fatal("expected click to register")
	}
	if b.Score() != bombBlastPenalty {
		t.Errorf("expected click penalty %d got %d", bombBlastPenalty, b.Score())
	}
	if b.Click() {
		t.Error("bomb must take a single click")
	}

	if !b.Update(env) || !b.Exploding {
		t.Fatal("clicked bomb must start its blast")
	}
	evs := env.Drain()
	if len(evs) != 1 || evs[0].Kind != EventDetonated {
		t.Fatalf("expected one detonation got %+v", evs)
	}
	if evs[0].Score != 0 {
		t.Errorf("click already charged, blast scored %d", evs[0].Score)
	}

	for b.Update(env) {
	}
	if len(env.Drain()) != 0 {
		t.Error("bomb must detonate once")
	}
}

func TestAIDocument(t *testing.T) {
	t.Parallel()

	env := NewEnv(field, fixed(0.5))
	d := NewAIDocument(env)
	x, y := d.X, d.Y
	for i := 1; i < aiDocumentLifespan; i++ {
		if !d.Update(env) {
			t.Fatalf("died early at tick %d", i)
		}
	}
	if d.X != x || d.Y != y {
		t.Error("AI document must not move")
	}
	if d.Update(env) {
		t.Error("expected AI document to expire")
	}
	if d.Score() != aiDocumentScore {
		t.Errorf("expected score %d", aiDocumentScore)
	}
}

func TestPickupsExpire(t *testing.T) {
	t.Parallel()

	env := NewEnv(field, fixed(0.5))
	tests := []struct {
		name string
		e    Entity
		max  int
	}{
		{"star", NewStar(env), starLifespan},
		{"newbie", NewNewbie(env), 300},
		{"ai item", NewAIItem(env), aiItemLifespan},
	}
	for _, tc := range tests {
		ticks := 0
		for tc.e.Update(env) {
			ticks++
		}
		if ticks >= tc.max {
			t.Errorf("%s: lived %d ticks, expected fewer than %d", tc.name, ticks, tc.max)
		}
	}
}

func TestAIItemIgnoresSecondClick(t *testing.T) {
	t.Parallel()

	env := NewEnv(field, fixed(0.5))
	a := NewAIItem(env)
	if !a.IsClicked(a.X+1, a.Y+1) {
		t.Fatal("expected hit")
	}
	a.Click()
	if a.IsClicked(a.X+1, a.Y+1) {
		t.Error("collected item must not be hit again")
	}
}

func TestStacked(t *testing.T) {
	t.Parallel()

	env := NewEnv(field, fixed(0.999))
	s := NewStacked(env, 7, 40, "")
	if s.ID != 7 || s.Color == "" {
		t.Fatalf("unexpected stacked: %+v", s)
	}
	if s.Y+s.Size > field.Height || s.Y < field.Top || s.X+s.Size > field.Width {
		t.Errorf("stacked outside field: %+v", s)
	}
	if !s.Overlaps(s.X-5, s.Y-5, 3, 5) {
		t.Error("expected padded overlap")
	}
	if s.Overlaps(s.X-50, s.Y-50, 3, 5) {
		t.Error("expected no overlap")
	}
}

package terminal

import (
	"context"
	"testing"

	"github.com/docbreaker-games/docbreaker/internal/game"
	"github.com/docbreaker-games/docbreaker/internal/game/render"
	"github.com/docbreaker-games/docbreaker/internal/game/world"
	"github.com/gdamore/tcell/v2"
)

var field = world.Field{Width: 800, Height: 600, Top: 80}

func newTestTerminal(t *testing.T) *Terminal {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("failed to init screen: %v", err)
	}
	screen.SetSize(80, 32)
	t.Cleanup(screen.Fini)
	return NewWithScreen(context.Background(), screen, field)
}

func TestCellMapping(t *testing.T) {
	t.Parallel()

	term := newTestTerminal(t)
	col, row := term.toCell(400, 300)
	if col != 40 || row != 17 {
		t.Errorf("expected (40, 17) got (%d, %d)", col, row)
	}

	x, y := term.toField(col, row)
	back, backRow := term.toCell(x, y)
	if back != col || backRow != row {
		t.Errorf("round trip moved cell: (%d, %d) -> (%d, %d)", col, row, back, backRow)
	}

	if col, row := term.toCell(-50, 5000); col != 0 || row != 31 {
		t.Errorf("expected clamped (0, 31) got (%d, %d)", col, row)
	}
}

func TestPresent(t *testing.T) {
	t.Parallel()

	term := newTestTerminal(t)
	var scene render.Scene
	scene.Reset(field.Width, field.Height)
	scene.Add(render.Command{
		Shape:  render.ShapeSprite,
		Sprite: render.SpriteDocument,
		X:      390,
		Y:      290,
		W:      20,
		H:      20,
		Color:  "#FF6B6B",
	})
	scene.HUD = render.HUD{Score: 42, Running: true, MaxStacked: 25, MaxAITokens: 5}

	if err := term.Present(&scene); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r, _, _, _ := term.screen.GetContent(40, 17); r != '▤' {
		t.Errorf("expected document glyph got %q", r)
	}
	hud := ""
	for col := 0; col < 10; col++ {
		r, _, _, _ := term.screen.GetContent(col, 0)
		hud += string(r)
	}
	if hud != " Score 42 " {
		t.Errorf("unexpected hud %q", hud)
	}
}

func TestTranslateMouse(t *testing.T) {
	t.Parallel()

	term := newTestTerminal(t)

	in, ok, quit := term.translate(tcell.NewEventMouse(40, 17, tcell.Button1, tcell.ModNone))
	if !ok || quit || in.Kind != game.InputClick {
		t.Fatalf("expected click got %+v", in)
	}
	in, ok, _ = term.translate(tcell.NewEventMouse(41, 17, tcell.Button1, tcell.ModNone))
	if !ok || in.Kind != game.InputMove {
		t.Fatalf("held button must not click again, got %+v", in)
	}
	in, ok, _ = term.translate(tcell.NewEventMouse(42, 17, tcell.ButtonNone, tcell.ModNone))
	if !ok || in.Kind != game.InputMove {
		t.Fatalf("expected move got %+v", in)
	}
	if _, ok, _ := term.translate(tcell.NewEventMouse(10, 0, tcell.Button1, tcell.ModNone)); ok {
		t.Error("clicks on the hud must be ignored")
	}
}

func TestColor(t *testing.T) {
	t.Parallel()

	if c := color("", 1); c != tcell.ColorWhite {
		t.Errorf("expected white fallback got %v", c)
	}
	full := color("#FF0000", 1)
	dim := color("#FF0000", 0.5)
	r1, _, _ := full.RGB()
	r2, _, _ := dim.RGB()
	if r2 >= r1 {
		t.Errorf("expected dimmed color, %d >= %d", r2, r1)
	}
}

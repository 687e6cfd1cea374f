// Package terminal draws game scenes on a tcell screen and turns mouse and
// key events into game input.
package terminal

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/game"
	"github.com/docbreaker-games/docbreaker/internal/game/render"
	"github.com/docbreaker-games/docbreaker/internal/game/world"
	"github.com/docbreaker-games/docbreaker/internal/logging"
	"github.com/docbreaker-games/docbreaker/internal/util"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// hudRows are reserved above the playfield.
const hudRows = 2

var sprites = map[string][]rune{
	render.SpriteDocument:   {'▤'},
	render.SpriteAIDocument: {'▣'},
	render.SpriteBomb:       {'●'},
	render.SpriteStar:       {'✉'},
	render.SpriteNewbie:     {'☺', '☻'},
	render.SpriteAIItem:     {'◆'},
	render.SpriteStacked:    {'▥'},
	render.SpriteBoss:       {'♚', '♛'},
	render.SpriteBall:       {'◯'},
}

// backgrounds tint the playfield, one per office.
var backgrounds = []tcell.Color{
	tcell.NewRGBColor(18, 18, 28),
	tcell.NewRGBColor(28, 18, 18),
	tcell.NewRGBColor(18, 28, 18),
	tcell.NewRGBColor(28, 28, 18),
	tcell.NewRGBColor(18, 28, 28),
	tcell.NewRGBColor(28, 18, 28),
	tcell.NewRGBColor(24, 24, 24),
	tcell.NewRGBColor(10, 20, 34),
	tcell.NewRGBColor(34, 20, 10),
	tcell.NewRGBColor(20, 10, 34),
}

type Terminal struct {
	screen tcell.Screen
	field  world.Field
	logger *zap.SugaredLogger

	// buttons held at the previous mouse event
	buttons tcell.ButtonMask
}

// New opens the controlling terminal with mouse motion reporting on.
func New(ctx context.Context, field world.Field) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tcell.NewScreen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen.Init: %w", err)
	}
	return NewWithScreen(ctx, screen, field), nil
}

// NewWithScreen wraps an initialized screen.
func NewWithScreen(ctx context.Context, screen tcell.Screen, field world.Field) *Terminal {
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	return &Terminal{
		screen: screen,
		field:  field,
		logger: logging.FromContext(ctx).Named("terminal"),
	}
}

func (t *Terminal) Close() {
	t.screen.Fini()
}

// toCell maps playfield coordinates to a screen cell.
func (t *Terminal) toCell(x, y float64) (int, int) {
	w, h := t.screen.Size()
	rows := h - hudRows
	if rows < 1 || w < 1 {
		return 0, 0
	}
	col := int(x / t.field.Width * float64(w))
	row := int(y/t.field.Height*float64(rows)) + hudRows
	return util.ClampInt(col, 0, w-1), util.ClampInt(row, hudRows, h-1)
}

// toField maps a screen cell to the center of its playfield area.
func (t *Terminal) toField(col, row int) (float64, float64) {
	w, h := t.screen.Size()
	rows := h - hudRows
	if rows < 1 || w < 1 {
		return 0, 0
	}
	x := (float64(col) + 0.5) / float64(w) * t.field.Width
	y := (float64(row-hudRows) + 0.5) / float64(rows) * t.field.Height
	return x, y
}

func (t *Terminal) Present(scene *render.Scene) error {
	bg := backgrounds[scene.HUD.Background%len(backgrounds)]
	base := tcell.StyleDefault.Background(bg)
	t.screen.Fill(' ', base)

	for _, c := range scene.Commands {
		t.draw(c, base)
	}
	t.drawHUD(scene.HUD)
	t.screen.Show()
	return nil
}

func (t *Terminal) draw(c render.Command, base tcell.Style) {
	col, row := t.toCell(c.X+c.W/2, c.Y+c.H/2)
	style := base.Foreground(color(c.Color, c.Alpha))

	switch c.Shape {
	case render.ShapeSprite:
		glyphs, ok := sprites[c.Sprite]
		if !ok {
			return
		}
		t.screen.SetContent(col, row, glyphs[c.Variant%len(glyphs)], nil, style.Bold(true))
	case render.ShapeStar:
		t.screen.SetContent(col, row, '✦', nil, style)
	case render.ShapeCircle:
		t.screen.SetContent(col, row, '·', nil, style)
	case render.ShapeRing:
		t.screen.SetContent(col, row, '◎', nil, style.Blink(true))
	case render.ShapeText:
		t.text(col-len(c.Text)/2, row, c.Text, style)
	}
}

func (t *Terminal) drawHUD(h render.HUD) {
	w, _ := t.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for col := 0; col < w; col++ {
		t.screen.SetContent(col, 0, ' ', nil, style)
		t.screen.SetContent(col, 1, ' ', nil, style)
	}

	line := fmt.Sprintf(" Score %d  Health %3.0f%%  Docs %d/%d  AI %d/%d  Time %s",
		h.Score, h.Health, h.Stacked, h.MaxStacked, h.AITokens, h.MaxAITokens,
		h.Elapsed.Truncate(time.Second))
	t.text(0, 0, line, style)

	var status string
	switch {
	case h.Over:
		status = " GAME OVER  [enter] play again  [q] quit"
	case !h.Running:
		status = " [enter] start  [a] AI gun  [space] pause  [m] mute  [q] quit"
	case h.Paused:
		status = " PAUSED  [space] resume"
	case h.Banner != "":
		status = " " + h.Banner
	case h.BlockBreaker:
		status = " BLOCK BREAKER!"
	case h.GunMode:
		status = fmt.Sprintf(" AI GUN %.1fs", h.GunRemaining.Seconds())
	case h.BossActive:
		status = " The boss is here, click!"
	}
	if h.BombCountdown > 0 {
		status += fmt.Sprintf("  BOMB %ds", h.BombCountdown)
	}
	t.text(0, 1, status, style.Bold(true))
}

func (t *Terminal) text(col, row int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(col, row, r, nil, style)
		col++
	}
}

// color parses "#RRGGBB" and dims it by alpha.
func color(hex string, alpha float64) tcell.Color {
	c := tcell.GetColor(hex)
	if hex == "" || c == tcell.ColorDefault {
		c = tcell.ColorWhite
	}
	if alpha >= 1 {
		return c
	}
	r, g, b := c.RGB()
	a := math.Max(0.2, alpha)
	return tcell.NewRGBColor(int32(float64(r)*a), int32(float64(g)*a), int32(float64(b)*a))
}

// Events polls the screen until ctx is done and forwards translated input.
// quit is called when the player asks to leave.
func (t *Terminal) Events(ctx context.Context, quit func()) <-chan game.Input {
	out := make(chan game.Input, 64)
	go func() {
		defer close(out)
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			in, ok, leave := t.translate(ev)
			if leave {
				quit()
				return
			}
			if !ok {
				continue
			}
			select {
			case out <- in:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (t *Terminal) translate(ev tcell.Event) (in game.Input, ok bool, quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return in, false, true
		case tcell.KeyEnter:
			return game.Input{Kind: game.InputRestart}, true, false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return in, false, true
			case 'a', 'A':
				return game.Input{Kind: game.InputUseToken}, true, false
			case ' ', 'p', 'P':
				return game.Input{Kind: game.InputTogglePause}, true, false
			case 'm', 'M':
				return game.Input{Kind: game.InputToggleMute}, true, false
			}
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		if row < hudRows {
			t.buttons = ev.Buttons()
			return in, false, false
		}
		x, y := t.toField(col, row)
		pressed := ev.Buttons()&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0
		t.buttons = ev.Buttons()
		if pressed {
			return game.Input{Kind: game.InputClick, X: x, Y: y}, true, false
		}
		return game.Input{Kind: game.InputMove, X: x, Y: y}, true, false
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return in, false, false
}

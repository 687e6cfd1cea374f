package render

import "testing"

func TestSceneReset(t *testing.T) {
	t.Parallel()

	var s Scene
	s.Reset(800, 600)
	s.Add(Command{Shape: ShapeSprite, Sprite: SpriteDocument})
	s.Add(Command{Shape: ShapeSprite, Sprite: SpriteStar, Alpha: 0.5})
	s.Add(Command{Shape: ShapeSprite, Sprite: SpriteDocument})

	if got := len(s.Sprites(SpriteDocument)); got != 2 {
		t.Errorf("expected 2 documents got %d", got)
	}
	if a := s.Commands[0].Alpha; a != 1 {
		t.Errorf("expected default alpha 1 got %v", a)
	}
	if a := s.Commands[1].Alpha; a != 0.5 {
		t.Errorf("expected alpha 0.5 got %v", a)
	}

	s.HUD.Score = 10
	s.Reset(100, 100)
	if len(s.Commands) != 0 || s.HUD.Score != 0 || s.Width != 100 {
		t.Errorf("scene not reset: %+v", s)
	}
}

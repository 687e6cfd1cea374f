package token

import (
	"errors"
	"testing"
	"time"
)

func newStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := NewStore(5*time.Minute, 128, func() time.Time { return now })
	if err != nil {
		t.Fatal(err)
	}
	return s, &now
}

func TestConsumeOnce(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)
	tok := s.Issue(ActionScoreSubmit, "client")
	if tok.ExpiresIn != 5*time.Minute {
		t.Errorf("unexpected ttl %v", tok.ExpiresIn)
	}

	if err := s.Consume(tok.Value, ActionScoreSubmit, "client"); err != nil {
		t.Fatal(err)
	}
	if err := s.Consume(tok.Value, ActionScoreSubmit, "client"); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected replay to fail with ErrUnknown got %v", err)
	}
}

func TestConsumeErrors(t *testing.T) {
	t.Parallel()

	s, now := newStore(t)

	if err := s.Consume("", ActionChatSend, "c"); !errors.Is(err, ErrMissing) {
		t.Errorf("expected ErrMissing got %v", err)
	}

	tok := s.Issue(ActionChatSend, "c")
	if err := s.Consume(tok.Value, ActionScoreSubmit, "c"); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch for action got %v", err)
	}

	tok = s.Issue(ActionChatSend, "c")
	if err := s.Consume(tok.Value, ActionChatSend, "other"); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch for client got %v", err)
	}

	tok = s.Issue(ActionChatSend, "c")
	*now = now.Add(5 * time.Minute)
	if err := s.Consume(tok.Value, ActionChatSend, "c"); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired got %v", err)
	}
}

func TestSweep(t *testing.T) {
	t.Parallel()

	s, now := newStore(t)
	s.Issue(ActionBoardRefresh, "c")
	*now = now.Add(6 * time.Minute)
	s.Issue(ActionBoardRefresh, "c")

	if n := s.Sweep(); n != 1 {
		t.Errorf("expected one expired grant swept got %d", n)
	}
}

func TestActionValid(t *testing.T) {
	t.Parallel()

	if !ActionBoardRefresh.Valid() || Action("nope").Valid() {
		t.Error("unexpected action validity")
	}
}

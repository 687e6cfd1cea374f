// Package token issues single-use capability tokens bound to an action
// and a client identity.
package token

import (
	"fmt"
	"sync"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/cache"
	"github.com/google/uuid"
)

type Action string

const (
	ActionScoreSubmit  Action = "score_submit"
	ActionChatSend     Action = "chat_send"
	ActionBoardRefresh Action = "board_refresh"
)

func (a Action) Valid() bool {
	switch a {
	case ActionScoreSubmit, ActionChatSend, ActionBoardRefresh:
		return true
	}
	return false
}

var (
	ErrMissing  = fmt.Errorf("token missing")
	ErrUnknown  = fmt.Errorf("token unknown or already used")
	ErrExpired  = fmt.Errorf("token expired")
	ErrMismatch = fmt.Errorf("token issued for another action or client")
)

type Token struct {
	Value     string
	ExpiresIn time.Duration
}

type grant struct {
	action    Action
	client    string
	expiresAt time.Time
}

func NewStore(ttl time.Duration, capacity int, now func() time.Time) (*Store, error) {
	grants, err := cache.NewARC(capacity)
	if err != nil {
		return nil, fmt.Errorf("token table: %w", err)
	}
	if now == nil {
		now = time.Now
	}

	return &Store{ttl: ttl, grants: grants, now: now}, nil
}

type Store struct {
	mtx sync.Mutex

	ttl    time.Duration
	grants cache.Cache
	now    func() time.Time
}

func (s *Store) Issue(action Action, client string) Token {
	value := uuid.New().String()

	s.mtx.Lock()
	s.grants.Add(value, grant{action: action, client: client, expiresAt: s.now().Add(s.ttl)})
	s.mtx.Unlock()

	return Token{Value: value, ExpiresIn: s.ttl}
}

// Consume validates value for action and client. A presented token is
// spent whatever the outcome.
func (s *Store) Consume(value string, action Action, client string) error {
	if value == "" {
		return ErrMissing
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	v, ok := s.grants.Get(value)
	if !ok {
		return ErrUnknown
	}
	s.grants.Delete(value)

	g := v.(grant)
	if !s.now().Before(g.expiresAt) {
		return ErrExpired
	}
	if g.action != action || g.client != client {
		return ErrMismatch
	}

	return nil
}

// Sweep drops expired grants.
func (s *Store) Sweep() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.now()
	removed := 0
	for _, key := range s.grants.Keys() {
		v, ok := s.grants.Get(key)
		if ok && !now.Before(v.(grant).expiresAt) {
			s.grants.Delete(key)
			removed++
		}
	}

	return removed
}

package model

import (
	"time"

	"github.com/google/uuid"
)

func NewMessage(username, text, author, maskedIP string, createdAt time.Time) Message {
	return Message{
		ID:        uuid.New(),
		Username:  username,
		Text:      text,
		Author:    author,
		MaskedIP:  maskedIP,
		CreatedAt: createdAt,
	}
}

type Message struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Text     string    `json:"message"`
	// salted hash of the author address
	Author   string `json:"author"`
	MaskedIP string `json:"maskedIP"`

	DeleteVotes int       `json:"deleteVotes"`
	Voters      []string  `json:"voters"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (m Message) HasVoted(voter string) bool {
	for _, v := range m.Voters {
		if v == voter {
			return true
		}
	}
	return false
}

type Page struct {
	Messages []Message
	HasMore  bool
}

type VoteResult struct {
	Deleted bool
	// true when the author removed their own message
	ByAuthor bool
	Votes    int
}

type InsertPolicy struct {
	// identical texts allowed inside DuplicateWindow before rejection
	DuplicateLimit  int
	DuplicateWindow time.Duration
	// number of newest messages kept after insert
	Retention int
}

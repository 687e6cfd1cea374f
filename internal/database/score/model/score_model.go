package model

import (
	"time"

	"github.com/google/uuid"
)

func NewScore(playerName string, points int, createdAt time.Time) Score {
	return Score{ID: uuid.New(), PlayerName: playerName, Score: points, CreatedAt: createdAt}
}

type Score struct {
	ID          uuid.UUID `json:"id"`
	PlayerName  string    `json:"playerName"`
	Score       int       `json:"score"`
	Country     string    `json:"country"`
	CountryCode string    `json:"countryCode"`
	Flag        string    `json:"flag"`
	// salted hash of the submitter address
	Submitter string    `json:"submitter"`
	CreatedAt time.Time `json:"createdAt"`
}

// Less orders by score descending and then by earlier submission.
func Less(a, b Score) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

type Outcome struct {
	Saved bool
	// 1-based position of the new record, zero when not saved
	Rank    int
	Evicted *Score
	// lowest stored score seen by the transaction
	Lowest int
	Count  int
}

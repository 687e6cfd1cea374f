// Package backend implements the leaderboard and chat operations behind
// the callable RPC boundary.
package backend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	chatDb "github.com/docbreaker-games/docbreaker/internal/database/chat/database"
	chatModel "github.com/docbreaker-games/docbreaker/internal/database/chat/model"
	scoreModel "github.com/docbreaker-games/docbreaker/internal/database/score/model"
	"github.com/docbreaker-games/docbreaker/internal/hashutil"
	"github.com/docbreaker-games/docbreaker/internal/logging"
	"github.com/docbreaker-games/docbreaker/internal/moderation"
	"github.com/docbreaker-games/docbreaker/internal/ratelimit"
	"github.com/docbreaker-games/docbreaker/internal/token"
	"github.com/docbreaker-games/docbreaker/internal/util"
	"github.com/google/uuid"
)

type ScoreStore interface {
	Submit(s scoreModel.Score, capacity int) (scoreModel.Outcome, error)
	Top(limit int) ([]scoreModel.Score, error)
}

type ChatStore interface {
	Insert(m *chatModel.Message, policy chatModel.InsertPolicy) error
	Page(before time.Time, limit int) (chatModel.Page, error)
	Vote(id uuid.UUID, voter string, quorum int) (chatModel.VoteResult, error)
}

// Publisher receives chat events for live subscribers.
type Publisher interface {
	Publish(kind string, payload interface{})
}

// Announcer is told about every new leaderboard leader.
type Announcer interface {
	AnnounceLeader(ctx context.Context, playerName string, score int, flag string) error
}

const (
	EventChatMessage = "chat.message"
	EventChatDeleted = "chat.deleted"
)

// Caller identifies the client behind a request.
type Caller struct {
	IP string
}

type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithAnnouncer(a Announcer) Option {
	return func(s *Service) { s.announcer = a }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(config Config, scores ScoreStore, chat ChatStore, opts ...Option) (*Service, error) {
	s := &Service{
		config: config,
		scores: scores,
		chat:   chat,
		filter: moderation.NewFilter(config.BannedWords),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	s.scoreLimiter, err = ratelimit.New(ratelimit.Config{
		MinInterval:  config.ScoreMinInterval,
		Window:       time.Minute,
		MaxPerWindow: config.ScorePerMinute,
		Capacity:     config.RateLimitCapacity,
	}, s.now)
	if err != nil {
		return nil, fmt.Errorf("score limiter: %w", err)
	}

	s.chatLimiter, err = ratelimit.New(ratelimit.Config{
		MinInterval:  config.ChatMinInterval,
		Window:       time.Minute,
		MaxPerWindow: config.ChatPerMinute,
		Capacity:     config.RateLimitCapacity,
	}, s.now)
	if err != nil {
		return nil, fmt.Errorf("chat limiter: %w", err)
	}

	s.tokens, err = token.NewStore(config.TokenTTL, config.TokenCapacity, s.now)
	if err != nil {
		return nil, fmt.Errorf("token store: %w", err)
	}

	return s, nil
}

type Service struct {
	config Config

	scores ScoreStore
	chat   ChatStore
	filter *moderation.Filter

	scoreLimiter *ratelimit.Limiter
	chatLimiter  *ratelimit.Limiter
	tokens       *token.Store

	publisher Publisher
	announcer Announcer
	now       func() time.Time
}

// Run keeps the in-memory tables bounded until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	logger := logging.FromContext(ctx).Named("backend.Run")
	errCh := make(chan error, 2)
	go func() { errCh <- s.scoreLimiter.Run(ctx, "score", interval) }()
	go func() { errCh <- s.chatLimiter.Run(ctx, "chat", interval) }()

	timer := time.NewTicker(interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			for i := 0; i < 2; i++ {
				if err := <-errCh; err != nil {
					return err
				}
			}
			return nil
		case <-timer.C:
			if n := s.tokens.Sweep(); n > 0 {
				logger.Debugf("swept %d expired tokens", n)
			}
		}
	}
}

func (s *Service) identity(c Caller) string {
	ip := strings.TrimSpace(c.IP)
	if ip == "" {
		ip = "unknown"
	}
	return hashutil.Identity(s.config.IdentitySalt, ip)
}

func (s *Service) consume(tok string, action token.Action, identity string) error {
	if !s.config.RequireToken {
		return nil
	}
	if err := s.tokens.Consume(tok, action, identity); err != nil {
		return &Error{Kind: KindUnauthorized, Message: "Invalid or expired validation token", Err: err}
	}
	return nil
}

type TokenRequest struct {
	ActionType string `json:"actionType"`
}

type TokenResult struct {
	Token string `json:"token"`
	// seconds
	ExpiresIn int `json:"expiresIn"`
}

func (s *Service) GetValidationToken(ctx context.Context, caller Caller, req TokenRequest) (TokenResult, error) {
	action := token.Action(req.ActionType)
	if !action.Valid() {
		return TokenResult{}, validationErr("Unknown action type")
	}

	t := s.tokens.Issue(action, s.identity(caller))
	return TokenResult{Token: t.Value, ExpiresIn: int(t.ExpiresIn / time.Second)}, nil
}

type SubmitScoreRequest struct {
	PlayerName  string  `json:"playerName"`
	Score       float64 `json:"score"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Flag        string  `json:"flag"`
	Token       string  `json:"token"`
}

type SubmitScoreResult struct {
	Success bool   `json:"success"`
	Saved   bool   `json:"saved"`
	Rank    int    `json:"rank,omitempty"`
	Message string `json:"message"`
}

func (s *Service) SubmitScore(ctx context.Context, caller Caller, req SubmitScoreRequest) (SubmitScoreResult, error) {
	logger := logging.FromContext(ctx).Named("backend.SubmitScore")

	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		return SubmitScoreResult{}, validationErr("Player name cannot be empty")
	}
	if utf8.RuneCountInString(name) > s.config.MaxPlayerNameLen {
		return SubmitScoreResult{}, validationErr("Player name is too long")
	}
	if math.IsNaN(req.Score) || req.Score != math.Trunc(req.Score) ||
		req.Score < 0 || req.Score > float64(s.config.MaxScore) {
		return SubmitScoreResult{}, validationErr("Invalid score")
	}

	identity := s.identity(caller)
	if err := s.consume(req.Token, token.ActionScoreSubmit, identity); err != nil {
		return SubmitScoreResult{}, err
	}
	if d := s.scoreLimiter.Allow(identity); !d.Allowed {
		return SubmitScoreResult{}, rateLimitedErr(d.RetryAfter)
	}

	record := scoreModel.NewScore(name, int(req.Score), s.now())
	record.Submitter = identity
	record.Country = strings.TrimSpace(req.Country)
	if record.Country == "" {
		record.Country = defaultCountry
	}
	record.CountryCode = strings.ToUpper(strings.TrimSpace(req.CountryCode))
	if len(record.CountryCode) != 2 {
		record.CountryCode = defaultCountryCode
	}
	record.Flag = strings.TrimSpace(req.Flag)
	if record.Flag == "" {
		record.Flag = countryFlag(record.CountryCode)
	}

	outcome, err := s.scores.Submit(record, s.config.LeaderboardSize)
	if err != nil {
		return SubmitScoreResult{}, internalErr("Failed to save score", err)
	}

	if !outcome.Saved {
		return SubmitScoreResult{
			Success: true,
			Message: fmt.Sprintf("Score too low to be saved in top %d", s.config.LeaderboardSize),
		}, nil
	}

	logger.Infof("score %d saved at rank %d", record.Score, outcome.Rank)
	if outcome.Rank == 1 && s.announcer != nil {
		go func(ctx context.Context) {
			if err := s.announcer.AnnounceLeader(ctx, record.PlayerName, record.Score, record.Flag); err != nil {
				logger.Errorf("announce leader: %v", err)
			}
		}(context.WithoutCancel(ctx))
	}

	return SubmitScoreResult{
		Success: true,
		Saved:   true,
		Rank:    outcome.Rank,
		Message: "Score saved successfully",
	}, nil
}

type LeaderboardRequest struct {
	Limit int `json:"limit"`
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Medal       string `json:"medal,omitempty"`
	PlayerName  string `json:"playerName"`
	Score       int    `json:"score"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	Flag        string `json:"flag"`
	Recency     string `json:"recency"`
	// unix milliseconds
	Timestamp int64 `json:"timestamp"`
}

type LeaderboardResult struct {
	Entries []LeaderboardEntry `json:"entries"`
}

func (s *Service) GetLeaderboard(ctx context.Context, req LeaderboardRequest) (LeaderboardResult, error) {
	limit := req.Limit
	if limit <= 0 || limit > s.config.LeaderboardSize {
		limit = s.config.LeaderboardSize
	}

	records, err := s.scores.Top(limit)
	if err != nil {
		return LeaderboardResult{}, internalErr("Failed to load leaderboard", err)
	}

	now := s.now()
	result := LeaderboardResult{Entries: make([]LeaderboardEntry, 0, len(records))}
	for i, r := range records {
		flag := r.Flag
		if flag == "" {
			flag = defaultFlag
		}
		result.Entries = append(result.Entries, LeaderboardEntry{
			Rank:        i + 1,
			Medal:       medal(i + 1),
			PlayerName:  r.PlayerName,
			Score:       r.Score,
			Country:     r.Country,
			CountryCode: r.CountryCode,
			Flag:        flag,
			Recency:     util.Recency(r.CreatedAt, now),
			Timestamp:   r.CreatedAt.UnixMilli(),
		})
	}

	return result, nil
}

type SendChatRequest struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	Token    string `json:"token"`
}

type SendChatResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

type ChatMessage struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Message     string `json:"message"`
	MaskedIP    string `json:"maskedIP"`
	DeleteVotes int    `json:"deleteVotes"`
	VotesNeeded int    `json:"votesNeeded"`
	// unix milliseconds
	Timestamp int64 `json:"timestamp"`
}

func (s *Service) view(m chatModel.Message) ChatMessage {
	return ChatMessage{
		ID:          m.ID.String(),
		Username:    m.Username,
		Message:     m.Text,
		MaskedIP:    m.MaskedIP,
		DeleteVotes: m.DeleteVotes,
		VotesNeeded: util.MaxInt(0, s.config.DeleteQuorum-m.DeleteVotes),
		Timestamp:   m.CreatedAt.UnixMilli(),
	}
}

func (s *Service) SendChatMessage(ctx context.Context, caller Caller, req SendChatRequest) (SendChatResult, error) {
	username := strings.TrimSpace(req.Username)
	text := strings.TrimSpace(req.Message)
	switch {
	case username == "":
		return SendChatResult{}, validationErr("Username cannot be empty")
	case utf8.RuneCountInString(username) > s.config.MaxUsernameLen:
		return SendChatResult{}, validationErr("Username is too long")
	case text == "":
		return SendChatResult{}, validationErr("Message cannot be empty")
	case utf8.RuneCountInString(text) > s.config.MaxMessageLen:
		return SendChatResult{}, validationErr("Message is too long")
	}
	if err := s.filter.Check(text); err != nil {
		return SendChatResult{}, &Error{Kind: KindValidation, Message: "Message contains forbidden content", Err: err}
	}

	identity := s.identity(caller)
	if err := s.consume(req.Token, token.ActionChatSend, identity); err != nil {
		return SendChatResult{}, err
	}
	decision := s.chatLimiter.Allow(identity)
	if !decision.Allowed {
		return SendChatResult{}, rateLimitedErr(decision.RetryAfter)
	}

	m := chatModel.NewMessage(username, s.filter.Mask(text), identity, MaskIP(caller.IP), s.now())
	err := s.chat.Insert(&m, chatModel.InsertPolicy{
		DuplicateLimit:  s.config.DuplicateLimit,
		DuplicateWindow: s.config.DuplicateWindow,
		Retention:       s.config.ChatRetention,
	})
	if err != nil {
		// a rejected message does not count against the sender
		s.chatLimiter.Release(identity, decision)
	}
	if errors.Is(err, chatDb.ErrDuplicate) {
		return SendChatResult{}, &Error{
			Kind:       KindRateLimited,
			Message:    "The same message was sent too often, please wait",
			RetryAfter: s.config.DuplicateWindow,
			Err:        err,
		}
	}
	if err != nil {
		return SendChatResult{}, internalErr("Failed to send message", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(EventChatMessage, s.view(m))
	}

	return SendChatResult{Success: true, ID: m.ID.String(), Message: "Message sent"}, nil
}

type ChatPageRequest struct {
	// unix milliseconds of the oldest message already shown
	StartAfterTimestamp *int64 `json:"startAfterTimestamp"`
	Limit               int    `json:"limit"`
	Token               string `json:"token"`
}

type ChatPageResult struct {
	Messages []ChatMessage `json:"messages"`
	HasMore  bool          `json:"hasMore"`
}

// GetChatMessages pages newest first. Loading the first page is a board
// refresh and needs a board_refresh token when tokens are enforced.
func (s *Service) GetChatMessages(ctx context.Context, caller Caller, req ChatPageRequest) (ChatPageResult, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = s.config.ChatPageSize
	}
	if limit > s.config.ChatMaxPageSize {
		limit = s.config.ChatMaxPageSize
	}

	var before time.Time
	if req.StartAfterTimestamp != nil {
		if *req.StartAfterTimestamp <= 0 {
			return ChatPageResult{}, validationErr("Invalid cursor")
		}
		before = time.UnixMilli(*req.StartAfterTimestamp)
	} else if err := s.consume(req.Token, token.ActionBoardRefresh, s.identity(caller)); err != nil {
		return ChatPageResult{}, err
	}

	page, err := s.chat.Page(before, limit)
	if err != nil {
		return ChatPageResult{}, internalErr("Failed to load messages", err)
	}

	result := ChatPageResult{Messages: make([]ChatMessage, 0, len(page.Messages)), HasMore: page.HasMore}
	for _, m := range page.Messages {
		result.Messages = append(result.Messages, s.view(m))
	}

	return result, nil
}

type DeleteChatRequest struct {
	MessageID string `json:"messageId"`
}

type DeleteChatResult struct {
	Success      bool   `json:"success"`
	Deleted      bool   `json:"deleted"`
	CurrentVotes int    `json:"currentVotes"`
	Message      string `json:"message"`
}

func (s *Service) DeleteChatMessage(ctx context.Context, caller Caller, req DeleteChatRequest) (DeleteChatResult, error) {
	logger := logging.FromContext(ctx).Named("backend.DeleteChatMessage")

	id, err := uuid.Parse(strings.TrimSpace(req.MessageID))
	if err != nil {
		return DeleteChatResult{}, validationErr("Invalid message id")
	}

	res, err := s.chat.Vote(id, s.identity(caller), s.config.DeleteQuorum)
	switch {
	case errors.Is(err, chatDb.ErrNotFound):
		return DeleteChatResult{}, &Error{Kind: KindNotFound, Message: "Message not found", Err: err}
	case errors.Is(err, chatDb.ErrAlreadyVoted):
		return DeleteChatResult{}, &Error{Kind: KindConflict, Message: "You have already voted to delete this message", Err: err}
	case err != nil:
		return DeleteChatResult{}, internalErr("Failed to delete message", err)
	}

	result := DeleteChatResult{Success: true, Deleted: res.Deleted, CurrentVotes: res.Votes}
	switch {
	case res.ByAuthor:
		result.Message = "Message deleted"
	case res.Deleted:
		result.Message = "Message deleted by vote"
	default:
		result.Message = fmt.Sprintf("Vote recorded, %d more needed", s.config.DeleteQuorum-res.Votes)
	}

	if res.Deleted {
		logger.Debugf("chat message %s deleted, author=%v votes=%d", id, res.ByAuthor, res.Votes)
		if s.publisher != nil {
			s.publisher.Publish(EventChatDeleted, map[string]string{"id": id.String()})
		}
	}

	return result, nil
}

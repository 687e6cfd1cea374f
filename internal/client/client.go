// Package client calls the leaderboard and chat backend over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/backend"
	"github.com/docbreaker-games/docbreaker/internal/logging"
	"github.com/docbreaker-games/docbreaker/internal/token"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(config Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(config.ServerURL, "/"),
		http:    &http.Client{Timeout: config.Timeout},
	}
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Details struct {
			RetryAfter int `json:"retryAfter"`
		} `json:"details"`
	} `json:"error"`
}

func kindOf(status string) backend.Kind {
	switch status {
	case "INVALID_ARGUMENT":
		return backend.KindValidation
	case "RESOURCE_EXHAUSTED":
		return backend.KindRateLimited
	case "UNAUTHENTICATED":
		return backend.KindUnauthorized
	case "NOT_FOUND":
		return backend.KindNotFound
	case "ALREADY_EXISTS":
		return backend.KindConflict
	default:
		return backend.KindInternal
	}
}

// call invokes the named function. Failures reported by the server come
// back as *backend.Error so callers can switch on the kind.
func (c *Client) call(ctx context.Context, name string, req, res interface{}) error {
	logger := logging.FromContext(ctx).Named("client." + name)

	body, err := json.Marshal(struct {
		Data interface{} `json:"data"`
	}{Data: req})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/"+name, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequest: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &backend.Error{Kind: backend.KindInternal, Message: "Server unreachable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &backend.Error{Kind: backend.KindInternal, Message: "Unreadable response", Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Debugf("bad response %d: %s", resp.StatusCode, raw)
		return &backend.Error{Kind: backend.KindInternal, Message: "Malformed response", Err: err}
	}
	if env.Error != nil {
		return &backend.Error{
			Kind:       kindOf(env.Error.Status),
			Message:    env.Error.Message,
			RetryAfter: time.Duration(env.Error.Details.RetryAfter) * time.Second,
		}
	}
	if res == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result, res); err != nil {
		return &backend.Error{Kind: backend.KindInternal, Message: "Malformed result", Err: err}
	}
	return nil
}

// Token fetches a single use token for action.
func (c *Client) Token(ctx context.Context, action token.Action) (string, error) {
	var res backend.TokenResult
	if err := c.call(ctx, "getValidationToken", backend.TokenRequest{ActionType: string(action)}, &res); err != nil {
		return "", err
	}
	return res.Token, nil
}

// SubmitScore submits a finished game, fetching a token first when the
// request carries none.
func (c *Client) SubmitScore(ctx context.Context, req backend.SubmitScoreRequest) (backend.SubmitScoreResult, error) {
	if req.Token == "" {
		tok, err := c.Token(ctx, token.ActionScoreSubmit)
		if err != nil {
			return backend.SubmitScoreResult{}, err
		}
		req.Token = tok
	}

	var res backend.SubmitScoreResult
	err := c.call(ctx, "submitScore", req, &res)
	return res, err
}

func (c *Client) Leaderboard(ctx context.Context, limit int) ([]backend.LeaderboardEntry, error) {
	var res backend.LeaderboardResult
	if err := c.call(ctx, "getLeaderboard", backend.LeaderboardRequest{Limit: limit}, &res); err != nil {
		return nil, err
	}
	return res.Entries, nil
}

func (c *Client) SendChat(ctx context.Context, username, message string) (backend.SendChatResult, error) {
	tok, err := c.Token(ctx, token.ActionChatSend)
	if err != nil {
		return backend.SendChatResult{}, err
	}

	var res backend.SendChatResult
	err = c.call(ctx, "sendChatMessage", backend.SendChatRequest{Username: username, Message: message, Token: tok}, &res)
	return res, err
}

// ChatMessages loads a page of messages older than before, or the newest
// page when before is zero.
func (c *Client) ChatMessages(ctx context.Context, before time.Time, limit int) (backend.ChatPageResult, error) {
	req := backend.ChatPageRequest{Limit: limit}
	if before.IsZero() {
		tok, err := c.Token(ctx, token.ActionBoardRefresh)
		if err != nil {
			return backend.ChatPageResult{}, err
		}
		req.Token = tok
	} else {
		ms := before.UnixMilli()
		req.StartAfterTimestamp = &ms
	}

	var res backend.ChatPageResult
	err := c.call(ctx, "getChatMessages", req, &res)
	return res, err
}

func (c *Client) DeleteChat(ctx context.Context, id string) (backend.DeleteChatResult, error) {
	var res backend.DeleteChatResult
	err := c.call(ctx, "deleteChatMessage", backend.DeleteChatRequest{MessageID: id}, &res)
	return res, err
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("http.NewRequest: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check: status %d", resp.StatusCode)
	}
	return nil
}

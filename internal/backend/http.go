package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/logging"
)

const maxBodyBytes = 16 << 10

type callableRequest struct {
	Data json.RawMessage `json:"data"`
}

type callableError struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type callableResponse struct {
	Result interface{}    `json:"result,omitempty"`
	Error  *callableError `json:"error,omitempty"`
}

type callFn func(ctx context.Context, caller Caller, data json.RawMessage) (interface{}, error)

// decodeCall binds the JSON payload to a request struct before calling fn.
func decodeCall[Req any, Res any](fn func(context.Context, Caller, Req) (Res, error)) callFn {
	return func(ctx context.Context, caller Caller, data json.RawMessage) (interface{}, error) {
		var req Req
		if len(data) > 0 && string(data) != "null" {
			if err := json.Unmarshal(data, &req); err != nil {
				return nil, &Error{Kind: KindValidation, Message: "Malformed request", Err: err}
			}
		}
		return fn(ctx, caller, req)
	}
}

func statusOf(kind Kind) (string, int) {
	switch kind {
	case KindValidation:
		return "INVALID_ARGUMENT", http.StatusBadRequest
	case KindRateLimited:
		return "RESOURCE_EXHAUSTED", http.StatusTooManyRequests
	case KindUnauthorized:
		return "UNAUTHENTICATED", http.StatusUnauthorized
	case KindNotFound:
		return "NOT_FOUND", http.StatusNotFound
	case KindConflict:
		return "ALREADY_EXISTS", http.StatusConflict
	default:
		return "INTERNAL", http.StatusInternalServerError
	}
}

// HTTPConfig controls the callable transport.
type HTTPConfig struct {
	// Take the client address from X-Forwarded-For
	TrustProxy  bool
	AllowOrigin string
}

// Handler exposes the service as callable functions at POST /api/{name}
// with the body {"data": ...} and a {"result": ...} or {"error": ...} reply.
func Handler(ctx context.Context, s *Service, config HTTPConfig) http.Handler {
	calls := map[string]callFn{
		"submitScore":        decodeCall(s.SubmitScore),
		"getValidationToken": decodeCall(s.GetValidationToken),
		"sendChatMessage":    decodeCall(s.SendChatMessage),
		"getChatMessages":    decodeCall(s.GetChatMessages),
		"deleteChatMessage":  decodeCall(s.DeleteChatMessage),
		"getLeaderboard": decodeCall(func(ctx context.Context, _ Caller, req LeaderboardRequest) (LeaderboardResult, error) {
			return s.GetLeaderboard(ctx, req)
		}),
	}

	h := &httpHandler{ctx: ctx, config: config, calls: calls, service: s}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/{name}", h.cors(h.handleCall))
	mux.HandleFunc("OPTIONS /api/{name}", h.cors(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/leaderboard", h.cors(h.handleLeaderboard))

	return mux
}

type httpHandler struct {
	ctx     context.Context
	config  HTTPConfig
	calls   map[string]callFn
	service *Service
}

func (h *httpHandler) cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := h.config.AllowOrigin
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		next(w, r)
	}
}

func (h *httpHandler) caller(r *http.Request) Caller {
	if h.config.TrustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			return Caller{IP: strings.TrimSpace(first)}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return Caller{IP: r.RemoteAddr}
	}
	return Caller{IP: host}
}

func (h *httpHandler) handleCall(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	logger := logging.FromContext(h.ctx).Named("backend.http." + name)

	call, ok := h.calls[name]
	if !ok {
		h.writeError(w, &Error{Kind: KindNotFound, Message: "Unknown function " + name})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		h.writeError(w, &Error{Kind: KindValidation, Message: "Unreadable request", Err: err})
		return
	}
	if len(body) > maxBodyBytes {
		h.writeError(w, validationErr("Request too large"))
		return
	}

	var req callableRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.writeError(w, &Error{Kind: KindValidation, Message: "Malformed request", Err: err})
			return
		}
	}

	ctx := logging.WithLogger(r.Context(), logger)
	result, err := call(ctx, h.caller(r), req.Data)
	if err != nil {
		if KindOf(err) == KindInternal {
			logger.Errorf("call failed: %v", err)
		} else {
			logger.Debugf("call rejected: %v", err)
		}
		h.writeError(w, err)
		return
	}

	h.write(w, http.StatusOK, callableResponse{Result: result})
}

func (h *httpHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := h.service.GetLeaderboard(r.Context(), LeaderboardRequest{Limit: limit})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.write(w, http.StatusOK, callableResponse{Result: result})
}

func (h *httpHandler) writeError(w http.ResponseWriter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = internalErr("Internal error", err)
	}

	status, code := statusOf(e.Kind)
	ce := &callableError{Status: status, Message: e.Message}
	if e.RetryAfter > 0 {
		secs := int((e.RetryAfter + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		ce.Details = map[string]interface{}{"retryAfter": secs}
	}

	h.write(w, code, callableResponse{Error: ce})
}

func (h *httpHandler) write(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(h.ctx).Named("backend.http").Errorf("encode response: %v", err)
	}
}

// Package handler exposes the engine over fasthttp.
package handler

import (
	"strings"
	"sync"
	"sync/atomic"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"dcf-engine/internal/edits"
	"dcf-engine/internal/engine"
	"dcf-engine/internal/expr"
	"dcf-engine/internal/model"
	"dcf-engine/internal/recompute"
	"dcf-engine/internal/segment"
	"dcf-engine/internal/series"
)

// DefaultMaxSessions bounds the number of live sessions.
const DefaultMaxSessions = 1000

// Handler routes requests and owns the session store, the only state shared
// between requests.
type Handler struct {
	opts        series.Options
	log         *zap.Logger
	sessions    sync.Map // session id -> *recompute.Tracker
	live        atomic.Int64
	maxSessions int64
}

func New(opts series.Options, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{opts: opts, log: log, maxSessions: DefaultMaxSessions}
}

// Serve is the fasthttp.RequestHandler.
func (h *Handler) Serve(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	switch {
	case path == "/calculate":
		h.requireMethod(ctx, fasthttp.MethodPost, h.handleCalculation)
	case path == "/evaluate":
		h.requireMethod(ctx, fasthttp.MethodPost, h.handleEvaluate)
	case path == "/edits":
		h.requireMethod(ctx, fasthttp.MethodGet, h.handleEditNames)
	case path == "/sessions":
		h.requireMethod(ctx, fasthttp.MethodPost, h.handleNewSession)
	case strings.HasPrefix(path, "/sessions/"):
		id, rest, _ := strings.Cut(strings.TrimPrefix(path, "/sessions/"), "/")
		if id == "" || rest != "model" {
			writeError(ctx, fasthttp.StatusNotFound, "Not found")
			return
		}
		switch method {
		case fasthttp.MethodPut:
			h.handleSessionModel(ctx, id)
		case fasthttp.MethodDelete:
			if _, ok := h.sessions.LoadAndDelete(id); ok {
				h.live.Add(-1)
			}
			ctx.SetStatusCode(fasthttp.StatusNoContent)
		default:
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		}
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (h *Handler) requireMethod(ctx *fasthttp.RequestCtx, method string, next fasthttp.RequestHandler) {
	if string(ctx.Method()) != method {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	next(ctx)
}

func (h *Handler) handleCalculation(ctx *fasthttp.RequestCtx) {
	var req model.CalculationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Model.Segments) == 0 && len(req.Edits) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "A model or at least one edit is required")
		return
	}

	resp := engine.ProcessWithOptions(&req, h.opts)
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (h *Handler) handleEvaluate(ctx *fasthttp.RequestCtx) {
	var req model.EvaluateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp := model.EvaluateResponse{
		Kind: segment.KindOf(model.Segment{Expression: req.Expression}),
	}
	prog, err := expr.Parse(req.Expression)
	if err != nil {
		resp.ParseError = err.Error()
	} else {
		resp.Value, resp.Exact = prog.Eval(float64(req.T), req.Y)
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (h *Handler) handleEditNames(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, edits.Names())
}

func (h *Handler) handleNewSession(ctx *fasthttp.RequestCtx) {
	if h.live.Add(1) > h.maxSessions {
		h.live.Add(-1)
		h.log.Warn("session limit reached", zap.Int64("max_sessions", h.maxSessions))
		writeError(ctx, fasthttp.StatusServiceUnavailable, "Session limit reached")
		return
	}
	id := uuid.New().String()
	h.sessions.Store(id, recompute.NewTracker(h.opts))
	h.log.Info("session created", zap.String("session_id", id))
	writeJSON(ctx, fasthttp.StatusCreated, model.SessionResponse{SessionID: id})
}

// handleSessionModel recomputes a session's model. Sessions are only
// created by POST /sessions.
func (h *Handler) handleSessionModel(ctx *fasthttp.RequestCtx, id string) {
	v, ok := h.sessions.Load(id)
	if !ok {
		writeError(ctx, fasthttp.StatusNotFound, "Unknown session "+id)
		return
	}
	var m model.Model
	if err := json.Unmarshal(ctx.PostBody(), &m); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	u, err := v.(*recompute.Tracker).Update(m)
	if err != nil {
		h.log.Error("session update failed", zap.String("session_id", id), zap.Error(err))
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}

	h.log.Debug("session updated",
		zap.String("session_id", id),
		zap.Bool("recomputed", u.Recomputed),
		zap.Int("changes", len(u.Changes)),
	)
	msgs := u.Messages
	if msgs == nil {
		msgs = []model.CalculationMessage{}
	}
	writeJSON(ctx, fasthttp.StatusOK, model.SessionResponse{
		SessionID:  id,
		Recomputed: u.Recomputed,
		Changes:    u.Changes,
		Messages:   msgs,
		Result:     u.Result,
	})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(model.ErrorResponse{
		Status:  status,
		Message: message,
	})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

// Server wraps h in a fasthttp server with the engine's limits.
func (h *Handler) Server() *fasthttp.Server {
	return &fasthttp.Server{
		Handler:            h.Serve,
		Name:               "dcf-engine",
		MaxRequestBodySize: 4 << 20,
	}
}

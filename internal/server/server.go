package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	eventbus "github.com/hanpama/queryweave/internal/eventbus"
	events "github.com/hanpama/queryweave/internal/events"
	language "github.com/hanpama/queryweave/internal/language"
	registry "github.com/hanpama/queryweave/internal/registry"
	reqid "github.com/hanpama/queryweave/internal/reqid"
	rewrite "github.com/hanpama/queryweave/internal/rewrite"
)

// Handler is an http.Handler that rewrites query documents. It accepts a
// query plus a mode and responds with the rewritten query text.
type Handler struct {
	reg registry.Registry
	opt Options
}

type Options struct {
	// Timeout sets a default timeout if the incoming request context has none.
	// 0 means no default timeout.
	Timeout time.Duration

	// Pretty enables indented JSON responses (useful for dev).
	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// CORS configuration. If AllowedOrigins is empty, CORS is disabled.
	CORS CORSOptions
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                 { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithCORS(origins ...string) Option {
	return func(o *Options) { o.CORS.AllowedOrigins = origins }
}

// CORSOptions holds simple CORS settings.
type CORSOptions struct {
	AllowedOrigins []string
}

// New creates a rewrite HTTP handler backed by the given registry.
func New(reg registry.Registry, opts ...Option) (*Handler, error) {
	op := Options{Timeout: 10 * time.Second}
	for _, f := range opts {
		f(&op)
	}
	return &Handler{reg: reg, opt: op}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}

	ctx, _ = reqid.NewContext(ctx)
	status := http.StatusOK
	start := time.Now()
	eventbus.Publish(ctx, events.HTTPStart{Request: r})
	defer func() {
		eventbus.Publish(ctx, events.HTTPFinish{Request: r, Status: status, Duration: time.Since(start)})
	}()

	if r.Method == http.MethodOptions {
		if len(h.opt.CORS.AllowedOrigins) > 0 {
			setCORSHeaders(w, r, h.opt.CORS)
		}
		status = http.StatusNoContent
		w.WriteHeader(status)
		return
	}

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		status = http.StatusMethodNotAllowed
		writeJSON(w, status, errorResponse("method not allowed"), h.opt.Pretty)
		return
	}

	if len(h.opt.CORS.AllowedOrigins) > 0 {
		setCORSHeaders(w, r, h.opt.CORS)
	}

	req, perr := parseRequest(r, h.opt.MaxBodyBytes)
	if perr != nil {
		status = http.StatusBadRequest
		if perr.Error() == errBodyTooLargeMessage {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorResponse(perr.Error()), h.opt.Pretty)
		return
	}

	res, st := h.rewriteOne(ctx, req)
	status = st
	writeJSON(w, status, res, h.opt.Pretty)
}

// RewriteRequest is the JSON request body accepted by the handler.
type RewriteRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode,omitempty"`
}

// RewriteResponse carries either the rewritten query text or errors.
type RewriteResponse struct {
	Query  string          `json:"query,omitempty"`
	Errors []responseError `json:"errors,omitempty"`
}

type responseError struct {
	Message string `json:"message"`
}

func errorResponse(messages ...string) RewriteResponse {
	res := RewriteResponse{}
	for _, m := range messages {
		res.Errors = append(res.Errors, responseError{Message: m})
	}
	return res
}

func (h *Handler) rewriteOne(ctx context.Context, req RewriteRequest) (RewriteResponse, int) {
	var mode rewrite.Mode
	switch req.Mode {
	case "", "replace":
		mode = rewrite.ModeReplace
	case "augment":
		mode = rewrite.ModeAugment
	default:
		return errorResponse("unknown mode " + strconv.Quote(req.Mode)), http.StatusBadRequest
	}

	doc, err := language.ParseQuery(req.Query)
	if err != nil {
		var ge *language.Error
		if errors.As(err, &ge) {
			return errorResponse(ge.Message), http.StatusBadRequest
		}
		return errorResponse(err.Error()), http.StatusBadRequest
	}

	start := time.Now()
	eventbus.Publish(ctx, events.RewriteStart{Query: req.Query, Mode: mode.String()})
	var out *language.QueryDocument
	switch mode {
	case rewrite.ModeAugment:
		out, err = rewrite.Augment(doc, h.reg)
	default:
		out, err = rewrite.Replace(doc, h.reg)
	}
	eventbus.Publish(ctx, events.RewriteFinish{Query: req.Query, Mode: mode.String(), Err: err, Duration: time.Since(start)})

	if err != nil {
		return errorResponse(err.Error()), http.StatusUnprocessableEntity
	}
	return RewriteResponse{Query: language.FormatQuery(out)}, http.StatusOK
}

const errBodyTooLargeMessage = "request body too large"

func parseRequest(r *http.Request, maxBody int64) (RewriteRequest, error) {
	if r.Method == http.MethodGet {
		q := r.URL.Query().Get("query")
		if q == "" {
			return RewriteRequest{}, errors.New("missing 'query'")
		}
		return RewriteRequest{Query: q, Mode: r.URL.Query().Get("mode")}, nil
	}

	// POST
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" && !strings.HasPrefix(ct, "application/json;") {
		return RewriteRequest{}, errors.New("unsupported content type " + strconv.Quote(ct))
	}
	reader := io.Reader(r.Body)
	if maxBody > 0 {
		reader = io.LimitReader(r.Body, maxBody+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return RewriteRequest{}, errors.New("failed to read body")
	}
	defer r.Body.Close()
	if maxBody > 0 && int64(len(body)) > maxBody {
		return RewriteRequest{}, errors.New(errBodyTooLargeMessage)
	}

	var req RewriteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return RewriteRequest{}, errors.New("invalid JSON")
	}
	if req.Query == "" {
		return RewriteRequest{}, errors.New("missing 'query'")
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

func setCORSHeaders(w http.ResponseWriter, r *http.Request, cors CORSOptions) {
	origin := r.Header.Get("Origin")
	for _, allowed := range cors.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			return
		}
	}
}

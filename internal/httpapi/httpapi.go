// Package httpapi exposes the query engine over HTTP.
//
//	POST /salary       run a query, respond with the result envelope
//	GET  /salary/info  list the distinct job titles with a salary
//
// Client errors are answered with 400 and the QueryError fields; store
// failures with 500 and no detail.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/genpare/genpare/internal/engine"
)

// MaxBodyBytes caps the size of a query body.
const MaxBodyBytes = 1 << 20

// JobTitleLister lists the job titles of all stored salaries.
type JobTitleLister interface {
	DistinctJobTitles(ctx context.Context) ([]string, error)
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code      engine.ErrorCode `json:"code"`
	Component engine.Component `json:"component,omitempty"`
	Index     *int             `json:"index,omitempty"`
	Message   string           `json:"message"`
}

type handler struct {
	engine *engine.Engine
	titles JobTitleLister
}

// NewHandler returns the routes, wrapped so each request carries logger
// in its context and is access-logged.
func NewHandler(e *engine.Engine, titles JobTitleLister, logger zerolog.Logger) http.Handler {
	h := &handler{engine: e, titles: titles}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /salary", h.query)
	mux.HandleFunc("GET /salary/info", h.info)

	var next http.Handler = mux
	next = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("Method", r.Method).
			Str("Path", r.URL.Path).
			Int("Status", status).
			Int("Size", size).
			Dur("Duration", duration).
			Msg("request")
	})(next)
	next = hlog.NewHandler(logger)(next)
	return next
}

func (h *handler) query(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, r, http.StatusRequestEntityTooLarge, ErrorBody{
				Code:    engine.ErrCodeMalformedPayload,
				Message: "request body too large",
			})
			return
		}
		writeJSON(w, r, http.StatusBadRequest, ErrorBody{
			Code:    engine.ErrCodeMalformedPayload,
			Message: "read request body: " + err.Error(),
		})
		return
	}

	resp, err := h.engine.Run(r.Context(), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *handler) info(w http.ResponseWriter, r *http.Request) {
	titles, err := h.titles.DistinctJobTitles(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list job titles")
		writeJSON(w, r, http.StatusInternalServerError, ErrorBody{
			Code:    engine.ErrCodeStoreFailure,
			Message: "internal error",
		})
		return
	}
	writeJSON(w, r, http.StatusOK, titles)
}

// writeError maps an engine error to its status code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var qe *engine.QueryError
	if !errors.As(err, &qe) || qe.Code == engine.ErrCodeStoreFailure {
		hlog.FromRequest(r).Error().Err(err).Msg("query failed")
		writeJSON(w, r, http.StatusInternalServerError, ErrorBody{
			Code:    engine.ErrCodeStoreFailure,
			Message: "internal error",
		})
		return
	}

	body := ErrorBody{Code: qe.Code, Component: qe.Component, Message: qe.Message}
	if qe.Index >= 0 {
		idx := qe.Index
		body.Index = &idx
	}
	writeJSON(w, r, http.StatusBadRequest, body)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode response")
		http.Error(w, `{"code":"STORE_FAILURE","message":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// Serve runs srv until ctx is done, then shuts it down, giving in-flight
// requests up to grace to finish.
func Serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Ctx(ctx).Info().Str("Addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
		defer cancel()
		log.Ctx(ctx).Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

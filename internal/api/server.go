// Package api wraps internal/tool's fixed tool set behind a chi router
// documented with huma, following a NewServer/registerXHandlers/mapErr
// layout: schema validation is delegated to huma's struct tags, and there
// is no business logic here beyond routing and error-code mapping.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
	"github.com/dgnsrekt/cdpagent/internal/tool"
)

// NewServer builds the HTTP handler exposing sess's tool registry.
func NewServer(sess *session.Session, registry *tool.Registry) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("CDP Session Engine API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(docsHTML))
	})

	registerHealthHandlers(api, sess)
	registerDebuggerHandlers(api, sess)
	registerToolHandlers(api, sess, registry)

	return router
}

// mapErr maps a session.CodedError to the matching huma HTTP status:
// validation -> 400, not-found -> 404, conflict -> 409, unavailable -> 502,
// not-connected -> 503, timeout -> 504.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *session.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case session.CodeBreakpointSpecInvalid:
			return huma.Error400BadRequest(coded.Message)
		case session.CodePausedRequestNotFound, session.CodeRuleNotFound,
			session.CodeTargetNotFound, session.CodeScriptNotFound:
			return huma.Error404NotFound(coded.Message)
		case session.CodeAlreadyPaused, session.CodeNotPaused:
			return huma.Error409Conflict(coded.Message)
		case session.CodeResponseBodyUnavailable:
			return huma.Error502BadGateway(coded.Message)
		case session.CodeNotConnected:
			return huma.Error503ServiceUnavailable(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return huma.Error504GatewayTimeout(err.Error())
	}
	return huma.Error500InternalServerError(err.Error())
}

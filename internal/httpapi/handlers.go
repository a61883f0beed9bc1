package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/hotseat-chess/internal/obslog"
	"github.com/park285/hotseat-chess/internal/rules"
	"github.com/park285/hotseat-chess/internal/session"
	"github.com/park285/hotseat-chess/pkg/chessdto"
)

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	v, err := s.games.Create(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, s.view.State(v))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	v, err := s.games.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s.view.State(v))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var body chessdto.MoveRequest
	if !decodeBody(w, r, &body) {
		return
	}
	from := normalizeSquare(body.From)
	to := normalizeSquare(body.To)

	res, err := s.games.Move(r.Context(), r.PathValue("id"), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, chessdto.MoveResponse{
		Accepted: res.Accepted,
		Message:  s.view.MoveMessage(res.Accepted, from, to, res.View.Game),
		State:    s.view.State(res.View),
	})
}

func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	var body chessdto.GotoRequest
	if !decodeBody(w, r, &body) {
		return
	}
	v, err := s.games.GoTo(r.Context(), r.PathValue("id"), body.Index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s.view.State(v))
}

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	square := normalizeSquare(r.URL.Query().Get("square"))
	dests, err := s.games.Legal(r.Context(), r.PathValue("id"), square)
	if err != nil {
		writeError(w, err)
		return
	}
	out := chessdto.LegalResponse{Square: square, Destinations: make([]string, len(dests))}
	for i, d := range dests {
		out.Destinations[i] = d.String()
	}
	writeJSON(w, out)
}

func (s *Server) handleBoardPNG(w http.ResponseWriter, r *http.Request) {
	var selected *rules.Square
	if raw := normalizeSquare(r.URL.Query().Get("select")); raw != "" {
		sq, ok := rules.ParseSquare(raw)
		if !ok {
			writeError(w, fmt.Errorf("%w: %q", session.ErrInvalidSquare, raw))
			return
		}
		selected = &sq
	}
	v, err := s.games.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	png, err := s.view.BoardPNG(r.Context(), s.renderer, v, selected)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func normalizeSquare(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeStatus(w, http.StatusRequestEntityTooLarge, chessdto.DomainError{Code: chessdto.CodeInvalidInput, Message: "request too large"})
			return false
		}
		writeStatus(w, http.StatusBadRequest, chessdto.DomainError{Code: chessdto.CodeInvalidInput, Message: "invalid json"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeStatus(w http.ResponseWriter, status int, body chessdto.DomainError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	writeJSON(w, body)
}

// writeError maps session errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		obslog.L().Error("http_error", zap.Int("status", status), zap.Error(err))
	}
	writeStatus(w, status, body)
}

func classify(err error) (int, chessdto.DomainError) {
	switch {
	case errors.Is(err, session.ErrGameNotFound):
		return http.StatusNotFound, chessdto.DomainError{Code: chessdto.CodeNotFound, Message: err.Error()}
	case errors.Is(err, session.ErrInvalidSquare), errors.Is(err, session.ErrInvalidIndex):
		return http.StatusBadRequest, chessdto.DomainError{Code: chessdto.CodeInvalidInput, Message: err.Error()}
	case errors.Is(err, session.ErrConflict):
		return http.StatusConflict, chessdto.DomainError{Code: chessdto.CodeConflict, Message: err.Error(), Retryable: true}
	case errors.Is(err, session.ErrGameExists):
		return http.StatusConflict, chessdto.DomainError{Code: chessdto.CodeConflict, Message: err.Error()}
	default:
		return http.StatusInternalServerError, chessdto.DomainError{Code: chessdto.CodeInternal, Message: "internal error", Retryable: true}
	}
}

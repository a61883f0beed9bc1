package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/hotseat-chess/internal/obslog"
	"github.com/park285/hotseat-chess/internal/session"
)

const wsWriteTimeout = 5 * time.Second

// handleWatch streams the game state once on connect and again after every
// accepted mutation. Client frames are ignored.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	updates, cancel, err := s.games.Subscribe(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cancel()

	current, err := s.games.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{CompressionMode: websocket.CompressionNoContextTakeover})
	if err != nil {
		obslog.L().Warn("ws_accept_error", zap.String("game_id", id), zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	ctx := conn.CloseRead(s.streams)
	obslog.L().Debug("ws_subscribed", zap.String("game_id", id))

	if err := s.push(ctx, conn, current); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			if s.streams.Err() != nil {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
			}
			obslog.L().Debug("ws_closed", zap.String("game_id", id))
			return
		case rec, ok := <-updates:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if rec.Version <= current.Record.Version {
				continue
			}
			current.Record = rec
			g, err := session.Replay(rec)
			if err != nil {
				obslog.L().Error("ws_replay_error", zap.String("game_id", id), zap.Error(err))
				continue
			}
			if err := s.push(ctx, conn, &session.View{Record: rec, Game: g}); err != nil {
				return
			}
		}
	}
}

func (s *Server) push(ctx context.Context, conn *websocket.Conn, v *session.View) error {
	wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	if err := wsjson.Write(wctx, conn, s.view.State(v)); err != nil {
		obslog.L().Debug("ws_write_error", zap.String("game_id", v.Record.ID), zap.Error(err))
		return err
	}
	return nil
}

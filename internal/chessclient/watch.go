package chessclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/hotseat-chess/internal/obslog"
	"github.com/park285/hotseat-chess/pkg/chessdto"
)

// GameState 메시지 한 건의 최대 크기
const watchReadLimit = 1 << 20

func (c *Client) wsURL(path string) (string, error) {
	switch {
	case strings.HasPrefix(c.baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(c.baseURL, "https://") + path, nil
	case strings.HasPrefix(c.baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(c.baseURL, "http://") + path, nil
	default:
		return "", fmt.Errorf("unsupported base url %q", c.baseURL)
	}
}

// Watch streams the state of game id: once on connect, then after every
// accepted move or position change. The channel closes when ctx is done or
// the connection drops.
func (c *Client) Watch(ctx context.Context, id string) (<-chan *chessdto.GameState, error) {
	u, err := c.wsURL(gamePath(id, "ws"))
	if err != nil {
		return nil, err
	}
	conn, resp, err := websocket.Dial(ctx, u, &websocket.DialOptions{CompressionMode: websocket.CompressionNoContextTakeover})
	if err != nil {
		if resp != nil {
			return nil, &APIError{Status: resp.StatusCode, DomainError: chessdto.DomainError{Code: "ws_dial", Message: err.Error()}}
		}
		return nil, fmt.Errorf("ws dial: %w", err)
	}
	conn.SetReadLimit(watchReadLimit)

	out := make(chan *chessdto.GameState)
	go func() {
		defer close(out)
		defer conn.Close(websocket.StatusNormalClosure, "")
		for {
			var st chessdto.GameState
			if err := wsjson.Read(ctx, conn, &st); err != nil {
				if ctx.Err() == nil && !errors.Is(err, context.Canceled) && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
					obslog.L().Debug("ws_watch_end", zap.String("game_id", id), zap.Error(err))
				}
				return
			}
			select {
			case out <- &st:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

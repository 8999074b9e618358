package api

import (
	"context"
	"encoding/json"
	"net/http"

	"nhooyr.io/websocket"

	"github.com/1broseidon/tagtile/internal/wm"
)

// events upgrades to a websocket and writes a JSON snapshot whenever the
// state changes. Incoming messages are ignored.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept", "error", err)
		return
	}
	s.log.Debug("websocket connect", "remote", r.RemoteAddr)
	defer s.log.Debug("websocket disconnect", "remote", r.RemoteAddr)
	defer c.Close(websocket.StatusInternalError, "")

	ctx := c.CloseRead(r.Context())
	snaps, cancel := s.ctrl.Subscribe()
	defer cancel()

	if err := s.stream(ctx, c, snaps); err != nil {
		return
	}
	c.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) stream(ctx context.Context, c *websocket.Conn, snaps <-chan wm.Snapshot) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-snaps:
			if !ok {
				return nil
			}
			data, err := json.Marshal(snap)
			if err != nil {
				return err
			}
			if err := c.Write(ctx, websocket.MessageText, data); err != nil {
				return err
			}
		}
	}
}

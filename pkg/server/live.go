package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/script"
	"github.com/matzehuels/edgeknife/pkg/session"
)

const (
	liveWriteWait  = 10 * time.Second
	liveMaxMsgSize = 64 * 1024
)

// Live message types sent to the client.
const (
	MessageState    = "state"
	MessageDocument = "document"
	MessageError    = "error"
)

// LiveMessage is a server-to-client websocket message.
type LiveMessage struct {
	Type     string          `json:"type"`
	State    *session.State  `json:"state,omitempty"`
	Document *graph.Document `json:"document,omitempty"`
	Error    *ErrorBody      `json:"error,omitempty"`
}

// live runs one knife session per websocket connection. ?flavor= selects the
// redirect flavor.
func (s *Server) live(w http.ResponseWriter, r *http.Request) {
	id, doc, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	sess, err := session.New(*doc, session.Config{
		ID:     uuid.NewString(),
		Flavor: s.flavor(r.URL.Query().Get("flavor")),
		Knife:  s.knife,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer sess.Close()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.AllowedOrigins,
	})
	if err != nil {
		s.log.Warn("websocket accept", "err", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")
	conn.SetReadLimit(liveMaxMsgSize)

	ctx := r.Context()
	logger := s.log.With("graph", id, "client", sess.ID)
	logger.Debug("live session opened")

	if err := s.sendState(ctx, conn, sess); err != nil {
		return
	}
	revision := sess.Revision()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				logger.Debug("read error", "err", err)
			}
			logger.Debug("live session closed")
			return
		}

		var ev script.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			err = errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode event")
			if s.sendError(ctx, conn, err) != nil {
				return
			}
			continue
		}
		if _, err := sess.Apply(ev); err != nil {
			if s.sendError(ctx, conn, err) != nil {
				return
			}
			continue
		}
		if err := s.sendState(ctx, conn, sess); err != nil {
			return
		}

		if sess.Revision() == revision {
			continue
		}
		revision = sess.Revision()
		updated := sess.Document()
		if err := s.persist(ctx, id, updated); err != nil {
			logger.Warn("persist live edit", "err", err)
			if s.sendError(ctx, conn, err) != nil {
				return
			}
			continue
		}
		if err := s.send(ctx, conn, LiveMessage{Type: MessageDocument, Document: &updated}); err != nil {
			return
		}
	}
}

func (s *Server) persist(ctx context.Context, id string, doc graph.Document) error {
	unlock := s.lock(id)
	defer unlock()
	return s.store.Put(ctx, id, doc)
}

func (s *Server) sendState(ctx context.Context, conn *websocket.Conn, sess *session.Session) error {
	st := sess.State()
	return s.send(ctx, conn, LiveMessage{Type: MessageState, State: &st})
}

func (s *Server) sendError(ctx context.Context, conn *websocket.Conn, err error) error {
	body := toErrorBody(err)
	return s.send(ctx, conn, LiveMessage{Type: MessageError, Error: &body})
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, msg LiveMessage) error {
	writeCtx, cancel := context.WithTimeout(ctx, liveWriteWait)
	defer cancel()
	if err := wsjson.Write(writeCtx, conn, msg); err != nil {
		s.log.Debug("write error", "err", err)
		return err
	}
	return nil
}

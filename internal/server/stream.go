package server

import (
	"context"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/engine"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/internal/validator"
	"ctchen222/tictactoe/pkg/proto"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// handleStream upgrades the request and streams the session's updates to
// the client until either side goes away.
func (s *Server) handleStream(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleStream", trace.WithAttributes(
		attribute.String("session.id", c.Param("id")),
	))
	defer span.End()

	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session not found")
		response.AppErrorResponse(c, err)
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "session.id", sess.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	slog.InfoContext(ctx, "Stream opened", "session.id", sess.ID)
	newStream(sess, conn, heartbeatInterval).run(ctx)
	slog.InfoContext(ctx, "Stream closed", "session.id", sess.ID)
}

// stream serves one client of a session. Writes are serialized because
// the connection allows a single concurrent writer.
type stream struct {
	sess         *session.Session
	conn         Connection
	pingInterval time.Duration
	mu           sync.Mutex
}

func newStream(sess *session.Session, conn Connection, pingInterval time.Duration) *stream {
	return &stream{sess: sess, conn: conn, pingInterval: pingInterval}
}

func (st *stream) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer st.conn.Close()

	updates, unsubscribe := st.sess.Subscribe(ctx)
	defer unsubscribe()

	if err := st.send(proto.NewStateMessage(st.sess.Engine.State())); err != nil {
		slog.WarnContext(ctx, "Failed to send initial state", "session.id", st.sess.ID, "error", err)
		return
	}

	go st.writePump(ctx, updates)
	st.readPump(ctx)
}

// writePump forwards updates and keeps the connection alive. It closes the
// connection on exit, which also ends readPump.
func (st *stream) writePump(ctx context.Context, updates <-chan engine.Update) {
	ticker := time.NewTicker(st.pingInterval)
	defer func() {
		ticker.Stop()
		st.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				// Session closed or this client fell too far behind.
				_ = st.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream ended"))
				return
			}
			if err := st.send(proto.NewUpdateMessage(u)); err != nil {
				slog.WarnContext(ctx, "Failed to send update", "session.id", st.sess.ID, "error", err)
				return
			}
		case <-ticker.C:
			if err := st.write(websocket.PingMessage, nil); err != nil {
				slog.WarnContext(ctx, "Failed to send ping, assuming disconnect", "session.id", st.sess.ID, "error", err)
				return
			}
		}
	}
}

func (st *stream) readPump(ctx context.Context) {
	for {
		_, raw, err := st.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.WarnContext(ctx, "Client connection error", "session.id", st.sess.ID, "error", err)
			}
			return
		}
		st.handleMessage(ctx, raw)
	}
}

// handleMessage applies a client move. Accepted moves reach the client via
// the subscription; rejections are answered directly.
func (st *stream) handleMessage(ctx context.Context, raw []byte) {
	ctx, span := tracer.Start(ctx, "stream.handleMessage", trace.WithAttributes(
		attribute.String("session.id", st.sess.ID),
	))
	defer span.End()

	var msg proto.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		st.reply(ctx, proto.NewErrorMessage("malformed message"))
		return
	}
	if err := validator.GetValidator().Struct(msg); err != nil {
		span.SetStatus(codes.Error, "Invalid message format")
		st.reply(ctx, proto.NewErrorMessage(validator.Describe(err)))
		return
	}

	st.sess.Touch()
	span.SetAttributes(attribute.String("message.type", msg.Type), attribute.Int("game.cell", *msg.Cell))
	if _, err := st.sess.Engine.ApplyMove(ctx, *msg.Cell); err != nil {
		span.SetAttributes(attribute.Bool("move.valid", false))
		st.reply(ctx, proto.NewErrorMessage(err.Error()))
	}
}

func (st *stream) reply(ctx context.Context, msg proto.ServerMessage) {
	if err := st.send(msg); err != nil {
		slog.WarnContext(ctx, "Failed to reply to client", "session.id", st.sess.ID, "error", err)
	}
}

func (st *stream) send(msg proto.ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", msg.Type, err)
	}
	return st.write(websocket.TextMessage, data)
}

func (st *stream) write(messageType int, data []byte) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.conn.WriteMessage(messageType, data)
}

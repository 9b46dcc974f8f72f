// Package wsserver serves the UCI protocol over WebSocket. Every text
// message is fed to the engine as one or more command lines and every
// line the engine prints comes back as its own text message.
package wsserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"bitboard-engine/config"
	"bitboard-engine/uci"
)

const writeTimeoutDuration = 10 * time.Second

type Server struct {
	cfg            config.Config
	logger         *slog.Logger
	originPatterns []string

	sessionsLock sync.Mutex
	sessions     map[uuid.UUID]*session
}

type session struct {
	id        uuid.UUID
	conn      *websocket.Conn
	cancel    context.CancelFunc
	createdAt time.Time
}

// New builds a server. originPatterns is passed to websocket.Accept; nil
// allows only same-origin clients.
func New(cfg config.Config, logger *slog.Logger, originPatterns []string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:            cfg,
		logger:         logger,
		originPatterns: originPatterns,
		sessions:       make(map[uuid.UUID]*session),
	}
}

// Sessions is the number of open connections.
func (server *Server) Sessions() int {
	server.sessionsLock.Lock()
	defer server.sessionsLock.Unlock()
	return len(server.sessions)
}

func (server *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	conn, err := websocket.Accept(writer, req, &websocket.AcceptOptions{OriginPatterns: server.originPatterns})
	if err != nil {
		server.logger.Error("accept failed", slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()
	sess := &session{id: uuid.New(), conn: conn, cancel: cancel, createdAt: time.Now()}
	server.add(sess)
	defer server.remove(sess)

	logger := server.logger.With(slog.String("session", sess.id.String()))
	logger.Info("session opened", slog.String("remote", req.RemoteAddr))

	err = server.serve(ctx, sess, logger)
	switch status := websocket.CloseStatus(err); {
	case err == nil, errors.Is(err, context.Canceled),
		status == websocket.StatusNormalClosure, status == websocket.StatusGoingAway:
		conn.Close(websocket.StatusNormalClosure, "")
	default:
		logger.Error("session failed", slog.Any("error", err))
		conn.Close(websocket.StatusInternalError, "engine error")
	}
	logger.Info("session closed", slog.Duration("duration", time.Since(sess.createdAt)))
}

// serve pumps websocket messages into a fresh protocol handler until the
// client disconnects or sends "quit".
func (server *Server) serve(ctx context.Context, sess *session, logger *slog.Logger) error {
	pr, pw := io.Pipe()
	defer pr.Close()

	go func() {
		for {
			typ, data, err := sess.conn.Read(ctx)
			if err != nil {
				pw.CloseWithError(err)
				return
			}
			if typ != websocket.MessageText {
				continue
			}
			if _, err := pw.Write(append(data, '\n')); err != nil {
				return
			}
		}
	}()

	handler := uci.NewHandler(server.cfg, logger)
	return handler.Run(ctx, pr, &messageWriter{ctx: ctx, conn: sess.conn})
}

func (server *Server) add(sess *session) {
	server.sessionsLock.Lock()
	defer server.sessionsLock.Unlock()
	server.sessions[sess.id] = sess
}

func (server *Server) remove(sess *session) {
	server.sessionsLock.Lock()
	defer server.sessionsLock.Unlock()
	delete(server.sessions, sess.id)
}

// OnShutdown ends every open session. It is meant for http.Server.RegisterOnShutdown.
func (server *Server) OnShutdown() {
	server.sessionsLock.Lock()
	defer server.sessionsLock.Unlock()
	for _, sess := range server.sessions {
		sess.cancel()
	}
}

// messageWriter sends each Write as one text message. The protocol handler
// writes whole lines, so every line becomes a message.
type messageWriter struct {
	ctx  context.Context
	conn *websocket.Conn
}

func (w *messageWriter) Write(p []byte) (int, error) {
	msg := p
	if n := len(msg); n > 0 && msg[n-1] == '\n' {
		msg = msg[:n-1]
	}
	if err := writeTimeout(w.ctx, writeTimeoutDuration, w.conn, msg); err != nil {
		return 0, err
	}
	return len(p), nil
}

func writeTimeout(ctx context.Context, timeout time.Duration, wsConn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return wsConn.Write(ctx, websocket.MessageText, msg)
}

package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/tictactoe"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	NewGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)

	MakeTurn(ctx context.Context, id string, cell int) (*entity.Game, error)
	EngineFirst(ctx context.Context, id string) (*entity.Game, error)
	Reset(ctx context.Context, id string) (*entity.Game, error)
	Analyze(ctx context.Context, id string) ([]tictactoe.MoveScore, error)
}

type handlerFunc func(ctx context.Context, req *Request) (*Payload, error)

type Server struct {
	logger   *slog.Logger
	games    gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

// New builds the WebSocket server. An empty allowedOrigins accepts any origin.
func New(logger *slog.Logger, games gameUseCase, allowedOrigins []string) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		games:    games,
		handlers: make(map[string]handlerFunc),
	}

	server.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
		},
	}

	server.handlers[ActionNewGame] = server.handleNewGame
	server.handlers[ActionGetGame] = server.handleGetGame
	server.handlers[ActionTurn] = server.handleGameTurn
	server.handlers[ActionEngine] = server.handleEngineFirst
	server.handlers[ActionReset] = server.handleReset
	server.handlers[ActionAnalysis] = server.handleAnalysis

	return server
}

// Handler returns the /ws route.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	// hijacked connections are not closed by http.Server.Shutdown
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var response Response

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			response = Response{Action: ActionError, Payload: &Payload{Error: "malformed message"}}
		} else {
			response = that.dispatch(ctx, &message)
		}

		if err = conn.WriteJSON(response); err != nil {
			return fmt.Errorf("failed to send response: %w", err)
		}
	}
}

func (that *Server) dispatch(ctx context.Context, message *Message) Response {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		return Response{Action: message.Action, Payload: &Payload{Error: "unknown action"}}
	}

	req, err := decodeRequest(message.Payload)
	if err != nil {
		log.Warn("failed to decode payload", "error", err)
		return Response{Action: message.Action, Payload: &Payload{Error: "malformed payload"}}
	}

	payload, err := handler(ctx, req)
	if err != nil {
		log.Info("request rejected", "error", err)
		return Response{Action: message.Action, Payload: &Payload{Error: err.Error()}}
	}

	return Response{Action: message.Action, Payload: payload}
}

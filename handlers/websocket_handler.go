package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub            *brackets.Hub
	bracketService services.BracketService
	upgrader       websocket.Upgrader
	logger         *slog.Logger
}

// NewWebSocketHandler принимает список разрешённых Origin; "*" разрешает любой.
func NewWebSocketHandler(hub *brackets.Hub, bs services.BracketService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:            hub,
		bracketService: bs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ServeWs подключает клиента к комнате турнира и сразу отправляет текущую сетку.
// Клиент должен подключаться к /ws/tournaments/{tournamentID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// до апгрейда, чтобы вернуть нормальный HTTP статус
	if _, err := h.bracketService.Get(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту
		h.logger.Warn("websocket upgrade failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	roomID := brackets.RoomForTournament(tournamentID)
	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}
	if !h.hub.Join(client) {
		conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump()

	// Сетка читается уже после входа в комнату: более новые версии придут рассылкой.
	stored, err := h.bracketService.Get(r.Context(), tournamentID)
	if err != nil {
		h.logger.Error("failed to load bracket for websocket client", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		conn.Close()
		return
	}
	initial, err := json.Marshal(brackets.WebSocketMessage{
		Type:    brackets.MessageBracketUpdated,
		Payload: stored.Bracket,
		RoomID:  roomID,
	})
	if err != nil {
		h.logger.Error("failed to encode initial bracket", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		conn.Close()
		return
	}
	client.Push(initial)

	h.logger.Debug("websocket client joined", slog.String("room", roomID))
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWSServer(t *testing.T, bs services.BracketService, origins []string) (*httptest.Server, *brackets.Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := brackets.NewHub(nil)
	go hub.Run(ctx)

	router := chi.NewRouter()
	router.Get("/ws/tournaments/{tournamentID}", NewWebSocketHandler(hub, bs, origins, nil).ServeWs)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, hub
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestServeWsSendsCurrentBracket(t *testing.T) {
	b := brackets.BuildSingleElimination([]string{"A", "B"})
	srv, hub := newWSServer(t, &fakeBracketService{bracket: b}, []string{"*"})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/tournaments/3"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string           `json:"type"`
		Payload brackets.Bracket `json:"payload"`
		RoomID  string           `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, brackets.MessageBracketUpdated, msg.Type)
	assert.Equal(t, "tournament_3", msg.RoomID)
	assert.Equal(t, b, &msg.Payload)

	room := brackets.RoomForTournament(3)
	require.Eventually(t, func() bool { return hub.ClientCount(room) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.PublishBracket(context.Background(), 3, b))
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), brackets.MessageBracketUpdated)
}

// updatedBracketService отдаёт next на всех чтениях после первого, как если бы
// результат записали между проверкой турнира и входом клиента в комнату.
type updatedBracketService struct {
	*fakeBracketService
	next *brackets.Bracket

	mu    sync.Mutex
	calls int
}

func (s *updatedBracketService) Get(ctx context.Context, tournamentID int) (*models.StoredBracket, error) {
	s.mu.Lock()
	s.calls++
	calls := s.calls
	s.mu.Unlock()
	if calls > 1 {
		return &models.StoredBracket{TournamentID: tournamentID, Bracket: s.next, Version: 2}, nil
	}
	return s.fakeBracketService.Get(ctx, tournamentID)
}

func TestServeWsSendsBracketReadAfterJoin(t *testing.T) {
	old := brackets.BuildSingleElimination([]string{"A", "B"})
	next := old.Clone()
	_, err := next.RecordResult("m1", "B")
	require.NoError(t, err)
	srv, _ := newWSServer(t, &updatedBracketService{fakeBracketService: &fakeBracketService{bracket: old}, next: next}, []string{"*"})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/tournaments/3"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Payload brackets.Bracket `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	champion, ok := msg.Payload.Champion()
	require.True(t, ok)
	assert.Equal(t, "B", champion)
}

func TestServeWsRejects(t *testing.T) {
	srv, _ := newWSServer(t, &fakeBracketService{err: services.ErrBracketNotFound}, []string{"https://app.example"})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/tournaments/3"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "/ws/tournaments/abc"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://app.example")
	assert.True(t, check(req))
	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}

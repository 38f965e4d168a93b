package controller

import (
	"bytes"
	"ctchen222/tictactoe/internal/api/service"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/config"
	"ctchen222/tictactoe/internal/session"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

type gameExtras struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	Label     string `json:"label"`
	Message   string `json:"message"`
	State     struct {
		Board []string `json:"board"`
		Moves int      `json:"moves"`
	} `json:"state"`
	Result struct {
		Outcome string `json:"outcome"`
		Cell    int    `json:"cell"`
	} `json:"result"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newGameRouter(t *testing.T) *gin.Engine {
	t.Helper()
	manager := session.NewManager(session.Options{Strategy: bot.NewSeededCalculator(7, 8)})
	t.Cleanup(manager.Close)
	tokens := service.NewTokenService(config.Auth{TokenSecret: "secret", TokenTTL: time.Hour})
	gc := NewGameController(service.NewGameService(manager, tokens))

	r := gin.New()
	r.POST("/api/games", gc.Create)
	r.POST("/api/games/:id/new", gc.Restart)
	r.POST("/api/games/:id/moves", gc.Move)
	r.GET("/api/games/:id", gc.Get)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) (int, gameExtras) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	assert.Equal(t, w.Code, env.Code)
	assert.Equal(t, w.Code < 300, env.Success)

	var extras gameExtras
	require.NoError(t, json.Unmarshal(env.Extras, &extras))
	return w.Code, extras
}

const humansBody = `{"player1":{"name":"Alice","kind":"human"},"player2":{"name":"Bob","kind":"human"}}`

func TestGameController_Create(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{name: "humans", body: humansBody, wantCode: http.StatusCreated},
		{name: "malformed json", body: `{"player1":`, wantCode: http.StatusBadRequest},
		{name: "unknown kind", body: `{"player1":{"kind":"robot"},"player2":{"kind":"human"}}`, wantCode: http.StatusBadRequest, wantMsg: "player 1: kind must be one of [human computer]"},
		{name: "missing player", body: `{"player1":{"kind":"human"}}`, wantCode: http.StatusBadRequest, wantMsg: "player 2: kind is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newGameRouter(t)

			code, extras := do(t, r, http.MethodPost, "/api/games", tt.body)

			assert.Equal(t, tt.wantCode, code)
			if tt.wantCode == http.StatusCreated {
				assert.NotEmpty(t, extras.SessionID)
				assert.NotEmpty(t, extras.Token)
				assert.Equal(t, "Alice's turn", extras.Label)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, extras.Message, tt.wantMsg)
			}
		})
	}
}

func TestGameController_Moves(t *testing.T) {
	r := newGameRouter(t)
	_, created := do(t, r, http.MethodPost, "/api/games", humansBody)
	movesPath := "/api/games/" + created.SessionID + "/moves"

	code, extras := do(t, r, http.MethodPost, movesPath, `{"cell":0}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "accepted", extras.Result.Outcome)
	assert.Equal(t, "X", extras.State.Board[0])
	assert.Equal(t, "Bob's turn", extras.Label)

	code, extras = do(t, r, http.MethodPost, movesPath, `{"cell":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, extras.Message, "cell is already occupied")

	code, _ = do(t, r, http.MethodPost, movesPath, `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, extras = do(t, r, http.MethodGet, "/api/games/"+created.SessionID, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, extras.State.Moves)
}

func TestGameController_Win(t *testing.T) {
	r := newGameRouter(t)
	_, created := do(t, r, http.MethodPost, "/api/games", humansBody)
	movesPath := "/api/games/" + created.SessionID + "/moves"

	var extras gameExtras
	for _, cell := range []string{"0", "3", "1", "4", "2"} {
		var code int
		code, extras = do(t, r, http.MethodPost, movesPath, `{"cell":`+cell+`}`)
		require.Equal(t, http.StatusOK, code)
	}

	assert.Equal(t, "win", extras.Result.Outcome)
	assert.Equal(t, "Alice wins!", extras.Label)

	code, extras := do(t, r, http.MethodPost, movesPath, `{"cell":8}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, extras.Message, "game is not active")
}

func TestGameController_Restart(t *testing.T) {
	r := newGameRouter(t)
	_, created := do(t, r, http.MethodPost, "/api/games", humansBody)
	do(t, r, http.MethodPost, "/api/games/"+created.SessionID+"/moves", `{"cell":4}`)

	code, extras := do(t, r, http.MethodPost, "/api/games/"+created.SessionID+"/new",
		`{"player1":{"name":"Carol","kind":"human"},"player2":{"kind":"computer","difficulty":"easy"}}`)

	require.Equal(t, http.StatusOK, code)
	assert.Zero(t, extras.State.Moves)
	assert.Equal(t, "Carol's turn", extras.Label)
}

func TestGameController_UnknownSession(t *testing.T) {
	r := newGameRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "get", method: http.MethodGet, path: "/api/games/missing"},
		{name: "move", method: http.MethodPost, path: "/api/games/missing/moves", body: `{"cell":1}`},
		{name: "restart", method: http.MethodPost, path: "/api/games/missing/new", body: humansBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, extras := do(t, r, tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusNotFound, code)
			assert.Contains(t, extras.Message, "session not found")
		})
	}
}

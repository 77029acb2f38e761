package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/repository/memory"
	"github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/usecase"
	"github.com/Srekanthnamilakonda/Pookie/internal/modules/ledger"
	"github.com/Srekanthnamilakonda/Pookie/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init(logger.Config{Level: "error", Format: "console"})
}

func newTestRouter(duration time.Duration) (*gin.Engine, *ledger.MockService) {
	ledgerSvc := ledger.NewMockService()
	ledgerSvc.SetBalance("alice", 1000)
	ledgerSvc.SetBalance("bob", 1000)

	uc := usecase.NewBattleUseCase(memory.NewRoomRepository(), ledgerSvc, nil)
	uc.Duration = duration

	router := gin.New()
	NewHandler(uc).RegisterRoutes(router.Group("/api/battle"))
	return router, ledgerSvc
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func createAndJoin(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w, body := doJSON(t, router, http.MethodPost, "/api/battle/create",
		gin.H{"player": "alice", "wager": 2})
	require.Equal(t, http.StatusOK, w.Code)
	roomID := body["room_id"].(string)
	require.Len(t, roomID, 6)

	w, _ = doJSON(t, router, http.MethodPost, "/api/battle/join",
		gin.H{"room_id": roomID, "player": "bob", "wager": 3})
	require.Equal(t, http.StatusOK, w.Code)
	return roomID
}

func TestCreateValidation(t *testing.T) {
	router, _ := newTestRouter(time.Minute)

	w, _ := doJSON(t, router, http.MethodPost, "/api/battle/create", gin.H{"wager": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/battle/create",
		gin.H{"player": "alice", "wager": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJoinErrors(t *testing.T) {
	router, ledgerSvc := newTestRouter(time.Minute)
	ledgerSvc.SetBalance("carol", 1000)
	roomID := createAndJoin(t, router)

	w, _ := doJSON(t, router, http.MethodPost, "/api/battle/join",
		gin.H{"room_id": "nosuch", "player": "carol", "wager": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/battle/join",
		gin.H{"room_id": roomID, "player": "carol", "wager": 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/battle/join",
		gin.H{"room_id": roomID, "player": "bob", "wager": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateInsufficientFunds(t *testing.T) {
	router, ledgerSvc := newTestRouter(time.Minute)
	ledgerSvc.SetBalance("alice", 5)

	w, body := doJSON(t, router, http.MethodPost, "/api/battle/create",
		gin.H{"player": "alice", "wager": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "insufficient")
}

func TestReadyAndStatusFlow(t *testing.T) {
	router, _ := newTestRouter(time.Minute)
	roomID := createAndJoin(t, router)

	w, body := doJSON(t, router, http.MethodPost, "/api/battle/ready",
		gin.H{"room_id": roomID, "player": "alice", "wager": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", body["phase"])
	assert.Nil(t, body["end_time"])

	w, body = doJSON(t, router, http.MethodPost, "/api/battle/ready",
		gin.H{"room_id": roomID, "player": "bob", "wager": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", body["phase"])
	assert.NotEmpty(t, body["end_time"])

	w, body = doJSON(t, router, http.MethodGet, "/api/battle/status/"+roomID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", body["phase"])
	assert.Len(t, body["players"], 2)
	wagers := body["wagers"].(map[string]interface{})
	assert.Equal(t, float64(2), wagers["alice"])
	assert.Equal(t, float64(3), wagers["bob"])
}

func TestStatusUnknownRoom(t *testing.T) {
	router, _ := newTestRouter(time.Minute)

	w, _ := doJSON(t, router, http.MethodGet, "/api/battle/status/nosuch", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClickAndSettleFlow(t *testing.T) {
	router, ledgerSvc := newTestRouter(50 * time.Millisecond)
	roomID := createAndJoin(t, router)

	for _, player := range []string{"alice", "bob"} {
		w, _ := doJSON(t, router, http.MethodPost, "/api/battle/ready",
			gin.H{"room_id": roomID, "player": player, "wager": 2})
		require.Equal(t, http.StatusOK, w.Code)
	}

	for i := 0; i < 4; i++ {
		w, body := doJSON(t, router, http.MethodPost, "/api/battle/click",
			gin.H{"room_id": roomID, "player": "alice"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(i+1), body["score"])
	}

	// Settling mid-window is rejected
	w, _ := doJSON(t, router, http.MethodPost, "/api/battle/settle", gin.H{"room_id": roomID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	time.Sleep(80 * time.Millisecond)

	// Clicks after the window bounce
	w, _ = doJSON(t, router, http.MethodPost, "/api/battle/click",
		gin.H{"room_id": roomID, "player": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := doJSON(t, router, http.MethodPost, "/api/battle/settle", gin.H{"room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", body["winner"])
	scores := body["scores"].(map[string]interface{})
	assert.Equal(t, float64(4), scores["alice"])
	assert.Equal(t, float64(0), scores["bob"])

	balance, _ := ledgerSvc.GetBalance(context.Background(), "alice")
	assert.Equal(t, int64(1020), balance)
}

func TestSettleTieReturnsNullWinner(t *testing.T) {
	router, _ := newTestRouter(50 * time.Millisecond)
	roomID := createAndJoin(t, router)

	for _, player := range []string{"alice", "bob"} {
		w, _ := doJSON(t, router, http.MethodPost, "/api/battle/ready",
			gin.H{"room_id": roomID, "player": player, "wager": 1})
		require.Equal(t, http.StatusOK, w.Code)
	}
	time.Sleep(80 * time.Millisecond)

	w, body := doJSON(t, router, http.MethodPost, "/api/battle/settle", gin.H{"room_id": roomID})
	require.Equal(t, http.StatusOK, w.Code)

	winner, present := body["winner"]
	assert.True(t, present)
	assert.Nil(t, winner)
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aisum/pkg/history"
	"aisum/pkg/models"
	"aisum/pkg/summarize"
	"aisum/pkg/wallet"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

type stubProvider struct{}

func (stubProvider) Activate(ctx context.Context) (string, error) { return "0xA", nil }
func (stubProvider) Deactivate() error                            { return nil }
func (stubProvider) BalanceAt(ctx context.Context, account string) (*big.Int, error) {
	return big.NewInt(1e18), nil
}
func (stubProvider) SendTransfer(ctx context.Context, to string, amountWei *big.Int) (string, error) {
	return "0xhash", nil
}
func (stubProvider) WaitMined(ctx context.Context, txHash string) error { return nil }

func newTestServer(backendURL string) *Server {
	logger := log.New(io.Discard, "", 0)
	session := wallet.NewSession(stubProvider{}, logger)
	tracker := wallet.NewTracker(session, 4, logger)
	cache := history.NewCache()
	client := summarize.NewClient(backendURL)
	return NewServer(session, tracker, cache, client)
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer("http://backend.invalid")

	req, _ := http.NewRequest("GET", "/api/status", nil)
	rr := httptest.NewRecorder()

	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Contains(t, resp, "wallet")
	assert.Contains(t, resp, "balance")
	assert.Contains(t, resp, "history")

	w, ok := resp["wallet"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "disconnected", w["state"])
}

func TestHandleSummarize(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/summarize_wiki", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"summary": "An answer."})
	}))
	defer backend.Close()

	s := newTestServer(backend.URL)

	body, _ := json.Marshal(models.Query{Mode: models.ModeWikipedia, Text: "what is go"})
	req, _ := http.NewRequest("POST", "/api/summarize", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "An answer.", resp["summary"])

	entries := s.cache.List()
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, models.ModeWikipedia, entries[0].Mode)
}

func TestHandleSummarize_BadRequests(t *testing.T) {
	s := newTestServer("http://backend.invalid")

	req, _ := http.NewRequest("GET", "/api/summarize", nil)
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	body, _ := json.Marshal(models.Query{Mode: "rss", Text: "x"})
	req, _ = http.NewRequest("POST", "/api/summarize", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	body, _ = json.Marshal(models.Query{Mode: models.ModeYouTube, Text: "  "})
	req, _ = http.NewRequest("POST", "/api/summarize", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleSummarize_BackendFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()

	s := newTestServer(backend.URL)

	body, _ := json.Marshal(models.Query{Mode: models.ModeYouTube, Text: "u"})
	req, _ := http.NewRequest("POST", "/api/summarize", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, 0, s.cache.Len())
}

func TestHandleWS(t *testing.T) {
	s := newTestServer("http://backend.invalid")
	server := httptest.NewServer(s.mux)
	defer server.Close()

	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	ws, _, err := websocket.DefaultDialer.Dial(u, nil)
	assert.NoError(t, err)
	defer func() { _ = ws.Close() }()

	var msg map[string]interface{}
	err = ws.ReadJSON(&msg)
	assert.NoError(t, err)
	assert.Equal(t, "initial", msg["type"])
}

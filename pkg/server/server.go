// Package server is the optional headless mode: it exposes the
// summarizer, history and wallet state over HTTP and pushes wallet
// events to websocket clients.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"aisum/pkg/history"
	"aisum/pkg/models"
	"aisum/pkg/summarize"
	"aisum/pkg/wallet"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	session *wallet.Session
	tracker *wallet.Tracker
	cache   *history.Cache
	client  *summarize.Client

	clients map[*websocket.Conn]bool
	mu      sync.Mutex
	mux     *http.ServeMux
}

func NewServer(session *wallet.Session, tracker *wallet.Tracker, cache *history.Cache, client *summarize.Client) *Server {
	s := &Server{
		session: session,
		tracker: tracker,
		cache:   cache,
		client:  client,
		clients: make(map[*websocket.Conn]bool),
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/summarize", s.handleSummarize)
	s.mux.HandleFunc("/ws", s.handleWS)
}

func (s *Server) Start(port int) error {
	go s.listenToWallet()

	fmt.Printf("API Server listening on :%d\n", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s.mux)
}

func (s *Server) statusPayload() map[string]interface{} {
	var balance interface{}
	if v := s.tracker.View(); v != nil {
		balance = v
	}
	return map[string]interface{}{
		"wallet": map[string]interface{}{
			"state":   s.session.State().String(),
			"account": s.session.Account(),
		},
		"balance": balance,
		"history": s.cache.List(),
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(s.statusPayload())
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var q models.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if q.Mode != models.ModeYouTube && q.Mode != models.ModeWikipedia {
		http.Error(w, "unknown mode", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(q.Text) == "" {
		http.Error(w, "empty query", http.StatusBadRequest)
		return
	}

	summary, err := s.client.Summarize(r.Context(), q)
	if err != nil {
		http.Error(w, "summarization failed", http.StatusBadGateway)
		return
	}

	s.cache.Record(models.HistoryEntry{Mode: q.Mode, Text: q.Text})
	s.broadcast(map[string]interface{}{"type": "summary", "data": map[string]string{"summary": summary}})
	_ = json.NewEncoder(w).Encode(map[string]string{"summary": summary})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	initialData := map[string]interface{}{
		"type": "initial",
		"data": s.statusPayload(),
	}
	_ = conn.WriteJSON(initialData)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) listenToWallet() {
	sub := s.session.Subscribe()
	defer s.session.Unsubscribe(sub)

	for event := range sub {
		s.broadcast(map[string]interface{}{"type": string(event.Type), "data": event.Data})
	}
}

func (s *Server) broadcast(msg interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		if err := client.WriteJSON(msg); err != nil {
			_ = client.Close()
			delete(s.clients, client)
		}
	}
}

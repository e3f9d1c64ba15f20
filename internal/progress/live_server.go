package progress

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// LiveServer broadcasts Report updates to any number of connected browsers,
// for the CLI's optional --watch flag. It generalizes the teacher's
// internal/network websocket server down to a single broadcast channel —
// there is no client-to-server message handling, only fan-out.
type LiveServer struct {
	addr     string
	upgrader websocket.Upgrader
	server   *http.Server

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewLiveServer returns a LiveServer that will listen on addr once Start is
// called.
func NewLiveServer(addr string) *LiveServer {
	return &LiveServer{
		addr:     addr,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:  map[*websocket.Conn]struct{}{},
	}
}

// Start launches the HTTP server in the background. Call Shutdown to stop
// it.
func (s *LiveServer) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/progress", s.handleConn)
	s.server = &http.Server{Addr: s.addr, Handler: mux}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("progress: live server stopped: %v", err)
		}
	}()
	return nil
}

func (s *LiveServer) handleConn(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	// The connection is write-only from the server's perspective; block
	// reading so gorilla's ping/pong handling and close detection fire.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends r as JSON to every connected client. A write failure
// drops that client silently; it will be pruned on its next read error.
func (s *LiveServer) Broadcast(r *Report) {
	payload, err := json.Marshal(r)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		_ = conn.WriteMessage(websocket.TextMessage, payload)
	}
}

// Shutdown stops the HTTP server.
func (s *LiveServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

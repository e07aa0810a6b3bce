package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/campusml/tabot/pkg/pipeline"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

type Message struct {
	Type    string      `json:"type"`
	Content string      `json:"content"`
	Data    interface{} `json:"data,omitempty"`
}

// Server exposes the QA pipeline over a WebSocket endpoint. Queries on one
// connection are answered in order; the pipeline holds no cross-query state.
type Server struct {
	pipeline *pipeline.Pipeline
}

func New(p *pipeline.Pipeline) *Server {
	return &Server{pipeline: p}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Error reading message: %v", err)
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		s.handleMessage(r.Context(), conn, msg)
	}
}

func (s *Server) handleMessage(ctx context.Context, conn *websocket.Conn, msg Message) {
	if msg.Type != "query" {
		s.send(conn, Message{Type: "error", Content: fmt.Sprintf("unsupported message type: %s", msg.Type)})
		return
	}

	answer, err := s.pipeline.Answer(ctx, msg.Content)
	if err != nil {
		s.send(conn, Message{Type: "error", Content: fmt.Sprintf("Error: %v", err)})
		return
	}

	s.send(conn, Message{
		Type:    "answer",
		Content: answer.Text,
		Data: map[string]interface{}{
			"decision": answer.Decision,
			"sources":  answer.Sources,
		},
	})
}

func (s *Server) send(conn *websocket.Conn, msg Message) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// ListenAndServe serves the WebSocket endpoint plus a health check.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	log.Printf("Starting WebSocket server on %s", addr)
	return http.ListenAndServe(addr, mux)
}

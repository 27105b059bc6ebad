package net

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	applog "dotmatrix/internal/log"
)

const (
	writeWait  = 5 * time.Second
	peerBuffer = 4
)

// peer is one connected viewer. Frames are queued and written by its own
// goroutine so a slow viewer never blocks the editor.
type peer struct {
	conn *websocket.Conn
	out  chan []byte
}

// Hub fans board snapshots out to websocket viewers. Every message carries
// the full board, so a viewer that falls behind just skips frames.
type Hub struct {
	upgrader websocket.Upgrader
	log      *slog.Logger

	mu     sync.RWMutex
	peers  map[*peer]struct{}
	latest []byte
	closed bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// viewers are other machines on the LAN, not browser pages
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:   applog.With("hub"),
		peers: make(map[*peer]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the viewer attached until it
// disconnects. The latest snapshot is sent immediately.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	p := &peer{conn: conn, out: make(chan []byte, peerBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.peers[p] = struct{}{}
	if h.latest != nil {
		p.out <- h.latest
	}
	h.mu.Unlock()
	h.log.Info("viewer connected", "remote", conn.RemoteAddr().String())

	go h.writeLoop(p)
	// viewers are read-only; reading only detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(p)
	h.log.Info("viewer disconnected", "remote", conn.RemoteAddr().String())
}

func (h *Hub) writeLoop(p *peer) {
	for data := range p.out {
		_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warn("write failed", "remote", p.conn.RemoteAddr().String(), "err", err)
			p.conn.Close()
			return
		}
	}
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	p.conn.Close()
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p]; ok {
		delete(h.peers, p)
		close(p.out)
	}
}

// Publish sends m to every viewer and keeps it for late joiners.
func (h *Hub) Publish(m Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data
	for p := range h.peers {
		select {
		case p.out <- data:
		default:
			// queue full: drop the oldest frame, the new one supersedes it
			select {
			case <-p.out:
			default:
			}
			p.out <- data
		}
	}
	return nil
}

// Peers returns the number of attached viewers.
func (h *Hub) Peers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Close detaches every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for p := range h.peers {
		delete(h.peers, p)
		close(p.out)
	}
}

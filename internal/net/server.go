package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/mdns"

	applog "dotmatrix/internal/log"
	"dotmatrix/internal/state"
)

// LinkScheme prefixes share links, e.g. dotmatrix://192.168.1.20:8888.
const LinkScheme = "dotmatrix://"

// Path is the websocket endpoint of a mirror.
const Path = "/ws"

// Server publishes one board to LAN viewers.
type Server struct {
	hub      *Hub
	http     *http.Server
	listener net.Listener
	mdns     *mdns.Server
}

// Listen starts a mirror on port (0 picks a free one). With advertise set
// the mirror is announced over mDNS; a failure there is logged, not fatal.
func Listen(port int, advertiseMDNS bool) (*Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", port, err)
	}
	hub := NewHub()
	mux := http.NewServeMux()
	mux.Handle(Path, hub)
	s := &Server{
		hub:      hub,
		listener: ln,
		http:     &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
	}
	log := applog.With("mirror")
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("serve failed", "err", err)
		}
	}()
	if advertiseMDNS {
		if s.mdns, err = advertise(s.Port()); err != nil {
			log.Warn("mdns advertise failed", "err", err)
		}
	}
	log.Info("mirror listening", "link", s.Link())
	return s, nil
}

func (s *Server) Hub() *Hub { return s.hub }

// Port is the TCP port actually bound.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Link is the share link viewers open.
func (s *Server) Link() string {
	return fmt.Sprintf("%s%s:%d", LinkScheme, LocalIPv4(), s.Port())
}

// Follow publishes a snapshot of board on every change.
func (s *Server) Follow(board *state.Board) {
	publish := func() {
		if err := s.hub.Publish(SnapshotMessage(board.Session(), board.Snapshot())); err != nil {
			applog.With("mirror").Warn("publish failed", "err", err)
		}
	}
	board.Subscribe(func(state.Change) { publish() })
	publish()
}

// Close stops advertising, detaches viewers and shuts the listener down.
func (s *Server) Close() error {
	if s.mdns != nil {
		_ = s.mdns.Shutdown()
	}
	s.hub.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// ParseLink extracts host:port from a share link.
func ParseLink(link string) (string, error) {
	if !strings.HasPrefix(link, LinkScheme) {
		return "", fmt.Errorf("not a %s link: %q", LinkScheme, link)
	}
	addr := strings.TrimSuffix(strings.TrimPrefix(link, LinkScheme), "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("share link %q: %w", link, err)
	}
	return addr, nil
}

// Package net hosts boards for browser clients over websockets and finds
// board hosts on the LAN.
package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"LocalBoard/internal/element"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/render/svg"
	"LocalBoard/internal/style"
	"LocalBoard/internal/tool"
	"LocalBoard/internal/whiteboard"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	retryFrame     = 16 * time.Millisecond
	maxMessageSize = 1 << 20
)

// Message is the JSON envelope exchanged with browser clients.
//
// Client to server types: "activate" (Tool), "pointer_down", "pointer_move",
// "pointer_up" (X, Y, Device), "key_down", "key_up" (Key), "style" (Style),
// "load" (Scene), "snapshot". Server to client types: "hello" (Owner),
// "svg" (SVG), "snapshot" (Scene), "error" (Error).
type Message struct {
	Type   string          `json:"type"`
	Tool   string          `json:"tool,omitempty"`
	X      float64         `json:"x,omitempty"`
	Y      float64         `json:"y,omitempty"`
	Device string          `json:"device,omitempty"`
	Key    string          `json:"key,omitempty"`
	Style  *style.Shape    `json:"style,omitempty"`
	Scene  json.RawMessage `json:"scene,omitempty"`
	SVG    string          `json:"svg,omitempty"`
	Owner  string          `json:"owner,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Peer is one connected browser client and the board it draws on.
type Peer struct {
	ID    string
	Conn  *websocket.Conn
	Board *whiteboard.Whiteboard

	svg   *svg.Renderer
	dirty chan struct{}
	out   chan Message
	done  chan struct{}
	once  sync.Once
	log   *zap.Logger
}

// PeerManager tracks the connected peers.
type PeerManager struct {
	peers map[string]*Peer
	mu    sync.RWMutex
}

// NewPeerManager creates a new manager.
func NewPeerManager() *PeerManager {
	return &PeerManager{peers: make(map[string]*Peer)}
}

// Add registers a peer.
func (pm *PeerManager) Add(p *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peers[p.ID] = p
}

// Remove forgets a peer.
func (pm *PeerManager) Remove(id string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.peers, id)
}

// Len returns the number of connected peers.
func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// CloseAll disconnects every peer.
func (pm *PeerManager) CloseAll() {
	pm.mu.RLock()
	peers := make([]*Peer, 0, len(pm.peers))
	for _, p := range pm.peers {
		peers = append(peers, p)
	}
	pm.mu.RUnlock()
	for _, p := range peers {
		p.close()
	}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithBoardOptions applies opts to every board the server creates.
func WithBoardOptions(opts ...whiteboard.Option) ServerOption {
	return func(s *Server) { s.boardOpts = append(s.boardOpts, opts...) }
}

// WithCanvasSize sets the size of the SVG documents sent to clients.
func WithCanvasSize(width, height float64) ServerOption {
	return func(s *Server) { s.width, s.height = width, height }
}

// WithCheckOrigin replaces the websocket origin check.
func WithCheckOrigin(fn func(*http.Request) bool) ServerOption {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// Server gives each websocket connection its own board.
type Server struct {
	Peers *PeerManager

	upgrader  websocket.Upgrader
	boardOpts []whiteboard.Option
	width     float64
	height    float64
	log       *zap.Logger
}

// NewServer returns a server with no peers.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		Peers:    NewPeerManager(),
		upgrader: websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
		width:    1024,
		height:   768,
		log:      logging.L().Named("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler routes /ws to the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "ok %d\n", s.Peers.Len())
	})
	return mux
}

// Serve accepts connections on l until ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		s.Peers.CloseAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Info("board host listening", zap.Stringer("addr", l.Addr()))
	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, l)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	owner := r.URL.Query().Get("owner")
	if owner == "" {
		owner = uuid.NewString()
	}
	p := &Peer{
		ID:    uuid.NewString(),
		Conn:  conn,
		Board: whiteboard.New(owner, s.boardOpts...),
		svg:   svg.New(svg.WithSize(s.width, s.height)),
		dirty: make(chan struct{}, 1),
		out:   make(chan Message, 16),
		done:  make(chan struct{}),
		log:   s.log.With(zap.String("peer", conn.RemoteAddr().String()), zap.String("owner", owner)),
	}
	p.Board.OnChange(p.markDirty)
	s.Peers.Add(p)
	p.log.Info("client connected")

	go p.writeLoop()
	p.send(Message{Type: "hello", Owner: owner})
	p.markDirty()
	p.readLoop()

	s.Peers.Remove(p.ID)
	p.close()
	p.Board.Close()
	p.log.Info("client disconnected")
}

func (p *Peer) markDirty() {
	select {
	case p.dirty <- struct{}{}:
	default:
	}
}

func (p *Peer) send(m Message) {
	select {
	case p.out <- m:
	case <-p.done:
	}
}

func (p *Peer) close() {
	p.once.Do(func() {
		close(p.done)
		_ = p.Conn.Close()
	})
}

func (p *Peer) readLoop() {
	p.Conn.SetReadLimit(maxMessageSize)
	_ = p.Conn.SetReadDeadline(time.Now().Add(pongWait))
	p.Conn.SetPongHandler(func(string) error {
		return p.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var m Message
		if err := p.Conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.log.Warn("read failed", zap.Error(err))
			}
			return
		}
		if err := p.handle(m); err != nil {
			p.log.Debug("message rejected", zap.String("type", m.Type), zap.Error(err))
			p.send(Message{Type: "error", Error: err.Error()})
		}
	}
}

// handle applies one client message to the peer's board.
func (p *Peer) handle(m Message) error {
	b := p.Board
	switch m.Type {
	case "activate":
		return activate(b, m.Tool)
	case "pointer_down":
		b.PointerDown(m.X, m.Y, tool.ParseDevice(m.Device))
	case "pointer_move":
		b.PointerMove(m.X, m.Y, tool.ParseDevice(m.Device))
	case "pointer_up":
		b.PointerUp(m.X, m.Y, tool.ParseDevice(m.Device))
	case "key_down":
		b.KeyDown(m.Key)
	case "key_up":
		b.KeyUp(m.Key)
	case "style":
		if m.Style == nil {
			return errors.New("style message without style")
		}
		b.SetStyle(*m.Style)
	case "load":
		return b.Load(m.Scene)
	case "snapshot":
		data, err := b.Snapshot()
		if err != nil {
			return err
		}
		p.send(Message{Type: "snapshot", Scene: data})
	default:
		return fmt.Errorf("unknown message type %q", m.Type)
	}
	return nil
}

// activate selects a tool by name: "select" or an element kind.
func activate(b *whiteboard.Whiteboard, name string) error {
	if name == "select" {
		b.ActivateSelectTool()
		return nil
	}
	k, err := element.ParseKind(name)
	if err != nil {
		return err
	}
	if k == element.KindPolygon {
		return b.ActivateClickDraw(k)
	}
	return b.ActivateMoveDraw(k)
}

// writeLoop is the connection's only writer.
func (p *Peer) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	var retry <-chan time.Time

	for {
		select {
		case <-p.done:
			return
		case m := <-p.out:
			if err := p.write(m); err != nil {
				p.close()
				return
			}
		case <-p.dirty:
			retry = p.pushSVG()
		case <-retry:
			retry = p.pushSVG()
		case <-ping.C:
			_ = p.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.close()
				return
			}
		}
	}
}

// pushSVG sends the board's markup. A frame skipped because the board was
// busy is retried shortly.
func (p *Peer) pushSVG() <-chan time.Time {
	if !p.Board.RenderSVG(p.svg) {
		return time.After(retryFrame)
	}
	if err := p.write(Message{Type: "svg", SVG: p.svg.String()}); err != nil {
		p.close()
	}
	return nil
}

func (p *Peer) write(m Message) error {
	_ = p.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := p.Conn.WriteJSON(m); err != nil {
		p.log.Warn("write failed", zap.Error(err))
		return err
	}
	return nil
}

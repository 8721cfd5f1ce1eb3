// Package feed streams keypad events to websocket clients.
package feed

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/mikeyg123/pi-alarm/pkg/framework"
	"github.com/mikeyg123/pi-alarm/pkg/msgs"
)

// DefaultQueueSize is the number of frames buffered per client.
const DefaultQueueSize = 16

// EventsPath is where the Server mounts the Hub.
const EventsPath = "/events"

// Hub broadcasts events as binary typed frames to all connected clients.
// A client whose queue is full is dropped.
type Hub struct {
	QueueSize int

	lock    sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	ch   chan []byte
	addr string
}

// NewHub creates a Hub.
func NewHub() *Hub {
	return &Hub{QueueSize: DefaultQueueSize}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}

// SendEvent implements EventSender. It never blocks on clients.
func (h *Hub) SendEvent(ctx context.Context, msg fx.Message) error {
	data, err := msgs.Encode(msg)
	if err != nil {
		return err
	}
	h.lock.Lock()
	defer h.lock.Unlock()
	for c := range h.clients {
		select {
		case c.ch <- data:
		default:
			glog.Warningf("feed: client %s too slow, dropped", c.addr)
			h.remove(c)
		}
	}
	return nil
}

func (h *Hub) add(addr string) *client {
	size := h.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	c := &client{ch: make(chan []byte, size), addr: addr}
	h.lock.Lock()
	if h.clients == nil {
		h.clients = make(map[*client]struct{})
	}
	h.clients[c] = struct{}{}
	h.lock.Unlock()
	return c
}

// remove must be called with lock held.
func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.ch)
	}
}

func (h *Hub) drop(c *client) {
	h.lock.Lock()
	h.remove(c)
	h.lock.Unlock()
}

// Handler serves a websocket connection until the client goes away.
func (h *Hub) Handler() websocket.Handler {
	return func(conn *websocket.Conn) {
		c := h.add(conn.Request().RemoteAddr)
		glog.V(2).Infof("feed: client %s connected", c.addr)
		go func() {
			io.Copy(ioutil.Discard, conn)
			h.drop(c)
		}()
		for data := range c.ch {
			if err := websocket.Message.Send(conn, data); err != nil {
				glog.V(2).Infof("feed: client %s: %v", c.addr, err)
				h.drop(c)
				break
			}
		}
		glog.V(2).Infof("feed: client %s disconnected", c.addr)
	}
}

// Server serves the Hub over HTTP.
type Server struct {
	Addr string
	Hub  *Hub
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun("feed", s))
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(EventsPath, s.Hub.Handler())
	srv := &http.Server{Addr: s.Addr, Handler: mux}
	glog.Infof("feed: listening on %s", s.Addr)
	return fx.RunWithContextCloser(ctx, srv, srv.ListenAndServe)
}

// Package server answers EEC and loss queries over a websocket.
package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/edp1096/toy-machine/pkg/simulation"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	sim      *simulation.Simulation

	mu sync.Mutex // serialises requests on sim
}

func NewServer(addr string, sim *simulation.Simulation) *Server {
	return &Server{
		addr: addr,
		sim:  sim,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log.WithField("remote", conn.RemoteAddr().String()).Info("client connected")

	hub := NewHub(r.Context(), s, conn)
	done := make(chan struct{})
	go hub.handleRequest()
	go hub.handleResponse(done)

	for {
		var msg Msg
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("websocket read ended")
			}
			break
		}
		hub.msg <- msg
	}

	close(hub.msg)
	<-done
	log.WithField("remote", conn.RemoteAddr().String()).Info("client disconnected")
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

func (s *Server) Serve() error {
	log.WithField("addr", s.addr).Info("listening")
	return http.ListenAndServe(s.addr, s.Handler())
}

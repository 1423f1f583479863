package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/edp1096/toy-machine/pkg/eec"
	"github.com/edp1096/toy-machine/pkg/loss"
)

// Hub serves one websocket connection: requests are handled in arrival
// order and replies written by a single writer.
type Hub struct {
	s    *Server
	conn *websocket.Conn
	ctx  context.Context
	// request
	msg chan Msg
	// response
	reply chan Msg
}

func NewHub(ctx context.Context, s *Server, conn *websocket.Conn) *Hub {
	return &Hub{
		s:     s,
		conn:  conn,
		ctx:   ctx,
		msg:   make(chan Msg, 10),
		reply: make(chan Msg, 10),
	}
}

func (h *Hub) handleRequest() {
	defer close(h.reply)
	for msg := range h.msg {
		h.reply <- h.s.dispatch(h.ctx, msg)
	}
}

func (h *Hub) handleResponse(done chan<- struct{}) {
	defer close(done)
	for reply := range h.reply {
		if err := h.conn.WriteJSON(&reply); err != nil {
			log.WithError(err).Warn("websocket write failed")
		}
	}
}

type eecReply struct {
	OP     OPRequest  `json:"op"`
	Params eec.Params `json:"params"`
}

func errorMsg(err error) Msg {
	return Msg{Type: "error", Content: err.Error()}
}

func contentMsg(typ string, v any) Msg {
	data, err := json.Marshal(v)
	if err != nil {
		return errorMsg(fmt.Errorf("encoding %s reply: %v", typ, err))
	}
	return Msg{Type: typ, Content: string(data)}
}

// dispatch runs one request against the shared simulation.
func (s *Server) dispatch(ctx context.Context, msg Msg) Msg {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case "eec":
		if msg.OP == nil {
			return errorMsg(fmt.Errorf("eec request needs an op"))
		}
		if s.sim.LUT == nil {
			return errorMsg(fmt.Errorf("simulation has no reference table"))
		}
		op, err := eec.NewOperatingPoint(msg.OP.Id, msg.OP.Iq, msg.OP.N0)
		if err != nil {
			return errorMsg(err)
		}

		s.sim.SetOP(op)
		if err := s.sim.EEC.UpdateFromRef(s.sim.LUT); err != nil {
			return errorMsg(err)
		}
		return contentMsg("eec", eecReply{OP: *msg.OP, Params: s.sim.EEC.Params})

	case "loss":
		out, err := s.sim.Loss.CompLoss(ctx, s.sim.Machine, s.sim.MeshProvider(), s.sim.Freqs)
		if err != nil {
			return errorMsg(err)
		}
		return contentMsg("loss", lossReply(out))

	default:
		return errorMsg(fmt.Errorf("no such type: %s", msg.Type))
	}
}

type lossContent struct {
	*loss.Output
	Total float64 `json:"total"`
}

func lossReply(out *loss.Output) lossContent {
	return lossContent{Output: out, Total: out.TotalPower("")}
}

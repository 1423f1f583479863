package server

// Msg is both request and reply. Replies carry their payload as a JSON
// string in Content.
type Msg struct {
	Type    string     `json:"type"`
	OP      *OPRequest `json:"op,omitempty"`
	Content string     `json:"content,omitempty"`
}

type OPRequest struct {
	Id float64 `json:"id"`
	Iq float64 `json:"iq"`
	N0 float64 `json:"n0"`
}

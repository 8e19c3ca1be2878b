package server

import (
	"encoding/json"
	"time"
)

const MessageTypeChat = "chat"

// ClientMessage is an inbound frame from a connected user. Any
// client-supplied timestamp is ignored; the server stamps messages at
// broadcast time.
type ClientMessage struct {
	Type    string `json:"type"`
	Sender  int    `json:"sender"`
	Content string `json:"content"`
}

// ServerMessage is an outbound frame delivered to every live
// connection in the course room.
type ServerMessage struct {
	Type      string    `json:"type"`
	Sender    int       `json:"sender"`
	Content   string    `json:"content"`
	CourseId  int       `json:"courseId"`
	Timestamp time.Time `json:"timestamp"`
}

func serializeMessage(msg *ServerMessage) ([]byte, error) {
	return json.Marshal(msg)
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}

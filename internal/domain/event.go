package domain

import "encoding/json"

// Frame types exchanged over the notification socket.
const (
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
	FrameCreated     = "created"
	FrameError       = "error"
)

// Frame is a client request or a server notification.
type Frame struct {
	Type   string  `json:"type"`
	Table  string  `json:"table,omitempty"`
	Record *Record `json:"record,omitempty"`
}

// ErrorFrame reports an error to the subscriber.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Encode serializes a value to JSON bytes.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeFrame deserializes JSON bytes into a Frame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	err := json.Unmarshal(data, &f)
	return f, err
}

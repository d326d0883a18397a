package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// MessageTable is the table the board reads from and writes to.
const MessageTable = "Message"

// Text is the optional text field of a stored object. The zero value is absent.
type Text struct {
	value string
	ok    bool
}

// SomeText returns a present text field.
func SomeText(s string) Text {
	return Text{value: s, ok: true}
}

// NoText returns an absent (null) text field.
func NoText() Text {
	return Text{}
}

// Get returns the text and whether it is present.
func (t Text) Get() (string, bool) {
	return t.value, t.ok
}

// Valid reports whether the text is present.
func (t Text) Valid() bool {
	return t.ok
}

// Ptr returns nil for an absent text. Used by the SQL layer.
func (t Text) Ptr() *string {
	if !t.ok {
		return nil
	}
	v := t.value
	return &v
}

// TextFromPtr is the inverse of Ptr.
func TextFromPtr(p *string) Text {
	if p == nil {
		return NoText()
	}
	return SomeText(*p)
}

// MarshalJSON encodes an absent text as null.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.ok {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}

// UnmarshalJSON accepts a JSON string or null.
func (t *Text) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = NoText()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = SomeText(s)
	return nil
}

// Record is an object as held by the table service.
type Record struct {
	ID        string    `json:"objectId"`
	Text      Text      `json:"Text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is a record whose text is known to be present.
type Message struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Fields is the payload of a create call.
type Fields struct {
	Text Text `json:"Text"`
}

// Created is the response body of a create call.
type Created struct {
	ID        string    `json:"objectId"`
	CreatedAt time.Time `json:"createdAt"`
}

// QueryResult is the response body of a query-all call.
type QueryResult struct {
	Results []Record `json:"results"`
}

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/devaloi/msgboard/internal/domain"
)

// Subscribe streams created notifications of table to onCreated until ctx is done
// or the connection drops. It returns nil when ctx ends the subscription.
func (c *Client) Subscribe(ctx context.Context, table, user string, onCreated func(domain.Record)) error {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws?user=" + url.QueryEscape(user)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	sub, err := domain.Encode(domain.Frame{Type: domain.FrameSubscribe, Table: table})
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, sub); err != nil {
		return fmt.Errorf("subscribe %s: %w", table, err)
	}

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read notifications: %w", err)
		}
		f, err := domain.DecodeFrame(data)
		if err != nil {
			c.log.Warn("Ignoring malformed frame", "error", err)
			continue
		}
		switch f.Type {
		case domain.FrameCreated:
			if f.Record != nil && f.Table == table {
				onCreated(*f.Record)
			}
		case domain.FrameError:
			var ef domain.ErrorFrame
			if err := json.Unmarshal(data, &ef); err == nil {
				return errors.New("table service: " + ef.Message)
			}
		}
	}
}

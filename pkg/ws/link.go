package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var errLinkClosed = errors.New("channel closed")
var errSendTimeout = errors.New("send buffer full")

// Link is one live channel as the manager sees it. Tests substitute fakes.
type Link interface {
	// Push hands data to the channel's writer, waiting at most timeout.
	Push(data []byte, timeout time.Duration) error
	Close()
}

type wsLink struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newWsLink(conn *websocket.Conn, sendBufferSize int) *wsLink {
	return &wsLink{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (l *wsLink) Push(data []byte, timeout time.Duration) error {
	select {
	case <-l.done:
		return errLinkClosed
	case l.send <- data:
		return nil
	case <-time.After(timeout):
		return errSendTimeout
	}
}

func (l *wsLink) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
		l.conn.Close()
	})
}

func (l *wsLink) writePump(pingInterval, writeWait time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		l.Close()
	}()

	for {
		select {
		case data := <-l.send:
			l.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := l.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			l.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := l.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-l.done:
			l.conn.SetWriteDeadline(time.Now().Add(writeWait))
			l.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// Package feed connects a viewer to the feed server's event stream.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	neturl "net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"quietquadrant/shared/protocol"
)

var ErrClosed = errors.New("feed: closed")

// Login trades the operator password for a feed token.
func Login(ctx context.Context, apiBase, password string) (string, error) {
	b, _ := json.Marshal(protocol.LoginRequest{Password: password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(apiBase, "/")+protocol.PathLogin, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login: %s", resp.Status)
	}
	var out protocol.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return out.Token, nil
}

// Conn is one feed connection. A reader goroutine decodes frames into a
// buffered channel; the viewer drains it once per frame.
type Conn struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	inCh    chan protocol.Events
	done    chan struct{}
	closed  bool
	err     error
	hello   protocol.Hello
	helloCh chan struct{}
}

// Dial connects to wsURL, sending token as both a Bearer header and a
// query parameter.
func Dial(ctx context.Context, wsURL, token string) (*Conn, error) {
	hdr := http.Header{}
	if token != "" {
		hdr.Set("Authorization", "Bearer "+token)
		if u, err := neturl.Parse(wsURL); err == nil {
			q := u.Query()
			q.Set("token", token)
			u.RawQuery = q.Encode()
			wsURL = u.String()
		}
	}

	dialer := websocket.Dialer{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		Proxy: func(*http.Request) (*neturl.URL, error) {
			return nil, nil // disable proxies
		},
	}
	c, resp, err := dialer.DialContext(ctx, wsURL, hdr)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			log.Printf("FEED: dial failed: %s %s", resp.Status, strings.TrimSpace(string(body)))
			return nil, fmt.Errorf("dial %s: %s", wsURL, resp.Status)
		}
		log.Printf("FEED: dial failed: %v", err)
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}

	n := &Conn{
		conn:    c,
		inCh:    make(chan protocol.Events, 128),
		done:    make(chan struct{}),
		helloCh: make(chan struct{}),
	}
	go n.reader(c)
	return n, nil
}

func (n *Conn) reader(c *websocket.Conn) {
	defer close(n.inCh)
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			n.fail(err)
			return
		}
		env, err := protocol.Decode(data)
		if err != nil {
			continue
		}
		switch env.Type {
		case protocol.TypeHello:
			var h protocol.Hello
			if json.Unmarshal(env.Data, &h) == nil {
				n.mu.Lock()
				n.hello = h
				n.mu.Unlock()
				select {
				case <-n.helloCh:
				default:
					close(n.helloCh)
				}
				log.Printf("FEED: session %s, %d ticks/s from %s", h.Session, h.TickRate, h.Source)
			}
		case protocol.TypeEvents:
			var batch protocol.Events
			if err := json.Unmarshal(env.Data, &batch); err != nil {
				log.Printf("FEED: bad events frame: %v", err)
				continue
			}
			select {
			case n.inCh <- batch:
			case <-n.done:
				return
			}
		case protocol.TypeError:
			var m protocol.ErrorMsg
			_ = json.Unmarshal(env.Data, &m)
			log.Printf("FEED: server error: %s", m.Message)
		}
	}
}

func (n *Conn) fail(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	log.Println("FEED: read:", err)
	n.closed = true
	n.err = err
}

// Hello waits for the server greeting.
func (n *Conn) Hello(ctx context.Context) (protocol.Hello, error) {
	select {
	case <-n.helloCh:
		n.mu.Lock()
		defer n.mu.Unlock()
		return n.hello, nil
	case <-ctx.Done():
		return protocol.Hello{}, ctx.Err()
	}
}

// Drain returns every batch received since the last call without blocking.
func (n *Conn) Drain(buf []protocol.Events) []protocol.Events {
	for {
		select {
		case b, ok := <-n.inCh:
			if !ok {
				return buf
			}
			buf = append(buf, b)
		default:
			return buf
		}
	}
}

// Err is the error that ended the connection, or nil while it is live.
func (n *Conn) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed && n.err == nil {
		return ErrClosed
	}
	return n.err
}

// IsClosed reports whether Close was called or the connection was torn down.
func (n *Conn) IsClosed() bool {
	if n == nil {
		return true
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

// Close closes the websocket and stops the reader.
func (n *Conn) Close() error {
	if n == nil {
		return nil
	}
	n.mu.Lock()
	if n.closed && n.conn == nil {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	c := n.conn
	n.conn = nil
	n.mu.Unlock()

	close(n.done)
	return c.Close()
}

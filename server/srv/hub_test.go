package srv

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quietquadrant/internal/demo"
	"quietquadrant/internal/fx"
	"quietquadrant/server/auth"
	"quietquadrant/shared/protocol"
)

func testScript(t *testing.T) *demo.Script {
	t.Helper()
	s, err := demo.ParseScript(strings.NewReader(
		`[{"type":"boss-death","x":10,"y":10}]` + "\n\n" + `[{"type":"dash","x":1,"y":1},{"type":"heal","x":1,"y":1}]` + "\n"))
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	return s
}

func newServer(t *testing.T, password string) (*Hub, *httptest.Server) {
	t.Helper()
	a, err := auth.NewAuth(t.TempDir(), password)
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	h := NewHub(testScript(t), "test", 20)
	ts := httptest.NewServer(Routes(h, a))
	t.Cleanup(ts.Close)
	return h, ts
}

func wsURL(ts *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + protocol.PathFeed + query
}

func readEnvelope(t *testing.T, c *websocket.Conn) protocol.MsgEnvelope {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	env, err := protocol.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients=%d, want %d", h.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFeedStreamsTicks(t *testing.T) {
	h, ts := newServer(t, "")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, ""), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	env := readEnvelope(t, conn)
	var hello protocol.Hello
	if env.Type != protocol.TypeHello || json.Unmarshal(env.Data, &hello) != nil {
		t.Fatalf("first frame %+v", env)
	}
	if hello.Session == "" || hello.TickRate != 20 || hello.Source != "test" {
		t.Fatalf("hello %+v", hello)
	}
	waitClients(t, h, 1)

	for want := 0; want < 3; want++ {
		h.Step()
		env := readEnvelope(t, conn)
		var batch protocol.Events
		if env.Type != protocol.TypeEvents || json.Unmarshal(env.Data, &batch) != nil {
			t.Fatalf("tick frame %+v", env)
		}
		if batch.Tick != int64(want) {
			t.Fatalf("tick=%d want %d", batch.Tick, want)
		}
		switch want {
		case 0:
			if len(batch.Events) != 1 || batch.Events[0].Type != fx.BossDeath {
				t.Fatalf("tick 0: %+v", batch.Events)
			}
		case 1:
			if len(batch.Events) != 0 {
				t.Fatalf("tick 1 should be empty: %+v", batch.Events)
			}
		case 2:
			if len(batch.Events) != 2 || batch.Events[1].Type != fx.Heal {
				t.Fatalf("tick 2: %+v", batch.Events)
			}
		}
	}

	conn.Close()
	waitClients(t, h, 0)
}

func TestFeedRequiresToken(t *testing.T) {
	_, ts := newServer(t, "pw")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, ""), nil)
	if err == nil {
		t.Fatalf("dial without token succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %v", resp)
	}

	body := strings.NewReader(`{"password":"pw"}`)
	res, err := http.Post(ts.URL+protocol.PathLogin, "application/json", body)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer res.Body.Close()
	var lr protocol.LoginResponse
	if err := json.NewDecoder(res.Body).Decode(&lr); err != nil {
		t.Fatalf("login body: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "?token="+lr.Token), nil)
	if err != nil {
		t.Fatalf("dial with token: %v", err)
	}
	defer conn.Close()
	if env := readEnvelope(t, conn); env.Type != protocol.TypeHello {
		t.Fatalf("first frame %q", env.Type)
	}
}

func TestSlowViewerDropped(t *testing.T) {
	h := NewHub(testScript(t), "test", 20)
	slow := &client{send: make(chan []byte, 1), session: "slow"}
	fast := &client{send: make(chan []byte, 8), session: "fast"}
	h.register(slow)
	h.register(fast)

	h.Step()
	h.Step()
	if h.Clients() != 1 {
		t.Fatalf("clients=%d, slow viewer not dropped", h.Clients())
	}
	if _, ok := h.clients[fast]; !ok {
		t.Fatalf("fast viewer dropped")
	}
	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Fatalf("dropped viewer's channel not closed")
	}
	if len(fast.send) != 2 {
		t.Fatalf("fast viewer got %d frames", len(fast.send))
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newServer(t, "")
	res, err := http.Get(ts.URL + protocol.PathHealthz)
	if err != nil || res.StatusCode != http.StatusOK {
		t.Fatalf("healthz: %v %v", res, err)
	}
	res.Body.Close()
}

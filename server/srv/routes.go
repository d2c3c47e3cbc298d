package srv

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"quietquadrant/server/auth"
	"quietquadrant/server/metrics"
	"quietquadrant/shared/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func wsHandler(h *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("HUB: upgrade:", err)
			return
		}
		h.HandleWS(conn)
	}
}

// Routes wires login, the guarded feed, health and metrics.
func Routes(h *Hub, a *auth.Auth) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, func(w http.ResponseWriter, r *http.Request) {
		metrics.Logins.Inc()
		a.HandleLogin(w, r)
	})
	mux.Handle(protocol.PathFeed, a.RequireAuth(wsHandler(h)))
	mux.HandleFunc(protocol.PathHealthz, func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	mux.Handle("/debug/metrics", metrics.Handler())
	return mux
}

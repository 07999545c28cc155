package missions

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	wsClients    = make(map[*websocket.Conn]bool)
	wsClientsMux = &sync.Mutex{}

	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
)

// handleFeed upgrades the connection and keeps it registered until the
// client goes away. Every completed evaluation is pushed to all clients.
func handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading feed connection: %v", err)
		return
	}

	wsClientsMux.Lock()
	wsClients[conn] = true
	wsClientsMux.Unlock()

	log.Printf("Feed client connected (%d total)", clientCount())

	// Drain incoming messages; the feed is one-way.
	go func() {
		defer func() {
			wsClientsMux.Lock()
			delete(wsClients, conn)
			wsClientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func clientCount() int {
	wsClientsMux.Lock()
	defer wsClientsMux.Unlock()
	return len(wsClients)
}

// broadcastEvaluation pushes an evaluation result to every connected feed
// client, dropping clients whose connection has failed.
func broadcastEvaluation(result EvaluationResult) {
	wsClientsMux.Lock()
	defer wsClientsMux.Unlock()

	for client := range wsClients {
		if err := client.WriteJSON(result); err != nil {
			log.Printf("Error sending evaluation to feed client: %v", err)
			client.Close()
			delete(wsClients, client)
		}
	}
}

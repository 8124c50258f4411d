package realtime

import (
	"encoding/json"
	"log"

	"backend-sevapali/internal/queue"

	"github.com/gofiber/websocket/v2"
)

// DashboardHub fans scheduler change events out to connected display
// boards and official dashboards.
type DashboardHub struct {
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	Clients    map[*websocket.Conn]bool
}

var Dashboards = DashboardHub{
	Register:   make(chan *websocket.Conn),
	Unregister: make(chan *websocket.Conn),
	Broadcast:  make(chan []byte, 64),
	Clients:    make(map[*websocket.Conn]bool),
}

func RunDashboardBroadcaster() {
	for {
		select {
		case c := <-Dashboards.Register:
			Dashboards.Clients[c] = true
		case c := <-Dashboards.Unregister:
			delete(Dashboards.Clients, c)
			c.Close()
		case msg := <-Dashboards.Broadcast:
			for c := range Dashboards.Clients {
				c.WriteMessage(websocket.TextMessage, msg)
			}
		}
	}
}

// EventBroadcaster adapts the hub to the scheduler's Notifier. Delivery
// is best-effort: a full broadcast buffer drops the event rather than
// holding up the mutation that produced it.
type EventBroadcaster struct{}

func (EventBroadcaster) QueueChanged(event queue.Event) {
	msg, err := json.Marshal(struct {
		Type string `json:"type"`
		queue.Event
	}{Type: "queue_changed", Event: event})
	if err != nil {
		return
	}

	select {
	case Dashboards.Broadcast <- msg:
	default:
		log.Printf("[realtime] broadcast buffer full, dropping event for %s", event.TokenNumber)
	}
}

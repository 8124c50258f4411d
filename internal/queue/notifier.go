package queue

import "time"

// Event describes one committed status change. Delivery is
// fire-and-forget; a slow or dead subscriber never holds up the
// mutation that produced the event.
type Event struct {
	QueueKey    string    `json:"queue_key"`
	TokenID     string    `json:"token_id"`
	TokenNumber string    `json:"token_number"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	Timestamp   time.Time `json:"timestamp"`
}

type Notifier interface {
	QueueChanged(event Event)
}

// NopNotifier discards events. Used when no realtime hub is attached.
type NopNotifier struct{}

func (NopNotifier) QueueChanged(Event) {}

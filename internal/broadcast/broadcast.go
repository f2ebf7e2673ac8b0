package broadcast

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/events"
)

// Message is one server-sent event.
type Message struct {
	Event string
	Data  string
}

// outcomePayload is the JSON body of an "outcome" event.
type outcomePayload struct {
	Session    string `json:"session"`
	Target     string `json:"target"`
	Kind       string `json:"kind"`
	Outcome    string `json:"outcome"`
	ReactionMS int64  `json:"reactionMs,omitempty"`
}

type Broadcaster struct {
	mu      sync.Mutex
	clients map[chan Message]bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[chan Message]bool),
	}
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 10)
	b.mu.Lock()
	b.clients[ch] = true
	b.mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.mu.Lock()
	delete(b.clients, ch)
	b.mu.Unlock()
	close(ch)
}

func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// PublishOutcome sends ev to every subscriber as an "outcome" event.
func (b *Broadcaster) PublishOutcome(ev events.OutcomeEvent) {
	data, err := json.Marshal(outcomePayload{
		Session:    ev.SessionID,
		Target:     ev.TargetID,
		Kind:       ev.Kind,
		Outcome:    ev.Outcome,
		ReactionMS: ev.Reaction.Milliseconds(),
	})
	if err != nil {
		log.Printf("[Broadcast] Marshal error: %v\n", err)
		return
	}
	b.Broadcast("outcome", string(data))
}

func (b *Broadcaster) Broadcast(event string, data string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.clients {
		select {
		case ch <- Message{Event: event, Data: data}:
		default:
			// skip clients with full data channels
		}
	}
}

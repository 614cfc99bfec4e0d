package session

import "sync"

// MessageType names a cross-session notification.
type MessageType string

const (
	MessageSignIn  MessageType = "signIn"
	MessageRefresh MessageType = "refresh"
	MessageSignOut MessageType = "signOut"
)

// Message is broadcast to every session on the bus except its sender.
type Message struct {
	Type MessageType
	From string
}

// Bus is an in-process broadcast channel shared by the sessions of one client.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]chan Message
	buffer int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]chan Message), buffer: 8}
}

// Subscribe registers id and returns its inbox.
func (b *Bus) Subscribe(id string) <-chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[id]
	if !ok {
		ch = make(chan Message, b.buffer)
		b.subs[id] = ch
	}
	return ch
}

// Unsubscribe removes id. The inbox is left open so pending readers never see a
// spurious zero Message.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// Publish delivers msg to every subscriber other than msg.From. A full inbox
// drops the message.
func (b *Bus) Publish(msg Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		if id == msg.From {
			continue
		}
		select {
		case ch <- msg:
		default:
		}
	}
}

package frame

import (
	"sync"

	"github.com/fwojciec/mindlab"
)

// Handler receives one parsed message.
type Handler func(mindlab.Message)

// Router dispatches messages by channel. Channel-less messages go to the raw
// handler; messages on unknown channels are dropped.
type Router struct {
	mu       sync.Mutex
	handlers map[string]Handler
	raw      Handler
	waiters  []chan mindlab.Message
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Handle registers h for channel, replacing any previous handler.
func (r *Router) Handle(channel string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[channel] = h
}

// HandleRaw registers the handler for channel-less messages.
func (r *Router) HandleRaw(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw = h
}

// Intercept returns a channel that receives the next dispatched message,
// whatever its channel. That message bypasses the registered handlers. The
// returned cancel func withdraws the waiter if it has not fired yet.
func (r *Router) Intercept() (<-chan mindlab.Message, func()) {
	ch := make(chan mindlab.Message, 1)
	r.mu.Lock()
	r.waiters = append(r.waiters, ch)
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, w := range r.waiters {
			if w == ch {
				r.waiters = append(r.waiters[:i], r.waiters[i+1:]...)
				return
			}
		}
	}
	return ch, cancel
}

// Dispatch routes m. It has the signature New expects, so a Router can sit
// directly behind a Framer.
func (r *Router) Dispatch(m mindlab.Message) {
	r.mu.Lock()
	if len(r.waiters) > 0 {
		w := r.waiters[0]
		r.waiters = r.waiters[1:]
		r.mu.Unlock()
		w <- m
		return
	}
	var h Handler
	if m.HasChannel() {
		h = r.handlers[m.Channel]
	} else {
		h = r.raw
	}
	r.mu.Unlock()

	if h != nil {
		h(m)
	}
}

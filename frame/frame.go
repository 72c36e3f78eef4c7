// Package frame recovers newline-delimited protocol messages from a chunked
// byte stream such as a serial port.
package frame

import (
	"strconv"
	"strings"
	"sync"

	"github.com/fwojciec/mindlab"
)

// Protocol constants of the external input device.
const (
	ChannelKeypad   = "Keypad"
	ChannelDistance = "Distance"
	ChannelPong     = "PONG"
	BaudRate        = 9600
)

// Framer is an io.Writer that splits incoming chunks on '\n', parses every
// complete line and dispatches it to a handler in arrival order. After each
// Ingest at most one trailing partial line stays buffered.
//
// It is safe for concurrent use. The handler runs synchronously under the
// framer's lock, so it must not call back into the same Framer.
type Framer struct {
	mu      sync.Mutex
	buf     strings.Builder
	handler func(mindlab.Message)
}

// New creates a Framer dispatching to handler. A nil handler discards
// messages.
func New(handler func(mindlab.Message)) *Framer {
	if handler == nil {
		handler = func(mindlab.Message) {}
	}
	return &Framer{handler: handler}
}

// Ingest appends chunk to the stream buffer and dispatches every line it
// completes.
func (f *Framer) Ingest(chunk string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !strings.Contains(chunk, "\n") {
		f.buf.WriteString(chunk)
		return
	}

	data := f.buf.String() + chunk
	f.buf.Reset()
	for {
		i := strings.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSpace(data[:i])
		data = data[i+1:]
		if line == "" {
			continue
		}
		f.handler(Parse(line))
	}
	f.buf.WriteString(data)
}

// Write implements io.Writer. It never fails.
func (f *Framer) Write(p []byte) (int, error) {
	f.Ingest(string(p))
	return len(p), nil
}

// Buffered returns the unterminated partial line currently held.
func (f *Framer) Buffered() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf.String()
}

// Reset discards any buffered partial line. Call it when the connection
// closes or reopens.
func (f *Framer) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf.Reset()
}

// Parse splits a line on its first ':' into a channel label and value, both
// trimmed. A line without ':' or with an empty label is channel-less and
// carries the whole trimmed line as its value.
func Parse(line string) mindlab.Message {
	line = strings.TrimSpace(line)
	label, rest, ok := strings.Cut(line, ":")
	if !ok {
		return mindlab.Message{Value: line}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return mindlab.Message{Value: line}
	}
	return mindlab.Message{Channel: label, Value: strings.TrimSpace(rest)}
}

// ParseDistance parses a distance reading in centimeters.
func ParseDistance(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

package mindlab

// Message is one parsed line of the serial protocol. A line shaped like
// "Keypad: 3" yields Channel "Keypad" and Value "3". Lines without a label
// are channel-less: Channel is empty and Value holds the whole trimmed line.
type Message struct {
	Channel string
	Value   string
}

// HasChannel reports whether the line carried a "label:" prefix.
func (m Message) HasChannel() bool { return m.Channel != "" }

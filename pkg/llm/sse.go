package llm

import (
	"bufio"
	"io"
	"strings"
)

// Event is a single Server-Sent Event
type Event struct {
	ID   string
	Name string
	Data string
}

// SSEReader reads Server-Sent Events from a stream one event at a time
type SSEReader struct {
	reader *bufio.Reader
}

// NewSSEReader creates a new SSE reader from an io.Reader
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{reader: bufio.NewReader(r)}
}

// Next returns the next dispatched event. An event is only dispatched by its
// closing blank line; a stream that ends mid-event drops it and returns io.EOF.
func (s *SSEReader) Next() (*Event, error) {
	var (
		event   Event
		data    []string
		pending bool
	)

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			// A trailing line without its newline is incomplete
			return nil, err
		}

		line = strings.TrimRight(line, "\r\n")

		// Blank line dispatches the event
		if line == "" {
			if pending {
				event.Data = strings.Join(data, "\n")
				return &event, nil
			}
			continue
		}

		// Comment
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			event.Name = value
			pending = true
		case "data":
			data = append(data, value)
			pending = true
		case "id":
			event.ID = value
		}
	}
}

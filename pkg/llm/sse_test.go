package llm

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, input string) []Event {
	t.Helper()

	reader := NewSSEReader(strings.NewReader(input))
	var events []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return events
		}
		require.NoError(t, err)
		events = append(events, *event)
	}
}

func TestSSEReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{
			name:  "named events",
			input: "event: output\ndata: Hello\n\nevent: done\ndata: {}\n\n",
			want: []Event{
				{Name: "output", Data: "Hello"},
				{Name: "done", Data: "{}"},
			},
		},
		{
			name:  "only one leading space is stripped",
			input: "event: output\ndata:  world\n\n",
			want:  []Event{{Name: "output", Data: " world"}},
		},
		{
			name:  "multi-line data",
			input: "data: line one\ndata: line two\n\n",
			want:  []Event{{Data: "line one\nline two"}},
		},
		{
			name:  "comments ids and crlf",
			input: ": keep-alive\r\nid: 7\r\nevent: output\r\ndata: x\r\n\r\n",
			want:  []Event{{ID: "7", Name: "output", Data: "x"}},
		},
		{
			name:  "unterminated event at eof is dropped",
			input: "event: output\ndata: kept\n\nevent: output\ndata: tail",
			want:  []Event{{Name: "output", Data: "kept"}},
		},
		{
			name:  "event without closing blank line is dropped",
			input: "event: output\ndata: tail\n",
			want:  nil,
		},
		{
			name:  "empty data line",
			input: "event: output\ndata:\n\n",
			want:  []Event{{Name: "output", Data: ""}},
		},
		{
			name:  "blank lines only",
			input: "\n\n\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readAll(t, tt.input))
		})
	}
}

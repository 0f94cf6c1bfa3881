package netbeans

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// quote returns text surrounded by double quotes, with embedded
// backslashes and double quotes escaped for the wire.
func quote(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `"`, `\"`)
	return `"` + text + `"`
}

// CommandSink is a Sink writing NetBeans command frames to an io.Writer,
// usually the write side of the editor connection. Each frame has the
// shape
//
//	bufID:cmd!seqno[ args]\n
//
// with a per-connection sequence number. Serial numbers are allocated
// from a separate strictly increasing counter.
//
// Writes never fail observably for callers; the first write error is
// recorded and the connection is considered dead from then on.
type CommandSink struct {
	mu     sync.Mutex
	w      io.Writer
	seqno  int
	err    error
	colors Palette

	sernum atomic.Int64
}

// NewCommandSink creates a sink writing frames to w. A zero palette
// selects the default sign colors.
func NewCommandSink(w io.Writer, colors Palette) *CommandSink {
	if colors == (Palette{}) {
		colors = DefaultPalette()
	}
	return &CommandSink{w: w, colors: colors}
}

// SendCmd writes one command frame scoped to buf. A nil buf addresses
// buffer number zero.
func (s *CommandSink) SendCmd(buf *Buffer, cmd, args string) {
	bufID := 0
	if buf != nil {
		bufID = buf.ID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	s.seqno++
	var frame string
	if args == "" {
		frame = fmt.Sprintf("%d:%s!%d\n", bufID, cmd, s.seqno)
	} else {
		frame = fmt.Sprintf("%d:%s!%d %s\n", bufID, cmd, s.seqno, args)
	}
	if _, err := io.WriteString(s.w, frame); err != nil {
		s.err = err
	}
}

// NextSernum returns a fresh serial number, starting at 1.
func (s *CommandSink) NextSernum() int {
	return int(s.sernum.Add(1))
}

// Colors returns the configured background color tokens.
func (s *CommandSink) Colors() Palette {
	return s.colors
}

// Err returns the first write error encountered, if any.
func (s *CommandSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

package netbeans

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// testLogger returns a silent logger for buffer set construction.
func testLogger() zerolog.Logger { return zerolog.Nop() }

// sentCmd is one command captured by the fake sink.
type sentCmd struct {
	bufID int
	cmd   string
	args  string
}

// fakeSink records every command instead of writing wire frames, so tests
// can assert the exact command vocabulary and ordering.
type fakeSink struct {
	cmds   []sentCmd
	sernum int
	colors Palette
}

func newFakeSink() *fakeSink {
	return &fakeSink{colors: DefaultPalette()}
}

func (s *fakeSink) SendCmd(buf *Buffer, cmd, args string) {
	bufID := 0
	if buf != nil {
		bufID = buf.ID()
	}
	s.cmds = append(s.cmds, sentCmd{bufID: bufID, cmd: cmd, args: args})
}

func (s *fakeSink) NextSernum() int {
	s.sernum++
	return s.sernum
}

func (s *fakeSink) Colors() Palette { return s.colors }

func (s *fakeSink) reset() { s.cmds = nil }

// names returns the captured command names in order.
func (s *fakeSink) names() []string {
	names := make([]string, len(s.cmds))
	for i, c := range s.cmds {
		names[i] = c.cmd
	}
	return names
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`/tmp/a.c`, `"/tmp/a.c"`},
		{`/tmp/my "file".c`, `"/tmp/my \"file\".c"`},
		{`C:\src\a.c`, `"C:\\src\\a.c"`},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCommandSink_FrameFormat(t *testing.T) {
	var out strings.Builder
	sink := NewCommandSink(&out, Palette{})

	sink.SendCmd(nil, cmdStopDocumentListen, "")
	sink.SendCmd(nil, cmdEditFile, quote("/tmp/a.c"))

	want := "0:stopDocumentListen!1\n" +
		"0:editFile!2 \"/tmp/a.c\"\n"
	if out.String() != want {
		t.Errorf("wire frames = %q, want %q", out.String(), want)
	}
}

func TestCommandSink_BufferNumber(t *testing.T) {
	var out strings.Builder
	sink := NewCommandSink(&out, Palette{})
	set := NewBufferSet(sink, testLogger())

	if err := set.AddBp(1, "/tmp/a.c", 10); err != nil {
		t.Fatalf("AddBp failed: %v", err)
	}

	for _, line := range strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n") {
		if !strings.HasPrefix(line, "1:") {
			t.Errorf("frame %q not scoped to buffer 1", line)
		}
	}
}

func TestCommandSink_NextSernum(t *testing.T) {
	sink := NewCommandSink(&strings.Builder{}, Palette{})
	for want := 1; want <= 3; want++ {
		if got := sink.NextSernum(); got != want {
			t.Errorf("NextSernum() = %d, want %d", got, want)
		}
	}
}

func TestCommandSink_DefaultPalette(t *testing.T) {
	sink := NewCommandSink(&strings.Builder{}, Palette{})
	if sink.Colors() != DefaultPalette() {
		t.Errorf("zero palette not replaced with defaults: %+v", sink.Colors())
	}

	custom := Palette{Enabled: "Blue", Disabled: "Grey", Frame: "Red"}
	sink = NewCommandSink(&strings.Builder{}, custom)
	if sink.Colors() != custom {
		t.Errorf("custom palette not kept: %+v", sink.Colors())
	}
}

// failWriter fails every write.
type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestCommandSink_WriteErrorRecorded(t *testing.T) {
	sink := NewCommandSink(failWriter{}, Palette{})

	sink.SendCmd(nil, cmdStopDocumentListen, "")
	if sink.Err() == nil {
		t.Fatal("expected recorded write error")
	}

	// Later sends must stay silent no-ops.
	sink.SendCmd(nil, cmdStopDocumentListen, "")
	if got := sink.Err().Error(); got != "broken pipe" {
		t.Errorf("Err() = %q, want first write error", got)
	}
}

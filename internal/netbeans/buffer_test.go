package netbeans

import (
	"reflect"
	"testing"
)

func TestBuffer_RegistrationOnce(t *testing.T) {
	set, sink := newTestSet()

	if err := set.AddBp(1, "/tmp/a.c", 10); err != nil {
		t.Fatalf("AddBp failed: %v", err)
	}
	if err := set.AddBp(2, "/tmp/a.c", 20); err != nil {
		t.Fatalf("AddBp failed: %v", err)
	}

	edits := 0
	for _, c := range sink.cmds {
		if c.cmd == "editFile" {
			edits++
		}
	}
	if edits != 1 {
		t.Errorf("editFile sent %d times, want 1", edits)
	}
	if !set.GetBuf(1).Registered() {
		t.Error("buffer not registered")
	}

	// Registration commands always precede marker commands.
	want := []string{"editFile", "putBufferNumber", "stopDocumentListen"}
	if !reflect.DeepEqual(sink.names()[:3], want) {
		t.Errorf("leading commands = %v, want %v", sink.names()[:3], want)
	}
}

func TestBuffer_UpdateAll_KeepsDisabledState(t *testing.T) {
	set, sink := newTestSet()

	if err := set.AddBp(1, "/tmp/a.c", 10); err != nil {
		t.Fatalf("AddBp failed: %v", err)
	}
	if err := set.AddBp(2, "/tmp/a.c", 20); err != nil {
		t.Fatalf("AddBp failed: %v", err)
	}
	if !set.UpdateBp(2, true) {
		t.Fatal("UpdateBp failed")
	}

	buf := set.GetBuf(1)
	buf.RemoveAll()
	sink.reset()

	buf.UpdateAll()

	// Each annotation is re-placed with its own stored disabled flag:
	// breakpoint 1 with its enabled pair, breakpoint 2 with its
	// disabled pair.
	want := []sentCmd{
		{1, "addAnno", "2 1 10/0 -1"},
		{1, "setDot", "10/0"},
		{1, "addAnno", "5 4 20/0 -1"},
		{1, "setDot", "20/0"},
	}
	if !reflect.DeepEqual(sink.cmds, want) {
		t.Errorf("commands = %v, want %v", sink.cmds, want)
	}
}

func TestBuffer_RemoveAtLine(t *testing.T) {
	set, sink := newTestSet()

	if err := set.AddBp(1, "/tmp/a.c", 10); err != nil {
		t.Fatalf("AddBp failed: %v", err)
	}
	if err := set.AddBp(2, "/tmp/a.c", 10); err != nil {
		t.Fatalf("AddBp failed: %v", err)
	}
	if err := set.AddBp(3, "/tmp/a.c", 30); err != nil {
		t.Fatalf("AddBp failed: %v", err)
	}
	buf := set.GetBuf(1)
	sink.reset()

	buf.RemoveAtLine(10)

	want := []sentCmd{
		{1, "removeAnno", "2"},
		{1, "removeAnno", "4"},
	}
	if !reflect.DeepEqual(sink.cmds, want) {
		t.Errorf("commands = %v, want %v", sink.cmds, want)
	}
	// The annotation objects survive; only placements are gone.
	if buf.Len() != 3 {
		t.Errorf("annotation count = %d, want 3", buf.Len())
	}
}

func TestBuffer_DeleteAnno_PanicsOnUnknown(t *testing.T) {
	set, _ := newTestSet()
	buf, err := set.GetOrCreate("/tmp/a.c")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic on delete of unknown annotation id")
		}
	}()
	buf.DeleteAnno(42)
}

func TestBuffer_CursorFollowsPlacement(t *testing.T) {
	set, _ := newTestSet()

	if err := set.AddBp(1, "/tmp/a.c", 10); err != nil {
		t.Fatalf("AddBp failed: %v", err)
	}
	if err := set.AddBp(2, "/tmp/a.c", 25); err != nil {
		t.Fatalf("AddBp failed: %v", err)
	}

	if lnum, col := set.GetBuf(1).Cursor(); lnum != 25 || col != 0 {
		t.Errorf("cursor = (%d, %d), want (25, 0)", lnum, col)
	}
}

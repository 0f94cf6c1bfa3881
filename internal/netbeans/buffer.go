package netbeans

import (
	"fmt"
	"os"
	"regexp"
)

// AnnoID identifies an annotation across the whole buffer set. Breakpoint
// ids are strictly positive; FrameAnnoID is reserved for the frame.
type AnnoID int

// FrameAnnoID is the reserved annotation id of the frame annotation.
const FrameAnnoID AnnoID = 0

// reClewnName matches the name of a clewn buffer: an optional path prefix
// followed by a "(clewn)_" tag and a word.
var reClewnName = regexp.MustCompile(`^\s*(.*)\(clewn\)_\w+$`)

// IsClewnBuffer reports whether name is the name of a clewn buffer. The
// path portion before the "(clewn)_" tag must be empty or exist on disk.
func IsClewnBuffer(name string) bool {
	m := reClewnName.FindStringSubmatch(name)
	if m == nil {
		return false
	}
	if m[1] == "" {
		return true
	}
	_, err := os.Stat(m[1])
	return err == nil
}

// Buffer is one open file in the editor: the set of annotations placed in
// it, keyed by annotation id in insertion order, plus the registration
// state and the per-file annotation type counter.
//
// A Buffer is created by its BufferSet the first time any operation
// references its pathname, and is never destroyed. Its ordinal id is
// assigned once, at creation, and never reused.
type Buffer struct {
	name string
	id   int
	sink Sink

	// frame is the buffer set's shared frame annotation, bound into
	// this buffer's annotation map while the frame is hosted here.
	frame *frameAnno

	// registered is set once the editor has been told to open and
	// track this file.
	registered bool

	// Cached cursor position, updated as annotations are placed.
	lnum int
	col  int

	// lastTypeNum is the annotation type counter, pre-incremented, so
	// the first allocated type number is 1. frameTypeNum is the type
	// number reserved for the frame, 0 until first requested.
	lastTypeNum  int
	frameTypeNum int

	annos map[AnnoID]annotation
	order []AnnoID
}

func newBuffer(name string, id int, sink Sink, frame *frameAnno) *Buffer {
	return &Buffer{
		name:  name,
		id:    id,
		sink:  sink,
		frame: frame,
		annos: make(map[AnnoID]annotation),
	}
}

// Name returns the buffer's full pathname.
func (b *Buffer) Name() string { return b.name }

// ID returns the buffer's ordinal id, assigned at creation starting at 1.
func (b *Buffer) ID() int { return b.id }

// Registered reports whether the buffer has completed the editor
// registration handshake.
func (b *Buffer) Registered() bool { return b.registered }

// Cursor returns the cached cursor position.
func (b *Buffer) Cursor() (lnum, col int) { return b.lnum, b.col }

// Len returns the number of annotations currently held by the buffer.
func (b *Buffer) Len() int { return len(b.annos) }

// nextTypeNum allocates a unique annotation type number for this buffer.
// The counter is strictly increasing and never reused.
func (b *Buffer) nextTypeNum() int {
	b.lastTypeNum++
	return b.lastTypeNum
}

// defineFrameAnno declares the frame annotation type with the editor.
// The type number is allocated from the buffer's counter on first request
// and cached; declaration happens at most once per buffer.
func (b *Buffer) defineFrameAnno() {
	if b.frameTypeNum != 0 {
		return
	}
	b.frameTypeNum = b.nextTypeNum()
	b.sink.SendCmd(b, cmdDefineAnnoType,
		fmt.Sprintf("0 \"0\" \"\" \"%s\" none %s", frameLabel, b.sink.Colors().Frame))
}

// register performs the one-time editor registration handshake: open the
// file, report its buffer number, and stop per-keystroke change
// notifications. Idempotent.
func (b *Buffer) register() {
	if b.registered {
		return
	}
	b.sink.SendCmd(b, cmdEditFile, quote(b.name))
	b.sink.SendCmd(b, cmdPutBufferNumber, quote(b.name))
	b.sink.SendCmd(b, cmdStopDocumentListen, "")
	b.registered = true
}

// AddAnno adds the annotation id at lnum, or moves it there when the id
// already exists. A new FrameAnnoID binds the buffer set's shared frame
// annotation instead of allocating a fresh one. The annotation is then
// placed through the buffer update path.
func (b *Buffer) AddAnno(id AnnoID, lnum int) {
	a, ok := b.annos[id]
	if !ok {
		if id == FrameAnnoID {
			b.frame.setBufLnum(b, lnum)
			a = b.frame
		} else {
			a = newBpAnno(b, id, lnum)
		}
		b.annos[id] = a
		b.order = append(b.order, id)
	} else {
		a.setLine(lnum)
	}
	b.Update(id, false)
}

// DeleteAnno removes the annotation id from the buffer, unplacing it
// first. Deleting an id the buffer does not hold is a programming error.
// The frame annotation object itself survives deletion; only its binding
// to this buffer is dropped.
func (b *Buffer) DeleteAnno(id AnnoID) {
	a, ok := b.annos[id]
	if !ok {
		panic(fmt.Sprintf("netbeans: delete of unknown annotation id %d in %s", id, b.name))
	}
	a.removeAnno()
	delete(b.annos, id)
	for i, aid := range b.order {
		if aid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Update registers the buffer with the editor if needed, then places the
// annotation id with the given disabled flag. The id must be held by the
// buffer.
func (b *Buffer) Update(id AnnoID, disabled bool) {
	b.register()
	a, ok := b.annos[id]
	if !ok {
		panic(fmt.Sprintf("netbeans: update of unknown annotation id %d in %s", id, b.name))
	}
	a.update(disabled)
}

// UpdateAll registers the buffer with the editor if needed, then places
// every annotation the buffer holds, each with its own stored disabled
// flag, in insertion order.
func (b *Buffer) UpdateAll() {
	b.register()
	for _, id := range b.order {
		a := b.annos[id]
		a.update(a.isDisabled())
	}
}

// RemoveAll removes the editor-side placement of every annotation in the
// buffer. The annotation objects are kept.
func (b *Buffer) RemoveAll() {
	for _, id := range b.order {
		b.annos[id].removeAnno()
	}
}

// RemoveAtLine removes the editor-side placement of every annotation at
// lnum. The annotation objects are kept.
func (b *Buffer) RemoveAtLine(lnum int) {
	for _, id := range b.order {
		if a := b.annos[id]; a.lineNumber() == lnum {
			a.removeAnno()
		}
	}
}

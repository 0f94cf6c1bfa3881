package netbeans

import (
	"fmt"
	"strconv"
)

// annotation is one placed-or-placeable marker at a line in one buffer.
// The two variants are the breakpoint annotation and the frame annotation;
// they share the placement capability (place, unplace, is-placed).
type annotation interface {
	// update places the annotation in the editor if it is not placed,
	// declaring its annotation type first when needed. For breakpoints
	// a change of the disabled flag unplaces the old variant before the
	// matching serial/type pair is placed.
	update(disabled bool)

	// removeAnno removes the editor-side placement. Safe to call on an
	// unplaced annotation or an unregistered buffer.
	removeAnno()

	lineNumber() int
	setLine(lnum int)
	isDisabled() bool
	isFrame() bool
}

// placement is the editor-side state shared by both annotation variants:
// the hosting buffer, the line, the serial number currently placed and
// whether a placement exists right now.
type placement struct {
	buf    *Buffer
	lnum   int
	sernum int
	isSet  bool
}

func (p *placement) lineNumber() int  { return p.lnum }
func (p *placement) setLine(lnum int) { p.lnum = lnum }

// place declares nothing; it issues the addAnno for the active serial
// number and the given type number, then moves the cached cursor and the
// editor dot to the annotation line.
func (p *placement) place(typeNum int) {
	p.buf.sink.SendCmd(p.buf, cmdAddAnno,
		fmt.Sprintf("%d %d %d/0 -1", p.sernum, typeNum, p.lnum))
	p.buf.lnum = p.lnum
	p.buf.col = 0
	p.buf.sink.SendCmd(p.buf, cmdSetDot, fmt.Sprintf("%d/0", p.lnum))
	p.isSet = true
}

// unplace removes the current placement. It is a no-op when the buffer is
// not registered with the editor or no placement exists.
func (p *placement) unplace() {
	if p.buf != nil && p.buf.registered && p.isSet {
		p.buf.sink.SendCmd(p.buf, cmdRemoveAnno, strconv.Itoa(p.sernum))
	}
	p.isSet = false
}

// bpAnno is a breakpoint annotation. It owns two annotation type numbers
// and two serial numbers, one per enabled/disabled state, all allocated
// once at construction and never reallocated; toggling the disabled flag
// only changes which pair is active.
type bpAnno struct {
	placement

	id       AnnoID
	disabled bool

	enabledSernum  int
	disabledSernum int

	enabledTypeNum  int
	disabledTypeNum int

	// defined is set once the two annotation types have been declared
	// with the editor.
	defined bool
}

// newBpAnno allocates the serial and type number pairs for a breakpoint
// in buf. Serial numbers come from the sink, type numbers from the
// buffer's own counter.
func newBpAnno(buf *Buffer, id AnnoID, lnum int) *bpAnno {
	a := &bpAnno{
		placement: placement{buf: buf, lnum: lnum},
		id:        id,
	}
	a.enabledSernum = buf.sink.NextSernum()
	a.disabledSernum = buf.sink.NextSernum()
	a.sernum = a.enabledSernum

	a.enabledTypeNum = buf.nextTypeNum()
	a.disabledTypeNum = buf.nextTypeNum()
	return a
}

func (a *bpAnno) isDisabled() bool { return a.disabled }
func (a *bpAnno) isFrame() bool    { return false }

// label returns the gutter text of the breakpoint: the last two
// characters of its decimal id.
func (a *bpAnno) label() string {
	s := strconv.Itoa(int(a.id))
	if len(s) > 2 {
		s = s[len(s)-2:]
	}
	return s
}

// define declares the enabled and disabled annotation types with the
// editor. Declaration happens at most once per annotation; the two
// defineAnnoType commands are keyed by 2*id and 2*id+1 and share the
// breakpoint label.
func (a *bpAnno) define() {
	if a.defined {
		return
	}
	a.defined = true
	colors := a.buf.sink.Colors()
	a.buf.sink.SendCmd(a.buf, cmdDefineAnnoType,
		fmt.Sprintf("0 \"%d\" \"\" \"%s\" none %s", 2*int(a.id), a.label(), colors.Enabled))
	a.buf.sink.SendCmd(a.buf, cmdDefineAnnoType,
		fmt.Sprintf("0 \"%d\" \"\" \"%s\" none %s", 2*int(a.id)+1, a.label(), colors.Disabled))
}

func (a *bpAnno) update(disabled bool) {
	if a.disabled != disabled {
		a.removeAnno()
		a.disabled = disabled
	}
	if a.isSet {
		return
	}
	a.define()
	typeNum := a.enabledTypeNum
	a.sernum = a.enabledSernum
	if a.disabled {
		typeNum = a.disabledTypeNum
		a.sernum = a.disabledSernum
	}
	a.place(typeNum)
}

func (a *bpAnno) removeAnno() {
	a.unplace()
}

// String reports the breakpoint state, mirroring the debugger view.
func (a *bpAnno) String() string {
	state := "enabled"
	if a.disabled {
		state = "disabled"
	}
	return fmt.Sprintf("bp %s at line %d", state, a.lnum)
}

// frameAnno is the single, global "current execution point" annotation.
// It has no disabled state and no type numbers of its own: the annotation
// type is requested from, and cached on, whichever buffer currently hosts
// the frame. The serial number is allocated once, when the buffer set is
// created, and survives rebinding.
type frameAnno struct {
	placement
}

func newFrameAnno(sink Sink) *frameAnno {
	a := &frameAnno{}
	a.sernum = sink.NextSernum()
	return a
}

func (a *frameAnno) isDisabled() bool { return false }
func (a *frameAnno) isFrame() bool    { return true }

// setBufLnum rebinds the frame to a new hosting buffer and line. The
// placement flag is cleared so the next update re-declares and re-places
// at the new location; any previous placement must already have been
// removed by the caller.
func (a *frameAnno) setBufLnum(buf *Buffer, lnum int) {
	a.buf = buf
	a.lnum = lnum
	a.isSet = false
}

func (a *frameAnno) update(bool) {
	if a.isSet {
		return
	}
	a.buf.defineFrameAnno()
	a.place(a.buf.frameTypeNum)
}

func (a *frameAnno) removeAnno() {
	a.unplace()
}

// String reports the frame location.
func (a *frameAnno) String() string {
	return fmt.Sprintf("frame at line %d", a.lnum)
}

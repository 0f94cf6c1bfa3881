package netbeans

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// BufferSet is the global registry of buffers and of all active
// annotation ids.
//
// Buffers are created lazily the first time an operation references their
// pathname and are immortal: deleting every annotation in a buffer leaves
// an empty but present Buffer, and ordinal buffer ids are never reused.
// At any instant an annotation id is registered in at most one buffer.
//
// All exported methods serialize on one mutex so that, even under a
// concurrent dispatcher, commands for a given buffer are emitted in the
// call order of the public operations.
type BufferSet struct {
	mu   sync.Mutex
	sink Sink
	log  zerolog.Logger

	// bufList holds every buffer ever created, indexed by ordinal id - 1.
	bufList []*Buffer
	byPath  map[string]*Buffer

	// annos maps each active annotation id to the buffer holding it;
	// annoOrder preserves registration order for bulk removal.
	annos     map[AnnoID]*Buffer
	annoOrder []AnnoID

	// frame is the single, global frame annotation, reused across
	// rebindings.
	frame *frameAnno
}

// NewBufferSet creates an empty buffer set emitting commands through sink.
// The frame annotation's serial number is allocated here, once.
func NewBufferSet(sink Sink, log zerolog.Logger) *BufferSet {
	return &BufferSet{
		sink:   sink,
		log:    log,
		byPath: make(map[string]*Buffer),
		annos:  make(map[AnnoID]*Buffer),
		frame:  newFrameAnno(sink),
	}
}

// checkLine validates a line number argument.
func checkLine(lnum int) error {
	if lnum <= 0 {
		return fmt.Errorf("line %d: %w", lnum, ErrInvalidLine)
	}
	return nil
}

// getOrCreate returns the buffer for pathname, creating it on first
// reference. The pathname must be absolute or name a clewn buffer.
func (s *BufferSet) getOrCreate(pathname string) (*Buffer, error) {
	if !filepath.IsAbs(pathname) && !IsClewnBuffer(pathname) {
		return nil, fmt.Errorf("pathname %q: %w", pathname, ErrNotAbsolutePath)
	}
	if buf, ok := s.byPath[pathname]; ok {
		return buf, nil
	}
	// Editor buffer numbers start at one.
	buf := newBuffer(pathname, len(s.bufList)+1, s.sink, s.frame)
	s.bufList = append(s.bufList, buf)
	s.byPath[pathname] = buf
	return buf, nil
}

// GetOrCreate returns the buffer for pathname, creating it on first
// reference. Creation is idempotent: the same pathname always yields the
// same buffer.
func (s *BufferSet) GetOrCreate(pathname string) (*Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreate(pathname)
}

func (s *BufferSet) addAnno(id AnnoID, pathname string, lnum int) error {
	if err := checkLine(lnum); err != nil {
		return err
	}
	buf, err := s.getOrCreate(pathname)
	if err != nil {
		return err
	}
	if _, ok := s.annos[id]; !ok {
		s.annoOrder = append(s.annoOrder, id)
	}
	s.annos[id] = buf
	buf.AddAnno(id, lnum)
	return nil
}

// AddAnno registers the annotation id in the buffer for pathname and
// places it at lnum.
func (s *BufferSet) AddAnno(id AnnoID, pathname string, lnum int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addAnno(id, pathname, lnum)
}

// AddBp adds a breakpoint annotation. Breakpoint ids must not collide
// with the reserved frame id.
func (s *BufferSet) AddBp(id AnnoID, pathname string, lnum int) error {
	if id == FrameAnnoID {
		return fmt.Errorf("breakpoint id %d: %w", id, ErrReservedAnnoID)
	}
	return s.AddAnno(id, pathname, lnum)
}

func (s *BufferSet) updateAnno(id AnnoID, disabled bool) error {
	buf, ok := s.annos[id]
	if !ok {
		return fmt.Errorf("annotation id %d: %w", id, ErrAnnotationNotFound)
	}
	buf.Update(id, disabled)
	return nil
}

// UpdateAnno sets the disabled state of a registered annotation, placing
// or re-placing it as needed. An unregistered id is a hard failure.
func (s *BufferSet) UpdateAnno(id AnnoID, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateAnno(id, disabled)
}

// UpdateBp sets the disabled state of a breakpoint and reports success.
// An unknown id reflects an expected race between debugger and editor
// state: it is logged and reported as false, never propagated.
func (s *BufferSet) UpdateBp(id AnnoID, disabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateAnno(id, disabled); err != nil {
		s.log.Warn().Int("anno_id", int(id)).
			Msg("attempt to update an unknown annotation")
		return false
	}
	return true
}

func (s *BufferSet) deleteAnno(id AnnoID) error {
	buf, ok := s.annos[id]
	if !ok {
		return fmt.Errorf("annotation id %d: %w", id, ErrAnnotationNotFound)
	}
	buf.DeleteAnno(id)
	delete(s.annos, id)
	for i, aid := range s.annoOrder {
		if aid == id {
			s.annoOrder = append(s.annoOrder[:i], s.annoOrder[i+1:]...)
			break
		}
	}
	return nil
}

// DeleteAnno unplaces the annotation id and removes it from its buffer
// and from the global registry.
func (s *BufferSet) DeleteAnno(id AnnoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteAnno(id)
}

// ShowFrame moves the frame annotation to pathname/lnum. The frame is
// unique: any currently shown frame is removed first. An empty pathname
// only clears the frame.
func (s *BufferSet) ShowFrame(pathname string, lnum int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkLine(lnum); err != nil {
		return err
	}
	if _, ok := s.annos[FrameAnnoID]; ok {
		if err := s.deleteAnno(FrameAnnoID); err != nil {
			return err
		}
	}
	if pathname == "" {
		return nil
	}
	return s.addAnno(FrameAnnoID, pathname, lnum)
}

// ClearFrame removes the frame annotation, if shown.
func (s *BufferSet) ClearFrame() {
	// Line 1 satisfies validation; it is unused when clearing.
	_ = s.ShowFrame("", 1)
}

// GetBuf returns the buffer at the 1-based ordinal position, or nil for
// out-of-range input.
func (s *BufferSet) GetBuf(id int) *Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id <= 0 || id > len(s.bufList) {
		return nil
	}
	return s.bufList[id-1]
}

// RemoveAll deletes every annotation in the set. Editor placements are
// removed; buffers survive, empty.
func (s *BufferSet) RemoveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range append([]AnnoID(nil), s.annoOrder...) {
		// Ids in annoOrder are always registered.
		_ = s.deleteAnno(id)
	}
}

// LineNumbers returns the line numbers of every enabled, non-frame
// annotation in the named buffer, duplicates included, in insertion
// order. The result is empty when the buffer is unknown.
func (s *BufferSet) LineNumbers(pathname string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := []int{}
	buf, ok := s.byPath[pathname]
	if !ok {
		return lines
	}
	for _, id := range buf.order {
		a := buf.annos[id]
		if a.isDisabled() || a.isFrame() {
			continue
		}
		lines = append(lines, a.lineNumber())
	}
	return lines
}

// Len returns the number of real buffers in the set; clewn buffers are
// not counted.
func (s *BufferSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, buf := range s.bufList {
		if !IsClewnBuffer(buf.name) {
			n++
		}
	}
	return n
}

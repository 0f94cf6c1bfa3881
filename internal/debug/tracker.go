package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xdegaye/clewn/internal/netbeans"
)

// Breakpoint is a debugger-side breakpoint.
type Breakpoint struct {
	// ID is a unique identifier for this breakpoint, strictly positive.
	ID int `json:"id"`

	// Path is the absolute source file path.
	Path string `json:"path"`

	// Line is the line number (1-based).
	Line int `json:"line"`

	// Enabled indicates if the breakpoint is enabled.
	Enabled bool `json:"enabled"`

	// HitCount is the number of times this breakpoint has been hit.
	HitCount int `json:"hitCount"`
}

// Tracker manages breakpoints and the current execution frame, mirroring
// both into the editor as annotations.
type Tracker struct {
	mu  sync.RWMutex
	set *netbeans.BufferSet
	log zerolog.Logger

	// All breakpoints by ID
	breakpoints map[int]*Breakpoint

	// Breakpoints grouped by file path
	byPath map[string][]*Breakpoint

	// Next breakpoint ID
	nextID int

	// Persistence file path
	persistPath string
}

// NewTracker creates a tracker mirroring into set. Each tracker carries a
// session id in its log context.
func NewTracker(set *netbeans.BufferSet, log zerolog.Logger) *Tracker {
	return &Tracker{
		set:         set,
		log:         log.With().Str("session", uuid.NewString()).Logger(),
		breakpoints: make(map[int]*Breakpoint),
		byPath:      make(map[string][]*Breakpoint),
		nextID:      1,
	}
}

// SetPersistPath sets the file path for breakpoint persistence.
func (m *Tracker) SetPersistPath(path string) {
	m.mu.Lock()
	m.persistPath = path
	m.mu.Unlock()
}

// AddBreakpoint adds an enabled breakpoint at path/line and places its
// sign in the editor.
func (m *Tracker) AddBreakpoint(path string, line int) (*Breakpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addLocked(path, line)
}

func (m *Tracker) addLocked(path string, line int) (*Breakpoint, error) {
	id := m.nextID
	if err := m.set.AddBp(netbeans.AnnoID(id), path, line); err != nil {
		return nil, fmt.Errorf("add breakpoint at %s:%d: %w", path, line, err)
	}
	m.nextID++

	bp := &Breakpoint{
		ID:      id,
		Path:    path,
		Line:    line,
		Enabled: true,
	}
	m.breakpoints[id] = bp
	m.byPath[path] = append(m.byPath[path], bp)

	m.log.Debug().Int("id", id).Str("path", path).Int("line", line).
		Msg("breakpoint added")
	return bp, nil
}

// RemoveBreakpoint removes a breakpoint by ID and deletes its sign.
func (m *Tracker) RemoveBreakpoint(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(id)
}

func (m *Tracker) removeLocked(id int) error {
	bp, ok := m.breakpoints[id]
	if !ok {
		return fmt.Errorf("breakpoint %d not found", id)
	}
	if err := m.set.DeleteAnno(netbeans.AnnoID(id)); err != nil {
		return fmt.Errorf("remove breakpoint %d: %w", id, err)
	}

	delete(m.breakpoints, id)
	m.removeFromPath(bp.Path, id)
	return nil
}

// removeFromPath removes a breakpoint from the path collection.
func (m *Tracker) removeFromPath(path string, id int) {
	bps := m.byPath[path]
	m.byPath[path] = removeFromSlice(bps, id)
	if len(m.byPath[path]) == 0 {
		delete(m.byPath, path)
	}
}

// removeFromSlice removes a breakpoint from a slice by ID.
func removeFromSlice(slice []*Breakpoint, id int) []*Breakpoint {
	for i, bp := range slice {
		if bp.ID == id {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}

// Toggle toggles a breakpoint at the given location. If a breakpoint
// exists at the location it is removed, otherwise a new one is added.
// The returned bool is true when a breakpoint was added.
func (m *Tracker) Toggle(path string, line int) (*Breakpoint, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, bp := range m.byPath[path] {
		if bp.Line == line {
			if err := m.removeLocked(bp.ID); err != nil {
				return nil, false, err
			}
			return bp, false, nil
		}
	}

	bp, err := m.addLocked(path, line)
	if err != nil {
		return nil, false, err
	}
	return bp, true, nil
}

// SetEnabled enables or disables a breakpoint, swapping its editor sign.
// An out-of-date editor side is expected during races and only logged.
func (m *Tracker) SetEnabled(id int, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bp, ok := m.breakpoints[id]
	if !ok {
		return fmt.Errorf("breakpoint %d not found", id)
	}
	bp.Enabled = enabled

	if !m.set.UpdateBp(netbeans.AnnoID(id), !enabled) {
		m.log.Debug().Int("id", id).Msg("breakpoint sign not mirrored")
	}
	return nil
}

// GetBreakpoint returns a breakpoint by ID.
func (m *Tracker) GetBreakpoint(id int) (*Breakpoint, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bp, ok := m.breakpoints[id]
	return bp, ok
}

// GetBreakpointAt returns the breakpoint at the given location, if any.
func (m *Tracker) GetBreakpointAt(path string, line int) (*Breakpoint, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, bp := range m.byPath[path] {
		if bp.Line == line {
			return bp, true
		}
	}
	return nil, false
}

// BreakpointsForPath returns all breakpoints for a file path.
func (m *Tracker) BreakpointsForPath(path string) []*Breakpoint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Breakpoint, len(m.byPath[path]))
	copy(result, m.byPath[path])
	return result
}

// AllBreakpoints returns all breakpoints.
func (m *Tracker) AllBreakpoints() []*Breakpoint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Breakpoint, 0, len(m.breakpoints))
	for _, bp := range m.breakpoints {
		result = append(result, bp)
	}
	return result
}

// PathsWithBreakpoints returns all file paths that have breakpoints.
func (m *Tracker) PathsWithBreakpoints() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.byPath))
	for path := range m.byPath {
		paths = append(paths, path)
	}
	return paths
}

// IncrementHitCount increments the hit count for a breakpoint.
func (m *Tracker) IncrementHitCount(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if bp, ok := m.breakpoints[id]; ok {
		bp.HitCount++
	}
}

// ClearForPath removes all breakpoints for a file path.
func (m *Tracker) ClearForPath(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, bp := range append([]*Breakpoint(nil), m.byPath[path]...) {
		if err := m.removeLocked(bp.ID); err != nil {
			return err
		}
	}
	return nil
}

// ClearAll removes every breakpoint.
func (m *Tracker) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range m.breakpoints {
		if err := m.removeLocked(id); err != nil {
			return err
		}
	}
	return nil
}

// ShowFrame moves the current execution point sign to path/line.
func (m *Tracker) ShowFrame(path string, line int) error {
	if err := m.set.ShowFrame(path, line); err != nil {
		return fmt.Errorf("show frame at %s:%d: %w", path, line, err)
	}
	return nil
}

// ClearFrame removes the current execution point sign.
func (m *Tracker) ClearFrame() {
	m.set.ClearFrame()
}

// persistedBreakpoints is the format for persisted breakpoints.
type persistedBreakpoints struct {
	Version     int           `json:"version"`
	Breakpoints []*Breakpoint `json:"breakpoints"`
}

// Save persists breakpoints to disk.
func (m *Tracker) Save() error {
	m.mu.RLock()
	path := m.persistPath
	bps := make([]*Breakpoint, 0, len(m.breakpoints))
	for _, bp := range m.breakpoints {
		bps = append(bps, bp)
	}
	m.mu.RUnlock()

	if path == "" {
		return fmt.Errorf("persist path not set")
	}

	data := persistedBreakpoints{
		Version:     1,
		Breakpoints: bps,
	}

	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal breakpoints: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Load restores persisted breakpoints from disk and re-mirrors them into
// the editor. A missing file is not an error.
func (m *Tracker) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.persistPath == "" {
		return fmt.Errorf("persist path not set")
	}

	content, err := os.ReadFile(m.persistPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read file: %w", err)
	}

	var data persistedBreakpoints
	if err := json.Unmarshal(content, &data); err != nil {
		return fmt.Errorf("unmarshal breakpoints: %w", err)
	}

	maxID := 0
	for _, bp := range data.Breakpoints {
		if err := m.set.AddBp(netbeans.AnnoID(bp.ID), bp.Path, bp.Line); err != nil {
			m.log.Warn().Int("id", bp.ID).Str("path", bp.Path).Err(err).
				Msg("persisted breakpoint dropped")
			continue
		}
		if !bp.Enabled {
			m.set.UpdateBp(netbeans.AnnoID(bp.ID), true)
		}

		m.breakpoints[bp.ID] = bp
		m.byPath[bp.Path] = append(m.byPath[bp.Path], bp)
		if bp.ID > maxID {
			maxID = bp.ID
		}
	}
	if maxID >= m.nextID {
		m.nextID = maxID + 1
	}
	return nil
}

// Package model holds the canonical monitor and wallpaper lists and publishes
// a change event after every mutation.
package model

import (
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/walltile/internal/event"
	"github.com/google/uuid"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotFound        = errors.New("not found")
	ErrNoSetter        = errors.New("no wallpaper setter configured")
)

// WallpaperSetter applies an image to a single monitor.
type WallpaperSetter interface {
	SetWallpaper(monitorID, path string, fitting Fitting) error
}

// State owns the monitor and wallpaper lists.
//
// Each list carries a version that increments on every publish for that list,
// so consumers recomputing in the background can discard stale snapshots.
// Subscribers are notified after the state lock is released.
type State struct {
	mu                sync.RWMutex
	monitors          []Monitor
	wallpapers        []Wallpaper
	monitorsVersion   uint64
	wallpapersVersion uint64

	bus    *event.Bus[Event]
	setter WallpaperSetter
}

// NewState returns an empty State. setter may be nil, in which case applying
// a wallpaper fails with ErrNoSetter.
func NewState(setter WallpaperSetter) *State {
	return &State{
		bus:    event.New[Event](),
		setter: setter,
	}
}

// Subscribe registers fn for state events. The returned handle must be
// retained for as long as fn should keep firing. fn must not call back into
// State synchronously.
func (s *State) Subscribe(fn func(Event)) *event.Subscription[Event] {
	return s.bus.Subscribe(fn)
}

// SetMonitors replaces the monitor list wholesale.
func (s *State) SetMonitors(monitors []Monitor) {
	s.mu.Lock()
	s.monitors = append([]Monitor(nil), monitors...)
	s.monitorsVersion++
	s.mu.Unlock()

	s.bus.Notify(MonitorsUpdated)
}

// AddWallpaper appends w to the end of the list.
func (s *State) AddWallpaper(w Wallpaper) {
	s.mu.Lock()
	s.wallpapers = append(s.wallpapers, w)
	s.wallpapersVersion++
	s.mu.Unlock()

	s.bus.Notify(WallpapersUpdated)
}

// UpdateWallpaper applies op to the wallpaper at index. Moving the first entry
// up or the last entry down leaves the list unchanged but still publishes
// WallpapersUpdated. An index outside the list returns ErrIndexOutOfRange and
// publishes nothing.
func (s *State) UpdateWallpaper(index int, op Operation) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.wallpapers) {
		n := len(s.wallpapers)
		s.mu.Unlock()
		return fmt.Errorf("wallpaper %d of %d: %w", index, n, ErrIndexOutOfRange)
	}
	if err := s.applyLocked(index, op); err != nil {
		s.mu.Unlock()
		return err
	}
	s.wallpapersVersion++
	s.mu.Unlock()

	s.bus.Notify(WallpapersUpdated)
	return nil
}

// UpdateWallpaperByID resolves id to its current index under the state lock
// and applies op there.
func (s *State) UpdateWallpaperByID(id uuid.UUID, op Operation) error {
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		s.mu.Unlock()
		return fmt.Errorf("wallpaper %s: %w", id, ErrNotFound)
	}
	if err := s.applyLocked(index, op); err != nil {
		s.mu.Unlock()
		return err
	}
	s.wallpapersVersion++
	s.mu.Unlock()

	s.bus.Notify(WallpapersUpdated)
	return nil
}

func (s *State) applyLocked(index int, op Operation) error {
	ws := s.wallpapers
	switch op.Kind {
	case OpRemove:
		s.wallpapers = append(ws[:index], ws[index+1:]...)
		ws[len(ws)-1] = Wallpaper{}
	case OpMoveUp:
		if index > 0 {
			ws[index-1], ws[index] = ws[index], ws[index-1]
		}
	case OpMoveDown:
		if index < len(ws)-1 {
			ws[index], ws[index+1] = ws[index+1], ws[index]
		}
	case OpSetFitting:
		if !op.Fitting.Valid() {
			return fmt.Errorf("invalid fitting %d", int(op.Fitting))
		}
		ws[index].Fitting = op.Fitting
	default:
		return fmt.Errorf("unknown operation kind %d", int(op.Kind))
	}
	return nil
}

// ApplyWallpaperForMonitor sets the wallpaper at wallpaperIndex on the monitor
// at monitorIndex. It neither mutates state nor publishes an event. The
// setter runs without the state lock held.
func (s *State) ApplyWallpaperForMonitor(monitorIndex, wallpaperIndex int) error {
	s.mu.RLock()
	if monitorIndex < 0 || monitorIndex >= len(s.monitors) {
		n := len(s.monitors)
		s.mu.RUnlock()
		return fmt.Errorf("monitor %d of %d: %w", monitorIndex, n, ErrIndexOutOfRange)
	}
	if wallpaperIndex < 0 || wallpaperIndex >= len(s.wallpapers) {
		n := len(s.wallpapers)
		s.mu.RUnlock()
		return fmt.Errorf("wallpaper %d of %d: %w", wallpaperIndex, n, ErrIndexOutOfRange)
	}
	mon := s.monitors[monitorIndex]
	wp := s.wallpapers[wallpaperIndex]
	s.mu.RUnlock()

	return s.set(mon, wp)
}

// ApplyWallpaperByID is ApplyWallpaperForMonitor addressed by identifiers.
func (s *State) ApplyWallpaperByID(monitorID string, wallpaperID uuid.UUID) error {
	s.mu.RLock()
	mi := -1
	for i, m := range s.monitors {
		if m.ID == monitorID {
			mi = i
			break
		}
	}
	if mi < 0 {
		s.mu.RUnlock()
		return fmt.Errorf("monitor %q: %w", monitorID, ErrNotFound)
	}
	wi := s.indexLocked(wallpaperID)
	if wi < 0 {
		s.mu.RUnlock()
		return fmt.Errorf("wallpaper %s: %w", wallpaperID, ErrNotFound)
	}
	mon := s.monitors[mi]
	wp := s.wallpapers[wi]
	s.mu.RUnlock()

	return s.set(mon, wp)
}

func (s *State) set(mon Monitor, wp Wallpaper) error {
	if s.setter == nil {
		return ErrNoSetter
	}
	return s.setter.SetWallpaper(mon.ID, wp.Path, wp.Fitting)
}

// Monitors returns a copy of the monitor list and its version.
func (s *State) Monitors() ([]Monitor, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Monitor(nil), s.monitors...), s.monitorsVersion
}

// Wallpapers returns a copy of the wallpaper list and its version.
func (s *State) Wallpapers() ([]Wallpaper, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Wallpaper(nil), s.wallpapers...), s.wallpapersVersion
}

// Wallpaper looks up a wallpaper by identifier.
func (s *State) Wallpaper(id uuid.UUID) (Wallpaper, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.wallpapers[i], true
	}
	return Wallpaper{}, false
}

// IndexOf returns the current position of id, or -1.
func (s *State) IndexOf(id uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id)
}

func (s *State) indexLocked(id uuid.UUID) int {
	for i, w := range s.wallpapers {
		if w.ID == id {
			return i
		}
	}
	return -1
}

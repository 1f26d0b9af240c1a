package adapter

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// ValueStore holds the current value of every element of a design. Integral
// elements (including unpacked arrays of them) are one flat 4-state vector;
// real and string elements have their own slots.
type ValueStore interface {
	ReadBits(elem m.ElementID, offset, width int) (m.Logic, error)
	WriteBits(elem m.ElementID, offset int, v m.Logic) (bool, error)
	ReadReal(elem m.ElementID) (float64, error)
	WriteReal(elem m.ElementID, v float64) (bool, error)
	ReadString(elem m.ElementID) (string, error)
	WriteString(elem m.ElementID, v string) (bool, error)
}

// MemoryStore is an in-process ValueStore.
type MemoryStore struct {
	mu      sync.RWMutex
	bits    map[m.ElementID]*m.Logic
	reals   map[m.ElementID]float64
	strings map[m.ElementID]string
}

// NewMemoryStore allocates storage for every element of design and applies
// the declared initial values. Undriven nets start at Z, 4-state variables
// at X and 2-state variables at 0.
func NewMemoryStore(design *m.Design) (*MemoryStore, error) {
	s := &MemoryStore{
		bits:    make(map[m.ElementID]*m.Logic),
		reals:   make(map[m.ElementID]float64),
		strings: make(map[m.ElementID]string),
	}

	for _, id := range design.Elements() {
		if err := s.allocate(design, id); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *MemoryStore) allocate(design *m.Design, id m.ElementID) error {
	elem := design.Element(id)
	leaf := design.Typespec(design.Leaf(elem.Type))

	switch leaf.Kind {
	case m.KindReal:
		if elem.Init != "" {
			v, err := strconv.ParseFloat(elem.Init, 64)
			if err != nil {
				return fmt.Errorf("element %q: invalid real initializer %q: %w", elem.Name, elem.Init, err)
			}

			s.reals[id] = v
		} else {
			s.reals[id] = 0
		}

		return nil
	case m.KindString:
		s.strings[id] = strings.Trim(elem.Init, `"`)
		return nil
	}

	leafWidth := design.PackedWidth(design.Leaf(elem.Type))
	count := design.ElemCount(elem.Type)

	var fill m.Logic

	switch {
	case elem.Init != "":
		v, err := m.ParseLiteral(elem.Init, leafWidth)
		if err != nil {
			return fmt.Errorf("element %q: invalid initializer %q: %w", elem.Name, elem.Init, err)
		}

		fill = v
	case design.IsTwoState(elem.Type) || elem.Class == m.ClassParameter:
		fill = m.NewLogic(leafWidth)
	case elem.Class == m.ClassNet:
		fill = m.FilledLogic(leafWidth, m.ScalarZ)
	default:
		fill = m.FilledLogic(leafWidth, m.ScalarX)
	}

	if design.IsTwoState(elem.Type) {
		fill.ClearUnknown()
	}

	storage := m.NewLogic(leafWidth * count)
	for i := range count {
		storage.Splice(i*leafWidth, fill)
	}

	s.bits[id] = &storage

	slog.Debug("allocated element storage", "element", elem.Name, "width", storage.Width)

	return nil
}

// ReadBits implements ValueStore.
func (s *MemoryStore) ReadBits(elem m.ElementID, offset, width int) (m.Logic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storage, ok := s.bits[elem]
	if !ok {
		return m.Logic{}, fmt.Errorf("element %d has no bit storage", elem)
	}

	if offset < 0 || offset+width > storage.Width {
		return m.Logic{}, fmt.Errorf("bits [%d+:%d] outside element %d of width %d", offset, width, elem, storage.Width)
	}

	return storage.Slice(offset, width), nil
}

// WriteBits implements ValueStore.
func (s *MemoryStore) WriteBits(elem m.ElementID, offset int, v m.Logic) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	storage, ok := s.bits[elem]
	if !ok {
		return false, fmt.Errorf("element %d has no bit storage", elem)
	}

	if offset < 0 || offset+v.Width > storage.Width {
		return false, fmt.Errorf("bits [%d+:%d] outside element %d of width %d", offset, v.Width, elem, storage.Width)
	}

	if storage.Slice(offset, v.Width).Equal(v) {
		return false, nil
	}

	storage.Splice(offset, v)

	return true, nil
}

// ReadReal implements ValueStore.
func (s *MemoryStore) ReadReal(elem m.ElementID) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.reals[elem]
	if !ok {
		return 0, fmt.Errorf("element %d has no real storage", elem)
	}

	return v, nil
}

// WriteReal implements ValueStore.
func (s *MemoryStore) WriteReal(elem m.ElementID, v float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.reals[elem]
	if !ok {
		return false, fmt.Errorf("element %d has no real storage", elem)
	}

	s.reals[elem] = v

	return old != v, nil
}

// ReadString implements ValueStore.
func (s *MemoryStore) ReadString(elem m.ElementID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.strings[elem]
	if !ok {
		return "", fmt.Errorf("element %d has no string storage", elem)
	}

	return v, nil
}

// WriteString implements ValueStore.
func (s *MemoryStore) WriteString(elem m.ElementID, v string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.strings[elem]
	if !ok {
		return false, fmt.Errorf("element %d has no string storage", elem)
	}

	s.strings[elem] = v

	return old != v, nil
}

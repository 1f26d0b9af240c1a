// Package model defines the elaborated design arena, the VPI code tables and
// the value types shared by the domain and adapter layers.
package model

import (
	"fmt"
)

// ScopeID indexes a scope in a Design. The zero value means none.
type ScopeID uint32

// ElementID indexes an element in a Design. The zero value means none.
type ElementID uint32

// TypespecID indexes an interned typespec in a Design. The zero value means none.
type TypespecID uint32

// Sentinel IDs.
const (
	NoScope    ScopeID    = 0
	NoElement  ElementID  = 0
	NoTypespec TypespecID = 0
)

// IsValid reports whether the ID refers to a scope.
func (id ScopeID) IsValid() bool { return id != NoScope }

// IsValid reports whether the ID refers to an element.
func (id ElementID) IsValid() bool { return id != NoElement }

// IsValid reports whether the ID refers to a typespec.
func (id TypespecID) IsValid() bool { return id != NoTypespec }

// ScopeKind distinguishes module instances from generate scopes.
type ScopeKind uint8

// Scope kinds.
const (
	ScopeModule ScopeKind = iota
	ScopeGen
)

func (k ScopeKind) String() string {
	if k == ScopeGen {
		return "gen"
	}

	return "module"
}

// ElementClass is the declaration class of an element.
type ElementClass uint8

// Element classes.
const (
	ClassVariable ElementClass = iota
	ClassNet
	ClassParameter
)

func (c ElementClass) String() string {
	switch c {
	case ClassNet:
		return "net"
	case ClassParameter:
		return "parameter"
	default:
		return "variable"
	}
}

// Port is a module port bound to a declared element of the same scope.
type Port struct {
	Name      string
	Direction int32
	Element   ElementID
}

// Scope is a node of the instance hierarchy.
type Scope struct {
	Name     string
	DefName  string
	Kind     ScopeKind
	Parent   ScopeID
	Children []ScopeID
	Elements []ElementID
	Ports    []Port
}

// Element is a declared variable, net or parameter.
type Element struct {
	Name       string
	Scope      ScopeID
	Class      ElementClass
	Type       TypespecID
	Constant   bool
	Automatic  bool
	Visibility int32
	Init       string
}

// Design owns every scope, element and typespec of an elaborated hierarchy.
// Cross references are IDs into its tables, so the whole design is torn
// down as a unit.
type Design struct {
	scopes    []Scope
	elements  []Element
	typespecs []Typespec
	interned  map[string]TypespecID
	tops      []ScopeID
}

// NewDesign returns an empty design. The 1-bit logic and bit typespecs
// are always present so bit selects can be typed without adding to it.
func NewDesign() *Design {
	d := &Design{
		scopes:    make([]Scope, 1),
		elements:  make([]Element, 1),
		typespecs: make([]Typespec, 1),
		interned:  make(map[string]TypespecID),
	}

	d.Intern(Typespec{Kind: KindLogic})
	d.Intern(Typespec{Kind: KindBit})

	return d
}

// AddScope appends a scope under parent, or as a top-level module when
// parent is NoScope.
func (d *Design) AddScope(parent ScopeID, s Scope) (ScopeID, error) {
	switch {
	case parent.IsValid() && !d.hasScope(parent):
		return NoScope, fmt.Errorf("parent scope %d does not exist", parent)
	case !parent.IsValid() && s.Kind != ScopeModule:
		return NoScope, fmt.Errorf("top-level scope %q must be a module", s.Name)
	case d.nameTaken(parent, s.Name):
		return NoScope, fmt.Errorf("name %q already declared in %q", s.Name, d.ScopeFullName(parent))
	}

	s.Parent = parent
	s.Children = nil
	s.Elements = nil
	s.Ports = nil

	id := ScopeID(len(d.scopes))
	d.scopes = append(d.scopes, s)

	if parent.IsValid() {
		d.scopes[parent].Children = append(d.scopes[parent].Children, id)
	} else {
		d.tops = append(d.tops, id)
	}

	return id, nil
}

// AddElement declares an element in scope.
func (d *Design) AddElement(scope ScopeID, e Element) (ElementID, error) {
	if !d.hasScope(scope) {
		return NoElement, fmt.Errorf("scope %d does not exist", scope)
	}

	if !d.hasTypespec(e.Type) {
		return NoElement, fmt.Errorf("element %q has no typespec", e.Name)
	}

	if d.nameTaken(scope, e.Name) {
		return NoElement, fmt.Errorf("name %q already declared in %q", e.Name, d.ScopeFullName(scope))
	}

	if e.Visibility == 0 {
		e.Visibility = PublicVis
	}

	e.Scope = scope

	id := ElementID(len(d.elements))
	d.elements = append(d.elements, e)
	d.scopes[scope].Elements = append(d.scopes[scope].Elements, id)

	return id, nil
}

// AddPort binds a port to an element already declared in scope.
func (d *Design) AddPort(scope ScopeID, name string, direction int32) error {
	if !d.hasScope(scope) {
		return fmt.Errorf("scope %d does not exist", scope)
	}

	elem := d.ElementIn(scope, name)
	if !elem.IsValid() {
		return fmt.Errorf("port %q has no declaration in %s", name, d.ScopeFullName(scope))
	}

	d.scopes[scope].Ports = append(d.scopes[scope].Ports, Port{Name: name, Direction: direction, Element: elem})

	return nil
}

// Intern returns the ID of a structurally equal typespec, adding t when it
// has not been seen before. A logic or bit vector brings along the vectors
// left by dropping its outer dimensions.
func (d *Design) Intern(t Typespec) TypespecID {
	key := t.key()
	if id, ok := d.interned[key]; ok {
		return id
	}

	id := TypespecID(len(d.typespecs))
	d.typespecs = append(d.typespecs, t)
	d.interned[key] = id

	if (t.Kind == KindLogic || t.Kind == KindBit) && len(t.Dims) > 0 {
		d.Intern(dropDim(t))
	}

	return id
}

// Lookup returns the ID of a typespec structurally equal to t without
// adding it.
func (d *Design) Lookup(t Typespec) (TypespecID, bool) {
	id, ok := d.interned[t.key()]
	return id, ok
}

// NumTypespecs is the number of distinct typespecs.
func (d *Design) NumTypespecs() int {
	return len(d.typespecs) - 1
}

// Scope returns the scope for id, or nil.
func (d *Design) Scope(id ScopeID) *Scope {
	if !d.hasScope(id) {
		return nil
	}

	return &d.scopes[id]
}

// Element returns the element for id, or nil.
func (d *Design) Element(id ElementID) *Element {
	if !id.IsValid() || int(id) >= len(d.elements) {
		return nil
	}

	return &d.elements[id]
}

// Typespec returns the typespec for id, or nil.
func (d *Design) Typespec(id TypespecID) *Typespec {
	if !d.hasTypespec(id) {
		return nil
	}

	return &d.typespecs[id]
}

// Tops lists the top-level modules in declaration order.
func (d *Design) Tops() []ScopeID {
	return d.tops
}

// NumElements is the number of declared elements.
func (d *Design) NumElements() int {
	return len(d.elements) - 1
}

// Elements lists every element ID in declaration order.
func (d *Design) Elements() []ElementID {
	ids := make([]ElementID, 0, d.NumElements())
	for i := 1; i < len(d.elements); i++ {
		ids = append(ids, ElementID(i))
	}

	return ids
}

// ChildScope finds a direct child scope by exact name.
func (d *Design) ChildScope(parent ScopeID, name string) ScopeID {
	var children []ScopeID
	if parent.IsValid() {
		s := d.Scope(parent)
		if s == nil {
			return NoScope
		}

		children = s.Children
	} else {
		children = d.tops
	}

	for _, id := range children {
		if d.scopes[id].Name == name {
			return id
		}
	}

	return NoScope
}

// ElementIn finds an element declared directly in scope.
func (d *Design) ElementIn(scope ScopeID, name string) ElementID {
	s := d.Scope(scope)
	if s == nil {
		return NoElement
	}

	for _, id := range s.Elements {
		if d.elements[id].Name == name {
			return id
		}
	}

	return NoElement
}

// ScopeFullName is the dotted path from the top-level module to id.
func (d *Design) ScopeFullName(id ScopeID) string {
	s := d.Scope(id)
	if s == nil {
		return ""
	}

	if !s.Parent.IsValid() {
		return s.Name
	}

	return d.ScopeFullName(s.Parent) + "." + s.Name
}

// EnclosingModule is the nearest module instance at or above id.
func (d *Design) EnclosingModule(id ScopeID) ScopeID {
	for id.IsValid() {
		s := d.Scope(id)
		if s == nil {
			return NoScope
		}

		if s.Kind == ScopeModule {
			return id
		}

		id = s.Parent
	}

	return NoScope
}

func (d *Design) hasScope(id ScopeID) bool {
	return id.IsValid() && int(id) < len(d.scopes)
}

func (d *Design) hasTypespec(id TypespecID) bool {
	return id.IsValid() && int(id) < len(d.typespecs)
}

func (d *Design) nameTaken(scope ScopeID, name string) bool {
	return d.ChildScope(scope, name).IsValid() || d.ElementIn(scope, name).IsValid()
}

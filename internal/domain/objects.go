package domain

import (
	"vpiscope.dev/pkg/vpiscope/internal/adapter"
	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// object is anything a handle can refer to.
type object interface {
	kind() string
}

type scopeObj struct {
	id m.ScopeID
}

// varRole records how a view was reached from its declaration.
type varRole uint8

const (
	roleDeclared varRole = iota
	roleArrayMember
	rolePackedArrayMember
	roleStructMember
	roleBitSelect
	rolePartSelect
)

// varObj is a view of a declared element or of part of one. offset is the
// bit position of the view inside the element's storage.
type varObj struct {
	elem   m.ElementID
	ts     m.TypespecID
	name   string
	offset int
	role   varRole
	parent *varObj
}

type iterObj struct {
	items []object
	pos   int
}

type rangeObj struct {
	r m.Range
}

type constObj struct {
	value int64
}

type typespecObj struct {
	id m.TypespecID
}

type typespecMemberObj struct {
	owner m.TypespecID
	index int
}

type portObj struct {
	scope m.ScopeID
	index int
}

type callbackObj struct {
	id uint64
}

type systfObj struct {
	name string
}

type callObj struct {
	frame *callFrame
}

type schedEventObj struct {
	event adapter.EventID
}

func (scopeObj) kind() string { return "scope" }
func (*varObj) kind() string { return "variable" }
func (*iterObj) kind() string { return "iterator" }
func (rangeObj) kind() string { return "range" }
func (constObj) kind() string { return "constant" }
func (typespecObj) kind() string { return "typespec" }
func (typespecMemberObj) kind() string { return "typespec_member" }
func (portObj) kind() string { return "port" }
func (callbackObj) kind() string { return "callback" }
func (systfObj) kind() string { return "systf" }
func (callObj) kind() string { return "systf_call" }
func (schedEventObj) kind() string { return "sched_event" }

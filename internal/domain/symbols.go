package domain

import (
	"fmt"
	"strconv"
	"strings"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

func (e *engine) HandleByName(name string, scope m.Handle) m.Handle {
	e.begin()

	start := m.NoScope

	if !scope.IsNull() {
		obj, err := e.object(scope)
		if err != nil {
			return e.failed(err)
		}

		s, ok := obj.(scopeObj)
		if !ok {
			return e.failed(fmt.Errorf("%s handle is not a scope: %w", obj.kind(), ErrInvalidHandle))
		}

		start = s.id
	}

	obj, err := e.lookup(start, name)
	if err != nil {
		return e.failed(err)
	}

	return e.handles.acquire(obj)
}

// lookup resolves a dotted name relative to start, or against the
// top-level modules when start is NoScope. Only names declared directly in
// a scope are visible from it.
func (e *engine) lookup(start m.ScopeID, name string) (object, error) {
	segments := splitPath(name)
	if len(segments) == 0 {
		return nil, fmt.Errorf("empty name: %w", ErrNotFound)
	}

	cur := start
	i := 0

	for ; i < len(segments); i++ {
		child := e.design.ChildScope(cur, segments[i])
		if !child.IsValid() {
			break
		}

		cur = child
	}

	if i == len(segments) {
		return scopeObj{id: cur}, nil
	}

	if !cur.IsValid() {
		return nil, fmt.Errorf("no top-level module %q: %w", segments[0], ErrNotFound)
	}

	v, err := e.element(cur, segments[i])
	if err != nil {
		return nil, err
	}

	for _, seg := range segments[i+1:] {
		base, indices, err := splitIndex(seg)
		if err != nil {
			return nil, err
		}

		if v, err = e.member(v, base); err != nil {
			return nil, err
		}

		if v, err = e.indexAll(v, indices); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// element resolves the first non-scope segment: an element of scope,
// optionally followed by indices.
func (e *engine) element(scope m.ScopeID, seg string) (*varObj, error) {
	if id := e.design.ElementIn(scope, seg); id.IsValid() {
		return e.declaredView(id), nil
	}

	base, indices, err := splitIndex(seg)
	if err != nil {
		return nil, err
	}

	id := e.design.ElementIn(scope, base)
	if !id.IsValid() || len(indices) == 0 {
		return nil, fmt.Errorf("%q not declared in %s: %w", seg, e.design.ScopeFullName(scope), ErrNotFound)
	}

	return e.indexAll(e.declaredView(id), indices)
}

func (e *engine) indexAll(v *varObj, indices []int) (*varObj, error) {
	for _, i := range indices {
		var err error
		if v, err = e.index(v, i); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// splitPath splits a hierarchical name on dots outside brackets.
func splitPath(name string) []string {
	var (
		out   []string
		depth int
		start int
	)

	for i, r := range name {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 {
				out = append(out, name[start:i])
				start = i + 1
			}
		}
	}

	out = append(out, name[start:])

	for _, seg := range out {
		if seg == "" {
			return nil
		}
	}

	return out
}

// splitIndex splits "a[1][0]" into "a" and [1 0].
func splitIndex(seg string) (string, []int, error) {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return seg, nil, nil
	}

	base := seg[:open]
	rest := seg[open:]

	var indices []int

	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end < 0 {
			return "", nil, fmt.Errorf("malformed index in %q: %w", seg, ErrNotFound)
		}

		i, err := strconv.Atoi(strings.TrimSpace(rest[1:end]))
		if err != nil {
			return "", nil, fmt.Errorf("malformed index in %q: %w", seg, ErrNotFound)
		}

		indices = append(indices, i)
		rest = rest[end+1:]
	}

	return base, indices, nil
}

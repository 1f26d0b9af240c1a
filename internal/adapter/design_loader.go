package adapter

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

//go:embed schema/design.cue
var schemaFS embed.FS

// DesignLoader reads elaborated design files. It is safe for concurrent use.
type DesignLoader interface {
	Load(ctx context.Context, path string) (*m.Design, error)
	Parse(data []byte) (*m.Design, error)
}

type designLoader struct {
	mu     sync.Mutex // guards ctx
	ctx    *cue.Context
	schema cue.Value
}

// NewDesignLoader compiles the embedded design schema.
func NewDesignLoader() (DesignLoader, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("schema/design.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &designLoader{ctx: ctx, schema: schema}, nil
}

type typeDecl struct {
	Kind     string       `yaml:"kind" json:"kind,omitempty"`
	Ref      string       `yaml:"ref" json:"ref,omitempty"`
	Signed   bool         `yaml:"signed" json:"signed,omitempty"`
	Width    int          `yaml:"width" json:"width,omitempty"`
	Packed   [][]int      `yaml:"packed" json:"packed,omitempty"`
	Unpacked [][]int      `yaml:"unpacked" json:"unpacked,omitempty"`
	Members  []memberDecl `yaml:"members" json:"members,omitempty"`
}

type memberDecl struct {
	Name string   `yaml:"name" json:"name"`
	Type typeDecl `yaml:"type" json:"type"`
}

type typedefDecl struct {
	Name string   `yaml:"name" json:"name"`
	Type typeDecl `yaml:"type" json:"type"`
}

type elementDecl struct {
	Name       string    `yaml:"name" json:"name"`
	Class      string    `yaml:"class" json:"class,omitempty"`
	Type       *typeDecl `yaml:"type" json:"type,omitempty"`
	Constant   bool      `yaml:"constant" json:"constant,omitempty"`
	Automatic  bool      `yaml:"automatic" json:"automatic,omitempty"`
	Visibility string    `yaml:"visibility" json:"visibility,omitempty"`
	Init       string    `yaml:"init" json:"init,omitempty"`
}

type portDecl struct {
	Name      string `yaml:"name" json:"name"`
	Direction string `yaml:"direction" json:"direction"`
}

type scopeDecl struct {
	Name     string        `yaml:"name" json:"name"`
	Kind     string        `yaml:"kind" json:"kind,omitempty"`
	Def      string        `yaml:"def" json:"def,omitempty"`
	Ports    []portDecl    `yaml:"ports" json:"ports,omitempty"`
	Elements []elementDecl `yaml:"elements" json:"elements,omitempty"`
	Scopes   []scopeDecl   `yaml:"scopes" json:"scopes,omitempty"`
}

type designFile struct {
	Typedefs []typedefDecl `yaml:"typedefs" json:"typedefs,omitempty"`
	Scopes   []scopeDecl   `yaml:"scopes" json:"scopes"`
}

// Load implements DesignLoader.
func (l *designLoader) Load(ctx context.Context, path string) (*m.Design, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read design file", "path", path, "error", err)
		return nil, fmt.Errorf("failed to read design file %s: %w", path, err)
	}

	design, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("loaded design", "path", path, "elements", design.NumElements())

	return design, nil
}

// Parse implements DesignLoader.
func (l *designLoader) Parse(data []byte) (*m.Design, error) {
	var file designFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse design: %w", err)
	}

	if err := l.validate(file); err != nil {
		return nil, err
	}

	b := &designBuilder{design: m.NewDesign(), typedefs: make(map[string]m.TypespecID)}

	for _, td := range file.Typedefs {
		if err := b.addTypedef(td); err != nil {
			return nil, err
		}
	}

	for _, sd := range file.Scopes {
		if err := b.addScope(m.NoScope, sd); err != nil {
			return nil, err
		}
	}

	return b.design, nil
}

func (l *designLoader) validate(file designFile) error {
	jsonBytes, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshaling design to JSON: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	dataValue := l.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return fmt.Errorf("compiling design as CUE: %w", dataValue.Err())
	}

	def := l.schema.LookupPath(cue.ParsePath("#Design"))
	if def.Err() != nil {
		return fmt.Errorf("looking up #Design definition: %w", def.Err())
	}

	err = def.Unify(dataValue).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var msgs []string
	for _, e := range cueerrors.Errors(err) {
		msgs = append(msgs, e.Error())
	}

	return fmt.Errorf("design does not match schema: %s", strings.Join(msgs, "; "))
}

type designBuilder struct {
	design   *m.Design
	typedefs map[string]m.TypespecID
}

func (b *designBuilder) addTypedef(td typedefDecl) error {
	if _, ok := b.typedefs[td.Name]; ok {
		return fmt.Errorf("typedef %q declared twice", td.Name)
	}

	id, err := b.buildType(td.Type, td.Name)
	if err != nil {
		return fmt.Errorf("typedef %q: %w", td.Name, err)
	}

	b.typedefs[td.Name] = id

	return nil
}

func (b *designBuilder) addScope(parent m.ScopeID, sd scopeDecl) error {
	kind := m.ScopeModule
	if sd.Kind == "gen" {
		kind = m.ScopeGen
	}

	def := sd.Def
	if def == "" && kind == m.ScopeModule {
		def = sd.Name
	}

	id, err := b.design.AddScope(parent, m.Scope{Name: sd.Name, DefName: def, Kind: kind})
	if err != nil {
		return err
	}

	for _, ed := range sd.Elements {
		if err := b.addElement(id, ed); err != nil {
			return fmt.Errorf("%s: %w", b.design.ScopeFullName(id), err)
		}
	}

	for _, pd := range sd.Ports {
		if err := b.design.AddPort(id, pd.Name, portDirection(pd.Direction)); err != nil {
			return err
		}
	}

	for _, child := range sd.Scopes {
		if err := b.addScope(id, child); err != nil {
			return err
		}
	}

	return nil
}

func (b *designBuilder) addElement(scope m.ScopeID, ed elementDecl) error {
	class := m.ClassVariable

	switch ed.Class {
	case "net":
		class = m.ClassNet
	case "parameter":
		class = m.ClassParameter
	}

	decl := typeDecl{Kind: "untyped"}
	if ed.Type != nil {
		decl = *ed.Type
	}

	if decl.Kind == "" && decl.Ref == "" {
		decl.Kind = "untyped"
	}

	if decl.Kind == "untyped" && class != m.ClassParameter {
		return fmt.Errorf("element %q has no type", ed.Name)
	}

	ts, err := b.buildType(decl, "")
	if err != nil {
		return fmt.Errorf("element %q: %w", ed.Name, err)
	}

	_, err = b.design.AddElement(scope, m.Element{
		Name:       ed.Name,
		Class:      class,
		Type:       ts,
		Constant:   ed.Constant,
		Automatic:  ed.Automatic,
		Visibility: visibility(ed.Visibility),
		Init:       ed.Init,
	})

	return err
}

// buildType resolves a declaration to an interned typespec. Packed
// dimensions on anything but logic and bit become packed-array levels;
// unpacked dimensions become array levels, outermost first.
func (b *designBuilder) buildType(decl typeDecl, name string) (m.TypespecID, error) {
	base, packedDone, err := b.baseType(decl, name)
	if err != nil {
		return m.NoTypespec, err
	}

	id := base

	if !packedDone {
		for i := len(decl.Packed) - 1; i >= 0; i-- {
			id = b.design.Intern(m.Typespec{Kind: m.KindPackedArray, Elem: id, Range: toRange(decl.Packed[i])})
		}
	}

	if len(decl.Unpacked) > 0 {
		switch b.design.Typespec(base).Kind {
		case m.KindReal, m.KindString, m.KindUntyped:
			return m.NoTypespec, fmt.Errorf("unpacked arrays of %s are not supported", b.design.Typespec(base).Kind)
		}
	}

	for i := len(decl.Unpacked) - 1; i >= 0; i-- {
		id = b.design.Intern(m.Typespec{Kind: m.KindArray, Elem: id, Range: toRange(decl.Unpacked[i])})
	}

	return id, nil
}

func (b *designBuilder) baseType(decl typeDecl, name string) (m.TypespecID, bool, error) {
	if decl.Ref != "" {
		id, ok := b.typedefs[decl.Ref]
		if !ok {
			return m.NoTypespec, false, fmt.Errorf("unknown type %q", decl.Ref)
		}

		return id, false, nil
	}

	kind, ok := m.ParseTypeKind(decl.Kind)
	if !ok {
		return m.NoTypespec, false, fmt.Errorf("unknown kind %q", decl.Kind)
	}

	ts := m.Typespec{Kind: kind, Name: name, Signed: decl.Signed}

	switch kind {
	case m.KindLogic, m.KindBit:
		for _, d := range decl.Packed {
			ts.Dims = append(ts.Dims, toRange(d))
		}

		return b.design.Intern(ts), true, nil
	case m.KindReal, m.KindString:
		if len(decl.Packed) > 0 {
			return m.NoTypespec, false, fmt.Errorf("%s cannot have packed dimensions", kind)
		}
	case m.KindUntyped:
		if len(decl.Packed) > 0 {
			return m.NoTypespec, false, fmt.Errorf("%s cannot have packed dimensions", kind)
		}

		ts.Width = decl.Width
	case m.KindStruct, m.KindUnion:
		for _, md := range decl.Members {
			if len(md.Type.Unpacked) > 0 {
				return m.NoTypespec, false, fmt.Errorf("member %q: packed %s members cannot have unpacked dimensions", md.Name, kind)
			}

			mt, err := b.buildType(md.Type, "")
			if err != nil {
				return m.NoTypespec, false, fmt.Errorf("member %q: %w", md.Name, err)
			}

			if mk := b.design.Typespec(mt).Kind; !mk.IsIntegral() || mk == m.KindUntyped {
				return m.NoTypespec, false, fmt.Errorf("member %q: %s is not allowed in a packed %s", md.Name, mk, kind)
			}

			ts.Members = append(ts.Members, m.Member{Name: md.Name, Type: mt})
		}

		if len(ts.Members) == 0 {
			return m.NoTypespec, false, fmt.Errorf("%s has no members", kind)
		}
	}

	return b.design.Intern(ts), false, nil
}

func toRange(d []int) m.Range {
	return m.Range{Left: d[0], Right: d[1]}
}

func portDirection(dir string) int32 {
	switch dir {
	case "output":
		return m.DirOutput
	case "inout":
		return m.DirInout
	default:
		return m.DirInput
	}
}

func visibility(v string) int32 {
	switch v {
	case "protected":
		return m.ProtectedVis
	case "local":
		return m.LocalVis
	default:
		return m.PublicVis
	}
}

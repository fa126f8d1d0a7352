package kvt

import (
	"iter"
	"log/slog"
	"maps"
	"math"
	"slices"
)

// Node is an element of a tree: a [*Branch], a [*Scalar] or an [*Array].
//
// Only branches have children. The child operations of the two leaf variants
// either report an empty result or fail with [ErrUnsupportedOperation].
type Node interface {
	// Type returns [TypeNode] for branches and the declared type of leaves.
	Type() NodeType
	// TypeOf returns the type of the named child.
	TypeOf(name string) (NodeType, bool)
	// HasChild reports whether a child named name exists.
	HasChild(name string) bool
	// Keys returns the child names in lexicographic order.
	Keys() []string
	// Add inserts an empty branch at name, replacing any existing child.
	Add(name string) (*Branch, error)
	// Set inserts a leaf (or, for [TypeNode], a branch) of type t holding v at
	// name, replacing any existing child.
	Set(name string, t NodeType, v Payload) error
	// Get returns the payload of the named child as a plain Go value, or nil
	// if there is no such child.
	Get(name string) (any, error)
	// Equal reports whether the receiver and other are structurally equal.
	Equal(other Node) bool

	sealed()
}

// Branch is a node with named children. The zero value is an empty branch
// ready to use.
//
// A branch owns its children exclusively. It performs no locking; callers
// mutating one tree from several goroutines must serialize access.
type Branch struct {
	children map[string]Node
}

// NewBranch returns an empty branch.
func NewBranch() *Branch { return &Branch{} }

func (*Branch) sealed() {}

func (*Branch) Type() NodeType { return TypeNode }

func (b *Branch) TypeOf(name string) (NodeType, bool) {
	child, ok := b.children[name]
	if !ok {
		return TypeInvalid, false
	}

	return child.Type(), true
}

func (b *Branch) HasChild(name string) bool {
	_, ok := b.children[name]

	return ok
}

func (b *Branch) Keys() []string {
	if len(b.children) == 0 {
		return []string{}
	}

	return slices.Sorted(maps.Keys(b.children))
}

// Len returns the number of children.
func (b *Branch) Len() int { return len(b.children) }

// Child returns the named child node.
func (b *Branch) Child(name string) (Node, bool) {
	child, ok := b.children[name]

	return child, ok
}

// All returns an iterator over the children in key order.
func (b *Branch) All() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		for _, key := range b.Keys() {
			if !yield(key, b.children[key]) {
				return
			}
		}
	}
}

// Remove deletes the named child and reports whether it existed.
func (b *Branch) Remove(name string) bool {
	_, ok := b.children[name]
	delete(b.children, name)

	return ok
}

func (b *Branch) Add(name string) (*Branch, error) {
	child := NewBranch()
	b.insert(name, child)

	return child, nil
}

func (b *Branch) Set(name string, t NodeType, v Payload) error {
	if got := PayloadType(v); got != t || got == TypeInvalid {
		return ErrInvalidTypePairing.With(
			slog.String("key", name),
			slog.Any("type", t),
			slog.Any("payload", got),
		)
	}

	switch p := v.(type) {
	case *Branch:
		if p.reaches(b) {
			return ErrInvalidTypePairing.With(
				slog.String("key", name),
				slog.String("reason", "branch would contain itself"),
			)
		}

		b.insert(name, p)

	case NodeArray:
		for i, elem := range p {
			if elem == nil || elem.reaches(b) {
				return ErrInvalidTypePairing.With(
					slog.String("key", name),
					slog.Int("index", i),
					slog.String("reason", "nil or cyclic element"),
				)
			}
		}

		b.insert(name, &Array{typ: t, values: p})

	default:
		if t.IsArray() {
			b.insert(name, &Array{typ: t, values: v})
		} else {
			b.insert(name, &Scalar{typ: t, value: v})
		}
	}

	return nil
}

// Put is [Branch.Set] with the type inferred from v.
func (b *Branch) Put(name string, v Payload) error {
	return b.Set(name, PayloadType(v), v)
}

func (b *Branch) Get(name string) (any, error) {
	child, ok := b.children[name]
	if !ok {
		return nil, nil //nolint:nilnil
	}

	switch c := child.(type) {
	case *Branch:
		return c, nil
	case *Scalar:
		return hostValue(c.value), nil
	case *Array:
		return hostValue(c.values), nil
	default:
		return nil, nil //nolint:nilnil
	}
}

func (b *Branch) insert(name string, child Node) {
	if b.children == nil {
		b.children = make(map[string]Node)
	}

	b.children[name] = child
}

// reaches reports whether target is b or lies anywhere below b.
func (b *Branch) reaches(target *Branch) bool {
	if b == target {
		return true
	}

	for _, child := range b.children {
		switch c := child.(type) {
		case *Branch:
			if c.reaches(target) {
				return true
			}
		case *Array:
			if nodes, ok := c.values.(NodeArray); ok {
				for _, n := range nodes {
					if n != nil && n.reaches(target) {
						return true
					}
				}
			}
		}
	}

	return false
}

func (b *Branch) Equal(other Node) bool {
	o, ok := other.(*Branch)
	if !ok || o == nil || b == nil {
		return ok && o == nil && b == nil
	}

	if len(b.children) != len(o.children) {
		return false
	}

	for key, child := range b.children {
		oc, ok := o.children[key]
		if !ok || !child.Equal(oc) {
			return false
		}
	}

	return true
}

// Clone returns a deep copy of b.
func (b *Branch) Clone() *Branch {
	if b == nil {
		return nil
	}

	c := NewBranch()

	for key, child := range b.children {
		switch n := child.(type) {
		case *Branch:
			c.insert(key, n.Clone())
		case *Scalar:
			c.insert(key, &Scalar{typ: n.typ, value: n.value})
		case *Array:
			c.insert(key, &Array{typ: n.typ, values: clonePayload(n.values)})
		}
	}

	return c
}

// Scalar is a leaf holding a single value.
type Scalar struct {
	typ   NodeType
	value Payload
}

func (*Scalar) sealed() {}

func (s *Scalar) Type() NodeType { return s.typ }

// Value returns the payload of s.
func (s *Scalar) Value() Payload { return s.value }

func (*Scalar) TypeOf(string) (NodeType, bool) { return TypeInvalid, false }
func (*Scalar) HasChild(string) bool           { return false }
func (*Scalar) Keys() []string                 { return []string{} }

func (s *Scalar) Add(name string) (*Branch, error) {
	return nil, leafError(s, "add", name)
}

func (s *Scalar) Set(name string, _ NodeType, _ Payload) error {
	return leafError(s, "set", name)
}

func (s *Scalar) Get(name string) (any, error) {
	return nil, leafError(s, "get", name)
}

func (s *Scalar) Equal(other Node) bool {
	o, ok := other.(*Scalar)
	if !ok || o.typ != s.typ {
		return false
	}

	switch v := s.value.(type) {
	case Float:
		return floatEqual(float64(v), float64(o.value.(Float)))
	case Double:
		return floatEqual(float64(v), float64(o.value.(Double)))
	default:
		return s.value == o.value
	}
}

// Array is a leaf holding a homogeneous sequence of values.
type Array struct {
	typ    NodeType
	values Payload
}

func (*Array) sealed() {}

func (a *Array) Type() NodeType { return a.typ }

// Values returns the payload of a.
func (a *Array) Values() Payload { return a.values }

// Len returns the number of elements.
func (a *Array) Len() int { return arrayLen(a.values) }

func (*Array) TypeOf(string) (NodeType, bool) { return TypeInvalid, false }
func (*Array) HasChild(string) bool           { return false }
func (*Array) Keys() []string                 { return []string{} }

func (a *Array) Add(name string) (*Branch, error) {
	return nil, leafError(a, "add", name)
}

func (a *Array) Set(name string, _ NodeType, _ Payload) error {
	return leafError(a, "set", name)
}

func (a *Array) Get(name string) (any, error) {
	return nil, leafError(a, "get", name)
}

func (a *Array) Equal(other Node) bool {
	o, ok := other.(*Array)
	if !ok || o.typ != a.typ || o.Len() != a.Len() {
		return false
	}

	switch v := a.values.(type) {
	case BoolArray:
		return slices.Equal(v, o.values.(BoolArray))
	case ByteArray:
		return slices.Equal(v, o.values.(ByteArray))
	case ShortArray:
		return slices.Equal(v, o.values.(ShortArray))
	case IntArray:
		return slices.Equal(v, o.values.(IntArray))
	case LongArray:
		return slices.Equal(v, o.values.(LongArray))
	case StringArray:
		return slices.Equal(v, o.values.(StringArray))
	case FloatArray:
		return slices.EqualFunc(v, o.values.(FloatArray), func(x, y float32) bool {
			return floatEqual(float64(x), float64(y))
		})
	case DoubleArray:
		return slices.EqualFunc(v, o.values.(DoubleArray), floatEqual)
	case NodeArray:
		return slices.EqualFunc(v, o.values.(NodeArray), func(x, y *Branch) bool {
			return x.Equal(y)
		})
	default:
		return false
	}
}

// floatEqual treats any two NaNs as equal.
func floatEqual(x, y float64) bool {
	return x == y || (math.IsNaN(x) && math.IsNaN(y))
}

func clonePayload(p Payload) Payload {
	switch v := p.(type) {
	case BoolArray:
		return slices.Clone(v)
	case ByteArray:
		return slices.Clone(v)
	case ShortArray:
		return slices.Clone(v)
	case IntArray:
		return slices.Clone(v)
	case LongArray:
		return slices.Clone(v)
	case FloatArray:
		return slices.Clone(v)
	case DoubleArray:
		return slices.Clone(v)
	case StringArray:
		return slices.Clone(v)
	case NodeArray:
		c := make(NodeArray, len(v))
		for i, n := range v {
			c[i] = n.Clone()
		}

		return c
	default:
		return p
	}
}

func leafError(n Node, op, name string) error {
	return ErrUnsupportedOperation.With(
		slog.String("op", op),
		slog.String("key", name),
		slog.Any("leaf", n.Type()),
	)
}

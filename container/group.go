package container

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a path does not name an existing node.
	ErrNotFound = errors.New("container: node not found")
	// ErrTypeMismatch is returned when a node exists but has a different kind.
	ErrTypeMismatch = errors.New("container: node type mismatch")
	// ErrExists is returned when writing to a path that is already taken.
	ErrExists = errors.New("container: node already exists")
	// ErrInvalidPath is returned for paths that escape their group.
	ErrInvalidPath = errors.New("container: invalid path")
)

// Kind identifies what a node stores.
type Kind uint8

const (
	KindGroup Kind = iota + 1
	KindString
	KindInt
	KindMatrix
	KindUintMatrix
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindMatrix:
		return "matrix"
	case KindUintMatrix:
		return "uint-matrix"
	case KindBytes:
		return "bytes"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

type node struct {
	kind     Kind
	children map[string]*node

	str    string
	num    int64
	rows   int
	cols   int
	floats []float64 // column-major
	uints  []uint32  // row-major
	raw    []byte

	attrs map[string]int64
}

func newGroupNode() *node {
	return &node{kind: KindGroup, children: make(map[string]*node)}
}

// Group is a named collection of groups and datasets. A Group is not safe
// for concurrent mutation.
type Group struct {
	n    *node
	path string
}

// NewRoot returns an empty root group.
func NewRoot() *Group {
	return &Group{n: newGroupNode(), path: "/"}
}

// Path returns the absolute path of g within its container.
func (g *Group) Path() string {
	return g.path
}

func splitPath(p string) ([]string, error) {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		switch s {
		case "", ".":
			continue
		case "..":
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
		segs = append(segs, s)
	}
	return segs, nil
}

func (g *Group) abs(segs []string) string {
	return path.Join(append([]string{g.path}, segs...)...)
}

// walk resolves segs below g. When create is set, missing groups are made.
func (g *Group) walk(segs []string, create bool) (*node, error) {
	cur := g.n
	for i, s := range segs {
		if cur.kind != KindGroup {
			return nil, fmt.Errorf("%w: %s is a %s, not a group", ErrTypeMismatch, g.abs(segs[:i]), cur.kind)
		}
		next, ok := cur.children[s]
		if !ok {
			if !create {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, g.abs(segs[:i+1]))
			}
			next = newGroupNode()
			cur.children[s] = next
		}
		cur = next
	}
	return cur, nil
}

func (g *Group) lookup(p string) (*node, error) {
	segs, err := splitPath(p)
	if err != nil {
		return nil, err
	}
	return g.walk(segs, false)
}

// insert places n at p, creating intermediate groups.
func (g *Group) insert(p string, n *node) error {
	segs, err := splitPath(p)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return fmt.Errorf("%w: empty name", ErrInvalidPath)
	}
	parent, err := g.walk(segs[:len(segs)-1], true)
	if err != nil {
		return err
	}
	if parent.kind != KindGroup {
		return fmt.Errorf("%w: %s is a %s, not a group", ErrTypeMismatch, g.abs(segs[:len(segs)-1]), parent.kind)
	}
	name := segs[len(segs)-1]
	if _, ok := parent.children[name]; ok {
		return fmt.Errorf("%w: %s", ErrExists, g.abs(segs))
	}
	parent.children[name] = n
	return nil
}

// CreateGroup creates the group at p along with any missing parents.
func (g *Group) CreateGroup(p string) (*Group, error) {
	n := newGroupNode()
	if err := g.insert(p, n); err != nil {
		return nil, err
	}
	segs, _ := splitPath(p)
	return &Group{n: n, path: g.abs(segs)}, nil
}

// OpenGroup opens the existing group at p.
func (g *Group) OpenGroup(p string) (*Group, error) {
	n, err := g.lookup(p)
	if err != nil {
		return nil, err
	}
	segs, _ := splitPath(p)
	if n.kind != KindGroup {
		return nil, fmt.Errorf("%w: %s is a %s, not a group", ErrTypeMismatch, g.abs(segs), n.kind)
	}
	return &Group{n: n, path: g.abs(segs)}, nil
}

// Exists reports whether p names a node.
func (g *Group) Exists(p string) bool {
	_, err := g.lookup(p)
	return err == nil
}

// Kind returns the kind of the node at p.
func (g *Group) Kind(p string) (Kind, error) {
	n, err := g.lookup(p)
	if err != nil {
		return 0, err
	}
	return n.kind, nil
}

// Names returns the sorted names of g's direct children.
func (g *Group) Names() []string {
	names := make([]string, 0, len(g.n.children))
	for name := range g.n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remove deletes the node at p and everything below it.
func (g *Group) Remove(p string) error {
	segs, err := splitPath(p)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return fmt.Errorf("%w: cannot remove a group from itself", ErrInvalidPath)
	}
	parent, err := g.walk(segs[:len(segs)-1], false)
	if err != nil {
		return err
	}
	name := segs[len(segs)-1]
	if parent.kind != KindGroup || parent.children[name] == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, g.abs(segs))
	}
	delete(parent.children, name)
	return nil
}

// Package tree holds the ordered rooted tree edited by asciitree and the
// prefix algorithm that renders it as an ASCII diagram.
package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrRootNode is returned for operations that are not allowed on the root.
	ErrRootNode = errors.New("operation not allowed on the root node")
	// ErrCycle is returned when a move would place a node under itself.
	ErrCycle = errors.New("cannot move a node into its own subtree")
	// ErrNotFound is returned when a node id is not part of the tree.
	ErrNotFound = errors.New("node not found")
	// ErrForeignNode is returned when a node belongs to a different tree.
	ErrForeignNode = errors.New("node belongs to another tree")
)

// Default placeholders substituted for empty labels.
const (
	DefaultRootPlaceholder   = "root"
	DefaultBranchPlaceholder = "unnamed"
)

// Node is a single labeled entry of a Tree.
type Node struct {
	ID    string
	Label string

	children []*Node
	parent   *Node
	tree     *Tree
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the node's children in order. Reshaping the
// tree goes through the Tree methods.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	return append([]*Node(nil), n.children...)
}

// IsRoot reports whether n is the root of its tree.
func (n *Node) IsRoot() bool { return n.parent == nil }

// IsLast reports whether n is the final entry of its parent's children.
// The root is treated as last.
func (n *Node) IsLast() bool {
	if n.parent == nil {
		return true
	}
	siblings := n.parent.children
	return len(siblings) > 0 && siblings[len(siblings)-1] == n
}

// Depth is 0 for the root, 1 for its children, and so on.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// IsAncestorOf reports whether n is other or one of other's ancestors.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Unnamed reports whether the label is empty or only whitespace.
func (n *Node) Unnamed() bool { return strings.TrimSpace(n.Label) == "" }

// DisplayLabel returns the label, or the tree's placeholder when it is empty.
func (n *Node) DisplayLabel() string {
	if !n.Unnamed() {
		return n.Label
	}
	if n.tree == nil {
		if n.parent == nil {
			return DefaultRootPlaceholder
		}
		return DefaultBranchPlaceholder
	}
	if n.parent == nil {
		return n.tree.RootPlaceholder
	}
	return n.tree.BranchPlaceholder
}

// Tree is an ordered rooted tree. It is not safe for concurrent use.
type Tree struct {
	RootPlaceholder   string
	BranchPlaceholder string

	root  *Node
	index map[string]*Node
}

// New creates a tree whose root carries the given label.
func New(rootLabel string) *Tree {
	t := &Tree{
		RootPlaceholder:   DefaultRootPlaceholder,
		BranchPlaceholder: DefaultBranchPlaceholder,
		index:             make(map[string]*Node),
	}
	t.root = t.newNode(rootLabel)
	return t
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Len returns the number of nodes including the root.
func (t *Tree) Len() int { return len(t.index) }

// Find looks up a node by id.
func (t *Tree) Find(id string) (*Node, error) {
	n, ok := t.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return n, nil
}

func (t *Tree) newNode(label string) *Node {
	n := &Node{ID: uuid.New().String(), Label: label, tree: t}
	t.index[n.ID] = n
	return n
}

func (t *Tree) owns(n *Node) error {
	if n == nil || n.tree != t {
		return ErrForeignNode
	}
	if _, ok := t.index[n.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, n.ID)
	}
	return nil
}

// AddChild appends a new empty-labeled node as the last child of parent.
func (t *Tree) AddChild(parent *Node) (*Node, error) {
	if err := t.owns(parent); err != nil {
		return nil, err
	}
	child := t.newNode("")
	child.parent = parent
	parent.children = append(parent.children, child)
	return child, nil
}

// AddSibling appends a new empty-labeled node as the last child of n's parent.
func (t *Tree) AddSibling(n *Node) (*Node, error) {
	if err := t.owns(n); err != nil {
		return nil, err
	}
	if n.parent == nil {
		return nil, ErrRootNode
	}
	return t.AddChild(n.parent)
}

// DeleteSubtree detaches n and everything beneath it.
func (t *Tree) DeleteSubtree(n *Node) error {
	if err := t.owns(n); err != nil {
		return err
	}
	if n.parent == nil {
		return ErrRootNode
	}
	detach(n)
	t.forget(n)
	return nil
}

// MoveSubtree re-parents n as the last child of dest. The tree is left
// unchanged when dest lies inside n's subtree.
func (t *Tree) MoveSubtree(n, dest *Node) error {
	if err := t.owns(n); err != nil {
		return err
	}
	if err := t.owns(dest); err != nil {
		return err
	}
	if n.parent == nil {
		return ErrRootNode
	}
	if n.IsAncestorOf(dest) {
		return ErrCycle
	}
	detach(n)
	n.parent = dest
	dest.children = append(dest.children, n)
	return nil
}

// Clear removes every child of the root. The root label is kept.
func (t *Tree) Clear() {
	for _, c := range t.root.children {
		c.parent = nil
		t.forget(c)
	}
	t.root.children = nil
}

// Walk visits every node in pre-order, root first. Returning false from fn
// skips the node's children.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var visit func(n *Node)
	visit = func(n *Node) {
		if !fn(n) {
			return
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(t.root)
}

func detach(n *Node) {
	p := n.parent
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	if len(p.children) == 0 {
		p.children = nil
	}
	n.parent = nil
}

func (t *Tree) forget(n *Node) {
	delete(t.index, n.ID)
	for _, c := range n.children {
		t.forget(c)
	}
}

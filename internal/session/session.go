// Package session is the controller between user actions and the tree
// model. A Session owns one tree plus the transient editor state (active
// node, move mode, copy status) and re-renders the view after every
// mutation.
package session

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/asciitree/internal/clipboard"
	"github.com/ziadkadry99/asciitree/internal/demo"
	"github.com/ziadkadry99/asciitree/internal/tree"
)

var (
	// ErrNoActive is returned by interactive actions when no node is active.
	ErrNoActive = errors.New("no active node")
	// ErrNotArmed is returned by DropOnActive outside move mode.
	ErrNotArmed = errors.New("move mode is not armed")
)

// DefaultCopyReset is how long a copy status stays visible.
const DefaultCopyReset = 2 * time.Second

// State is the editor's interaction mode.
type State int

const (
	StateIdle State = iota
	StateMoveArmed
)

func (s State) String() string {
	switch s {
	case StateMoveArmed:
		return "move_armed"
	default:
		return "idle"
	}
}

// Options configures a Session.
type Options struct {
	RootLabel    string
	Placeholders tree.Placeholders
	Copier       clipboard.Copier
	CopyReset    time.Duration
	Ingest       IngestOptions
	Logger       *zap.Logger
}

// IngestOptions are the folder ingestion settings applied by Ingest.
type IngestOptions struct {
	Exclude []string
	Sort    bool
}

// Listener receives the view after each re-render. Listeners run outside
// the session lock but must not block.
type Listener func(View)

// Session is safe for concurrent use.
type Session struct {
	mu   sync.Mutex
	opts Options
	log  *zap.Logger
	tree *tree.Tree

	state      State
	active     *tree.Node
	moveSource *tree.Node

	bulk  int
	dirty bool

	listeners map[int]Listener
	nextID    int

	copyStatus clipboard.Status
	copyTimer  *time.Timer
	copyGen    int
}

// New creates a session with an empty tree.
func New(opts Options) *Session {
	if opts.Placeholders.Root == "" {
		opts.Placeholders.Root = tree.DefaultRootPlaceholder
	}
	if opts.Placeholders.Branch == "" {
		opts.Placeholders.Branch = tree.DefaultBranchPlaceholder
	}
	if opts.Copier == nil {
		opts.Copier = clipboard.System{}
	}
	if opts.CopyReset <= 0 {
		opts.CopyReset = DefaultCopyReset
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Session{
		opts:       opts,
		log:        log,
		listeners:  make(map[int]Listener),
		copyStatus: clipboard.StatusIdle,
	}
	s.tree = s.newTree(opts.RootLabel)
	return s
}

func (s *Session) newTree(rootLabel string) *tree.Tree {
	t := tree.New(rootLabel)
	s.applyPlaceholders(t)
	return t
}

func (s *Session) applyPlaceholders(t *tree.Tree) {
	t.RootPlaceholder = s.opts.Placeholders.Root
	t.BranchPlaceholder = s.opts.Placeholders.Branch
}

// Subscribe registers fn for view updates and returns its cancel func.
func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// mutate runs fn under the lock and, unless a bulk operation is in
// progress, re-renders and notifies listeners once fn succeeds.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.bulk > 0 {
		s.dirty = true
		s.mu.Unlock()
		return nil
	}
	v, ls := s.renderLocked()
	s.mu.Unlock()

	notify(ls, v)
	return nil
}

func (s *Session) renderLocked() (View, []Listener) {
	v := s.viewLocked()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	return v, ls
}

func notify(ls []Listener, v View) {
	for _, l := range ls {
		l(v)
	}
}

// BeginBulk suspends re-rendering until the matching EndBulk.
func (s *Session) BeginBulk() {
	s.mu.Lock()
	s.bulk++
	s.mu.Unlock()
}

// EndBulk resumes re-rendering and renders once if anything changed.
func (s *Session) EndBulk() {
	s.mu.Lock()
	if s.bulk > 0 {
		s.bulk--
	}
	if s.bulk > 0 || !s.dirty {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	v, ls := s.renderLocked()
	s.mu.Unlock()

	notify(ls, v)
}

func (s *Session) find(id string) (*tree.Node, error) {
	n, err := s.tree.Find(id)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return n, nil
}

// RootID returns the id of the root node.
func (s *Session) RootID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Root().ID
}

// AddSibling appends an empty sibling after the node's last sibling and
// returns its id.
func (s *Session) AddSibling(id string) (string, error) {
	var newID string
	err := s.mutate(func() error {
		n, err := s.find(id)
		if err != nil {
			return err
		}
		sib, err := s.tree.AddSibling(n)
		if err != nil {
			return fmt.Errorf("session: add sibling: %w", err)
		}
		newID = sib.ID
		return nil
	})
	return newID, err
}

// AddChild appends an empty child to the node and returns its id.
func (s *Session) AddChild(id string) (string, error) {
	var newID string
	err := s.mutate(func() error {
		n, err := s.find(id)
		if err != nil {
			return err
		}
		child, err := s.tree.AddChild(n)
		if err != nil {
			return fmt.Errorf("session: add child: %w", err)
		}
		newID = child.ID
		return nil
	})
	return newID, err
}

// Delete removes the node and its subtree.
func (s *Session) Delete(id string) error {
	return s.mutate(func() error {
		n, err := s.find(id)
		if err != nil {
			return err
		}
		if err := s.tree.DeleteSubtree(n); err != nil {
			return fmt.Errorf("session: delete: %w", err)
		}
		if s.active != nil && n.IsAncestorOf(s.active) {
			s.active = nil
		}
		if s.moveSource != nil && n.IsAncestorOf(s.moveSource) {
			s.resetMoveLocked()
		}
		return nil
	})
}

// Rename sets the node's label. Labels are not validated.
func (s *Session) Rename(id, label string) error {
	return s.mutate(func() error {
		n, err := s.find(id)
		if err != nil {
			return err
		}
		n.Label = label
		return nil
	})
}

// MoveTo re-parents the node as the last child of dest. Moving the armed
// move source completes the move and returns to idle.
func (s *Session) MoveTo(id, destID string) error {
	return s.mutate(func() error {
		n, err := s.find(id)
		if err != nil {
			return err
		}
		dest, err := s.find(destID)
		if err != nil {
			return err
		}
		if err := s.tree.MoveSubtree(n, dest); err != nil {
			return fmt.Errorf("session: move: %w", err)
		}
		if s.state == StateMoveArmed && n == s.moveSource {
			s.resetMoveLocked()
		}
		return nil
	})
}

// Clear removes every node below the root.
func (s *Session) Clear() error {
	return s.mutate(func() error {
		s.tree.Clear()
		s.active = nil
		s.resetMoveLocked()
		return nil
	})
}

// LoadDemo replaces the tree with the bundled demo tree.
func (s *Session) LoadDemo() error {
	t, err := demo.Tree(s.opts.Placeholders)
	if err != nil {
		return fmt.Errorf("session: load demo: %w", err)
	}
	return s.replace(t)
}

// LoadText replaces the tree with one parsed from exported text.
func (s *Session) LoadText(r io.Reader) error {
	t, err := tree.ParseWith(r, s.opts.Placeholders)
	if err != nil {
		return fmt.Errorf("session: load text: %w", err)
	}
	return s.replace(t)
}

func (s *Session) replace(t *tree.Tree) error {
	return s.mutate(func() error {
		s.applyPlaceholders(t)
		s.tree = t
		s.active = nil
		s.resetMoveLocked()
		return nil
	})
}

// Export returns the tree as ASCII text.
func (s *Session) Export() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Export()
}

// Close stops pending timers.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.copyTimer != nil {
		s.copyTimer.Stop()
		s.copyTimer = nil
	}
}

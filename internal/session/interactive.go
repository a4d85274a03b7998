package session

import (
	"fmt"

	"github.com/ziadkadry99/asciitree/internal/tree"
)

// The methods in this file are the interactive entry points: they act on
// the session's active (hovered) node and delegate to the id-based ones.

// Hover makes the node the active one. An empty id clears it. Hovering the
// node that is already active does not re-render.
func (s *Session) Hover(id string) error {
	s.mu.Lock()
	var n *tree.Node
	if id != "" {
		var err error
		if n, err = s.find(id); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	if n == s.active {
		s.mu.Unlock()
		return nil
	}
	s.active = n
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

func (s *Session) activeID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return "", ErrNoActive
	}
	return s.active.ID, nil
}

// AddSiblingActive adds a sibling to the active node.
func (s *Session) AddSiblingActive() (string, error) {
	id, err := s.activeID()
	if err != nil {
		return "", err
	}
	return s.AddSibling(id)
}

// AddChildActive adds a child to the active node.
func (s *Session) AddChildActive() (string, error) {
	id, err := s.activeID()
	if err != nil {
		return "", err
	}
	return s.AddChild(id)
}

// DeleteActive deletes the active node's subtree.
func (s *Session) DeleteActive() error {
	id, err := s.activeID()
	if err != nil {
		return err
	}
	return s.Delete(id)
}

// ArmMove enters move mode with the active node as the source.
func (s *Session) ArmMove() error {
	id, err := s.activeID()
	if err != nil {
		return err
	}
	return s.ArmMoveNode(id)
}

// ArmMoveNode enters move mode with the given node as the source.
func (s *Session) ArmMoveNode(id string) error {
	return s.mutate(func() error {
		n, err := s.find(id)
		if err != nil {
			return err
		}
		if n.IsRoot() {
			return fmt.Errorf("session: arm move: %w", tree.ErrRootNode)
		}
		s.state = StateMoveArmed
		s.moveSource = n
		return nil
	})
}

// DropOnActive moves the armed source under the active node and returns to
// idle. A rejected drop keeps move mode armed so another target can be
// picked.
func (s *Session) DropOnActive() error {
	return s.mutate(func() error {
		if s.state != StateMoveArmed || s.moveSource == nil {
			return ErrNotArmed
		}
		if s.active == nil {
			return ErrNoActive
		}
		if err := s.tree.MoveSubtree(s.moveSource, s.active); err != nil {
			return fmt.Errorf("session: drop: %w", err)
		}
		s.resetMoveLocked()
		return nil
	})
}

// CancelMove leaves move mode without changing the tree.
func (s *Session) CancelMove() error {
	return s.mutate(func() error {
		s.resetMoveLocked()
		return nil
	})
}

// State returns the current interaction mode.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) resetMoveLocked() {
	s.state = StateIdle
	s.moveSource = nil
}

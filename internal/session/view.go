package session

import (
	"github.com/ziadkadry99/asciitree/internal/clipboard"
	"github.com/ziadkadry99/asciitree/internal/tree"
)

// Row is one rendered line of the editor.
type Row struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Display     string `json:"display"`
	Prefix      string `json:"prefix"`
	Depth       int    `json:"depth"`
	Placeholder bool   `json:"placeholder"`
	Root        bool   `json:"root"`
	Active      bool   `json:"active"`

	CanAddSibling bool `json:"can_add_sibling"`
	CanDelete     bool `json:"can_delete"`
	CanMove       bool `json:"can_move"`
	MoveSource    bool `json:"move_source"`
	DropTarget    bool `json:"drop_target"`
}

// View is a full render of the session.
type View struct {
	Rows       []Row            `json:"rows"`
	State      string           `json:"state"`
	ActiveID   string           `json:"active_id,omitempty"`
	MoveSource string           `json:"move_source,omitempty"`
	CopyStatus clipboard.Status `json:"copy_status"`
	Export     string           `json:"export"`
}

// View renders the current session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		Rows:       make([]Row, 0, s.tree.Len()),
		State:      s.state.String(),
		CopyStatus: s.copyStatus,
		Export:     s.tree.Export(),
	}
	if s.active != nil {
		v.ActiveID = s.active.ID
	}
	if s.moveSource != nil {
		v.MoveSource = s.moveSource.ID
	}

	v.Rows = append(v.Rows, s.row(s.tree.Root(), ""))
	s.tree.ComputePrefixes(func(n *tree.Node, prefix string) {
		v.Rows = append(v.Rows, s.row(n, prefix))
	})
	return v
}

// row annotates a node with its prefix and the affordances the editor
// should offer for it.
func (s *Session) row(n *tree.Node, prefix string) Row {
	root := n.IsRoot()
	r := Row{
		ID:            n.ID,
		Label:         n.Label,
		Display:       n.DisplayLabel(),
		Prefix:        prefix,
		Depth:         n.Depth(),
		Placeholder:   n.Unnamed(),
		Root:          root,
		Active:        n == s.active,
		CanAddSibling: !root,
		CanDelete:     !root,
		CanMove:       !root && s.state == StateIdle,
	}
	if s.state == StateMoveArmed && s.moveSource != nil {
		r.MoveSource = n == s.moveSource
		r.DropTarget = !s.moveSource.IsAncestorOf(n)
	}
	return r
}

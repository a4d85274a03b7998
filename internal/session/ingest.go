package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/asciitree/internal/tree"
	"github.com/ziadkadry99/asciitree/internal/walker"
)

// lockedSink adds ingested nodes under the session lock so that the tree is
// never touched concurrently while listings are in flight.
type lockedSink struct {
	s *Session
}

func (l lockedSink) AddChild(parent *tree.Node, label string) (*tree.Node, error) {
	var n *tree.Node
	err := l.s.mutate(func() error {
		var err error
		n, err = l.s.tree.AddChild(parent)
		if err != nil {
			return err
		}
		n.Label = label
		return nil
	})
	return n, err
}

// Ingest seeds the session from the directory at path: the tree is
// cleared, the root takes the directory's name and the directory contents
// become its descendants. The view is rendered once when traversal ends.
// Partial failures are reported in the result; nodes added so far stay.
func (s *Session) Ingest(ctx context.Context, path string, onEntry func(string)) (walker.Result, error) {
	lister, name, err := walker.OpenDir(path)
	if err != nil {
		return walker.Result{}, fmt.Errorf("session: ingest: %w", err)
	}

	s.BeginBulk()
	defer s.EndBulk()

	var root *tree.Node
	_ = s.mutate(func() error {
		s.tree.Clear()
		s.tree.Root().Label = name
		s.active = nil
		s.resetMoveLocked()
		root = s.tree.Root()
		return nil
	})
	return s.ingest(ctx, lister, root, onEntry), nil
}

// IngestInto adds the directory at path as a new child of the node.
func (s *Session) IngestInto(ctx context.Context, path, parentID string, onEntry func(string)) (walker.Result, error) {
	lister, name, err := walker.OpenDir(path)
	if err != nil {
		return walker.Result{}, fmt.Errorf("session: ingest: %w", err)
	}

	s.BeginBulk()
	defer s.EndBulk()

	var dir *tree.Node
	err = s.mutate(func() error {
		parent, err := s.find(parentID)
		if err != nil {
			return err
		}
		dir, err = s.tree.AddChild(parent)
		if err != nil {
			return err
		}
		dir.Label = name
		return nil
	})
	if err != nil {
		return walker.Result{}, err
	}
	res := s.ingest(ctx, lister, dir, onEntry)
	res.Added++
	return res, nil
}

func (s *Session) ingest(ctx context.Context, lister walker.Lister, parent *tree.Node, onEntry func(string)) walker.Result {
	res := walker.Ingest(ctx, lister, ".", lockedSink{s: s}, parent, walker.Options{
		Exclude: s.opts.Ingest.Exclude,
		Sort:    s.opts.Ingest.Sort,
		OnEntry: onEntry,
		Logger:  s.log,
	})
	if res.Err != nil {
		s.log.Warn("folder ingestion finished with errors",
			zap.Int("added", res.Added), zap.Error(res.Err))
	} else {
		s.log.Info("folder ingested", zap.Int("added", res.Added))
	}
	return res
}

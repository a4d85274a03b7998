// Package walker seeds a tree from a directory on disk. Directory listings
// are requested asynchronously and their entries become tree nodes.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/ziadkadry99/asciitree/internal/tree"
)

// ErrNotDirectory is returned when a regular file is offered as the root.
var ErrNotDirectory = errors.New("not a directory")

// Entry is one item of a directory listing.
type Entry struct {
	Name string
	Dir  bool
}

// Lister produces directory listings. dir is a slash-separated path
// relative to the lister's root; "." is the root itself.
type Lister interface {
	List(ctx context.Context, dir string) ([]Entry, error)
}

// FSLister lists directories of an fs.FS.
type FSLister struct {
	FS fs.FS
}

// List implements Lister.
func (l *FSLister) List(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	des, err := fs.ReadDir(l.FS, dir)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		entries = append(entries, Entry{Name: de.Name(), Dir: de.IsDir()})
	}
	return entries, nil
}

// OpenDir returns a lister rooted at the directory p together with the
// directory's base name. Regular files are rejected with ErrNotDirectory.
func OpenDir(p string) (*FSLister, string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, "", fmt.Errorf("walker: resolve %s: %w", p, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, "", fmt.Errorf("walker: %w", err)
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("walker: %s: %w", p, ErrNotDirectory)
	}
	return &FSLister{FS: os.DirFS(abs)}, filepath.Base(abs), nil
}

// Sink receives the nodes created during ingestion.
type Sink interface {
	AddChild(parent *tree.Node, label string) (*tree.Node, error)
}

// TreeSink adds nodes straight to a tree. Callers sharing the tree between
// goroutines must provide their own locking Sink instead.
type TreeSink struct {
	Tree *tree.Tree
}

// AddChild implements Sink.
func (s TreeSink) AddChild(parent *tree.Node, label string) (*tree.Node, error) {
	n, err := s.Tree.AddChild(parent)
	if err != nil {
		return nil, err
	}
	n.Label = label
	return n, nil
}

// Options controls ingestion.
type Options struct {
	// Exclude holds doublestar patterns matched against the entry name and
	// its path relative to the ingested root.
	Exclude []string
	// Sort orders each listing directories first, then by name. When false
	// the lister's order is kept.
	Sort bool
	// OnEntry is called with the relative path of every added node.
	OnEntry func(rel string)
	Logger  *zap.Logger
}

// Result summarizes an ingestion. Err aggregates every listing failure;
// nodes added before a failure are kept.
type Result struct {
	Added int
	Err   error
}

type listing struct {
	entries []Entry
	err     error
}

type ingester struct {
	lister Lister
	sink   Sink
	opts   Options
	log    *zap.Logger
	added  int
	errs   *multierror.Error
}

// Ingest lists dir and appends its contents beneath parent. A
// subdirectory's subtree is complete before the next entry of its listing
// is processed.
func Ingest(ctx context.Context, lister Lister, dir string, sink Sink, parent *tree.Node, opts Options) Result {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	w := &ingester{lister: lister, sink: sink, opts: opts, log: log}
	w.ingestDir(ctx, dir, parent)

	if err := ctx.Err(); err != nil {
		w.errs = multierror.Append(w.errs, fmt.Errorf("walker: ingestion interrupted: %w", err))
	}
	return Result{Added: w.added, Err: w.errs.ErrorOrNil()}
}

// request starts a listing and returns the channel its result arrives on.
func (w *ingester) request(ctx context.Context, dir string) <-chan listing {
	ch := make(chan listing, 1)
	go func() {
		entries, err := w.lister.List(ctx, dir)
		ch <- listing{entries: entries, err: err}
	}()
	return ch
}

func (w *ingester) list(ctx context.Context, dir string) ([]Entry, error) {
	select {
	case res := <-w.request(ctx, dir):
		return res.entries, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (w *ingester) ingestDir(ctx context.Context, dir string, parent *tree.Node) {
	entries, err := w.list(ctx, dir)
	if err != nil {
		w.fail(dir, err)
		return
	}
	if w.opts.Sort {
		sortEntries(entries)
	}

	for _, e := range entries {
		if ctx.Err() != nil {
			return
		}
		rel := path.Join(dir, e.Name)
		if MatchesAny(rel, w.opts.Exclude) {
			continue
		}

		node, err := w.sink.AddChild(parent, e.Name)
		if err != nil {
			w.fail(rel, err)
			return
		}
		w.added++
		if w.opts.OnEntry != nil {
			w.opts.OnEntry(rel)
		}

		if e.Dir {
			w.ingestDir(ctx, rel, node)
		}
	}
}

func (w *ingester) fail(dir string, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	if errors.Is(err, fs.ErrPermission) {
		w.log.Warn("restricted file system access, skipping subtree",
			zap.String("dir", dir), zap.Error(err))
	} else {
		w.log.Error("directory listing failed, skipping subtree",
			zap.String("dir", dir), zap.Error(err))
	}
	w.errs = multierror.Append(w.errs, fmt.Errorf("%s: %w", dir, err))
}

// sortEntries orders directories first, then alphabetically.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Dir != entries[j].Dir {
			return entries[i].Dir
		}
		return entries[i].Name < entries[j].Name
	})
}

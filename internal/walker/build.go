package walker

import (
	"context"

	"github.com/ziadkadry99/asciitree/internal/tree"
)

// Build ingests the directory at path into a new tree whose root is named
// after the directory. Listing failures are reported in the Result and
// leave the rest of the tree intact.
func Build(ctx context.Context, path string, opts Options) (*tree.Tree, Result, error) {
	lister, name, err := OpenDir(path)
	if err != nil {
		return nil, Result{}, err
	}
	t := tree.New(name)
	res := Ingest(ctx, lister, ".", TreeSink{Tree: t}, t.Root(), opts)
	return t, res, nil
}

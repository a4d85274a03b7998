package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ziadkadry99/asciitree/internal/clipboard"
	"github.com/ziadkadry99/asciitree/internal/tree"
	"github.com/ziadkadry99/asciitree/internal/walker"
)

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Copier == nil {
		opts.Copier = clipboard.Func(func(string) error { return nil })
	}
	s := New(opts)
	t.Cleanup(s.Close)
	return s
}

// buildProject recreates the project/src/index.js/README.md example and
// returns the ids of src and README.md.
func buildProject(t *testing.T, s *Session) (string, string) {
	t.Helper()
	root := s.RootID()
	if err := s.Rename(root, "project"); err != nil {
		t.Fatalf("Rename root: %v", err)
	}
	src, err := s.AddChild(root)
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	s.Rename(src, "src")
	idx, err := s.AddChild(src)
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	s.Rename(idx, "index.js")
	readme, err := s.AddSibling(src)
	if err != nil {
		t.Fatalf("AddSibling: %v", err)
	}
	s.Rename(readme, "README.md")
	return src, readme
}

func TestProjectExample(t *testing.T) {
	s := newTestSession(t, Options{})
	src, readme := buildProject(t, s)

	want := "project\n|-- src\n|   \\-- index.js\n\\-- README.md"
	if got := s.Export(); got != want {
		t.Fatalf("Export() =\n%s\nwant\n%s", got, want)
	}

	if err := s.MoveTo(readme, src); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	want = "project\n\\-- src\n    |-- index.js\n    \\-- README.md"
	if got := s.Export(); got != want {
		t.Errorf("after move Export() =\n%s\nwant\n%s", got, want)
	}

	if err := s.Delete(src); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := s.Export(); got != "project" {
		t.Errorf("after delete Export() = %q", got)
	}
}

func TestDeleteExample(t *testing.T) {
	s := newTestSession(t, Options{})
	src, _ := buildProject(t, s)
	if err := s.Delete(src); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := s.Export(); got != "project\n\\-- README.md" {
		t.Errorf("Export() = %q", got)
	}
}

func TestRootOperationsRejected(t *testing.T) {
	s := newTestSession(t, Options{})
	root := s.RootID()

	if _, err := s.AddSibling(root); !errors.Is(err, tree.ErrRootNode) {
		t.Errorf("AddSibling(root) err = %v", err)
	}
	if err := s.Delete(root); !errors.Is(err, tree.ErrRootNode) {
		t.Errorf("Delete(root) err = %v", err)
	}
	if err := s.ArmMoveNode(root); !errors.Is(err, tree.ErrRootNode) {
		t.Errorf("ArmMoveNode(root) err = %v", err)
	}
	if err := s.Rename("missing", "x"); !errors.Is(err, tree.ErrNotFound) {
		t.Errorf("Rename(missing) err = %v", err)
	}
}

func TestViewAffordances(t *testing.T) {
	s := newTestSession(t, Options{})
	src, readme := buildProject(t, s)

	v := s.View()
	if len(v.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(v.Rows))
	}
	root := v.Rows[0]
	if !root.Root || root.CanDelete || root.CanAddSibling || root.CanMove || root.Prefix != "" {
		t.Errorf("root row affordances wrong: %+v", root)
	}
	wantPrefixes := []string{"", "|--", `|   \--`, `\--`}
	for i, r := range v.Rows {
		if r.Prefix != wantPrefixes[i] {
			t.Errorf("row %d prefix = %q, want %q", i, r.Prefix, wantPrefixes[i])
		}
	}
	if v.Rows[1].ID != src || v.Rows[3].ID != readme {
		t.Errorf("rows not in pre-order")
	}
	if v.State != "idle" {
		t.Errorf("state = %q", v.State)
	}
}

func TestPlaceholderRows(t *testing.T) {
	s := newTestSession(t, Options{Placeholders: tree.Placeholders{Root: "(root)", Branch: "(new)"}})
	if _, err := s.AddChild(s.RootID()); err != nil {
		t.Fatal(err)
	}
	v := s.View()
	if v.Rows[1].Display != "(new)" || !v.Rows[1].Placeholder {
		t.Errorf("placeholder row = %+v", v.Rows[1])
	}
	if v.Export != "(root)\n\\-- (new)" {
		t.Errorf("export = %q", v.Export)
	}
}

func TestMoveStateMachine(t *testing.T) {
	s := newTestSession(t, Options{})
	src, readme := buildProject(t, s)

	if err := s.ArmMove(); !errors.Is(err, ErrNoActive) {
		t.Fatalf("ArmMove without active err = %v", err)
	}
	if err := s.DropOnActive(); !errors.Is(err, ErrNotArmed) {
		t.Fatalf("DropOnActive idle err = %v", err)
	}

	s.Hover(src)
	if err := s.ArmMove(); err != nil {
		t.Fatalf("ArmMove: %v", err)
	}
	if s.State() != StateMoveArmed {
		t.Fatalf("state = %v", s.State())
	}

	v := s.View()
	for _, r := range v.Rows {
		switch {
		case r.ID == src && !r.MoveSource:
			t.Error("src should be flagged as move source")
		case r.Depth == 2 && r.DropTarget:
			t.Error("descendant of the source must not be a drop target")
		case r.ID == readme && !r.DropTarget:
			t.Error("README.md should be a drop target")
		}
	}

	// Dropping onto a descendant is rejected and keeps move mode armed.
	idx := v.Rows[2].ID
	s.Hover(idx)
	before := s.Export()
	if err := s.DropOnActive(); !errors.Is(err, tree.ErrCycle) {
		t.Fatalf("drop on descendant err = %v", err)
	}
	if s.Export() != before || s.State() != StateMoveArmed {
		t.Fatal("rejected drop must leave tree and state unchanged")
	}

	s.Hover(readme)
	if err := s.DropOnActive(); err != nil {
		t.Fatalf("DropOnActive: %v", err)
	}
	if s.State() != StateIdle {
		t.Errorf("state after drop = %v", s.State())
	}
	if got := s.Export(); got != "project\n\\-- README.md\n    \\-- src\n        \\-- index.js" {
		t.Errorf("Export() = %q", got)
	}
}

func TestCancelMoveAndDeleteSource(t *testing.T) {
	s := newTestSession(t, Options{})
	src, _ := buildProject(t, s)

	s.ArmMoveNode(src)
	s.CancelMove()
	if s.State() != StateIdle {
		t.Fatal("CancelMove should return to idle")
	}

	s.ArmMoveNode(src)
	s.Hover(src)
	if err := s.DeleteActive(); err != nil {
		t.Fatalf("DeleteActive: %v", err)
	}
	v := s.View()
	if s.State() != StateIdle || v.ActiveID != "" || v.MoveSource != "" {
		t.Errorf("deleting the source should reset session state: %+v", v)
	}
}

func TestMoveToArmedSourceReturnsToIdle(t *testing.T) {
	s := newTestSession(t, Options{})
	src, readme := buildProject(t, s)

	s.ArmMoveNode(src)
	if err := s.MoveTo(src, readme); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	v := s.View()
	if s.State() != StateIdle || v.MoveSource != "" {
		t.Errorf("moving the armed source should return to idle, got %v source %q", s.State(), v.MoveSource)
	}

	// Moving some other node leaves move mode alone.
	s.ArmMoveNode(readme)
	idx := v.Rows[3].ID
	if err := s.MoveTo(idx, s.RootID()); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	if s.State() != StateMoveArmed {
		t.Errorf("unrelated move changed state to %v", s.State())
	}
}

func TestHoverSameNodeDoesNotRender(t *testing.T) {
	s := newTestSession(t, Options{})
	child, _ := s.AddChild(s.RootID())
	renders := 0
	s.Subscribe(func(View) { renders++ })

	s.Hover(child)
	s.Hover(child)
	s.Hover(child)
	if renders != 1 {
		t.Errorf("repeated hover rendered %d times, want 1", renders)
	}
	s.Hover("")
	s.Hover("")
	if renders != 2 {
		t.Errorf("clearing hover twice rendered %d times, want 2", renders)
	}
	if err := s.Hover("missing"); !errors.Is(err, tree.ErrNotFound) {
		t.Errorf("Hover(missing) err = %v", err)
	}
}

func TestInteractiveAdds(t *testing.T) {
	s := newTestSession(t, Options{})
	if _, err := s.AddChildActive(); !errors.Is(err, ErrNoActive) {
		t.Fatalf("AddChildActive err = %v", err)
	}
	s.Hover(s.RootID())
	child, err := s.AddChildActive()
	if err != nil {
		t.Fatal(err)
	}
	s.Hover(child)
	if _, err := s.AddSiblingActive(); err != nil {
		t.Fatal(err)
	}
	if got := s.Export(); got != "root\n|-- unnamed\n\\-- unnamed" {
		t.Errorf("Export() = %q", got)
	}
}

func TestListenersAndBulk(t *testing.T) {
	s := newTestSession(t, Options{})
	var mu sync.Mutex
	var views []View
	cancel := s.Subscribe(func(v View) {
		mu.Lock()
		views = append(views, v)
		mu.Unlock()
	})

	s.AddChild(s.RootID())
	if len(views) != 1 {
		t.Fatalf("views after one mutation = %d", len(views))
	}

	s.BeginBulk()
	for i := 0; i < 5; i++ {
		s.AddChild(s.RootID())
	}
	if len(views) != 1 {
		t.Fatalf("bulk mutations must not render, got %d views", len(views))
	}
	s.EndBulk()
	if len(views) != 2 || len(views[1].Rows) != 7 {
		t.Fatalf("EndBulk should render once with all rows, got %d views", len(views))
	}

	s.BeginBulk()
	s.EndBulk()
	if len(views) != 2 {
		t.Error("an empty bulk operation must not render")
	}

	cancel()
	s.AddChild(s.RootID())
	if len(views) != 2 {
		t.Error("cancelled listener still notified")
	}
}

func TestLoadDemoAndText(t *testing.T) {
	s := newTestSession(t, Options{})
	if err := s.LoadDemo(); err != nil {
		t.Fatalf("LoadDemo: %v", err)
	}
	if !strings.HasPrefix(s.Export(), "my-app\n") {
		t.Errorf("demo not loaded: %q", s.Export())
	}

	if err := s.LoadText(strings.NewReader("x\n\\-- y")); err != nil {
		t.Fatalf("LoadText: %v", err)
	}
	if s.Export() != "x\n\\-- y" {
		t.Errorf("Export() = %q", s.Export())
	}
	if err := s.LoadText(strings.NewReader("x\nnot a tree line")); !errors.Is(err, tree.ErrMalformed) {
		t.Errorf("LoadText malformed err = %v", err)
	}
	if s.Export() != "x\n\\-- y" {
		t.Error("failed load must keep the previous tree")
	}
}

func TestClear(t *testing.T) {
	s := newTestSession(t, Options{})
	buildProject(t, s)
	s.Clear()
	if s.Export() != "project" {
		t.Errorf("Export() = %q", s.Export())
	}
}

func TestCopyStatusReverts(t *testing.T) {
	var copied string
	s := newTestSession(t, Options{
		CopyReset: 20 * time.Millisecond,
		Copier:    clipboard.Func(func(text string) error { copied = text; return nil }),
	})
	buildProject(t, s)

	if err := s.Copy(); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if copied != s.Export() {
		t.Errorf("copied %q", copied)
	}
	if s.CopyStatus() != clipboard.StatusCopied {
		t.Errorf("status = %q", s.CopyStatus())
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.CopyStatus() != clipboard.StatusIdle {
		if time.Now().After(deadline) {
			t.Fatal("copy status never reverted")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCopyFailure(t *testing.T) {
	boom := errors.New("no clipboard")
	s := newTestSession(t, Options{
		CopyReset: time.Hour,
		Copier:    clipboard.Func(func(string) error { return boom }),
	})
	if err := s.Copy(); !errors.Is(err, boom) {
		t.Fatalf("Copy err = %v", err)
	}
	if s.CopyStatus() != clipboard.StatusFailed {
		t.Errorf("status = %q", s.CopyStatus())
	}
	// The tree stays editable after a failed copy.
	if _, err := s.AddChild(s.RootID()); err != nil {
		t.Errorf("AddChild after failed copy: %v", err)
	}
}

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	proj := filepath.Join(dir, "proj")
	os.MkdirAll(filepath.Join(proj, "src"), 0755)
	os.WriteFile(filepath.Join(proj, "src", "main.go"), []byte("package main"), 0644)
	os.WriteFile(filepath.Join(proj, "go.mod"), []byte("module x"), 0644)
	os.MkdirAll(filepath.Join(proj, ".git"), 0755)

	s := newTestSession(t, Options{Ingest: IngestOptions{Sort: true, Exclude: []string{".git"}}})
	buildProject(t, s)

	renders := 0
	s.Subscribe(func(View) { renders++ })

	var entries []string
	res, err := s.Ingest(context.Background(), proj, func(rel string) { entries = append(entries, rel) })
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Err != nil || res.Added != 3 {
		t.Fatalf("result = %+v", res)
	}
	if got := s.Export(); got != "proj\n|-- src\n|   \\-- main.go\n\\-- go.mod" {
		t.Errorf("Export() = %q", got)
	}
	if renders != 1 {
		t.Errorf("renders = %d, want exactly 1", renders)
	}
	if len(entries) != 3 {
		t.Errorf("entries = %v", entries)
	}

	into, err := s.IngestInto(context.Background(), filepath.Join(proj, "src"), s.RootID(), nil)
	if err != nil || into.Added != 2 {
		t.Fatalf("IngestInto = %+v, %v", into, err)
	}
	if !strings.HasSuffix(s.Export(), "\\-- src\n    \\-- main.go") {
		t.Errorf("Export() = %q", s.Export())
	}

	if _, err := s.Ingest(context.Background(), filepath.Join(proj, "go.mod"), nil); !errors.Is(err, walker.ErrNotDirectory) {
		t.Errorf("Ingest(file) err = %v", err)
	}
}

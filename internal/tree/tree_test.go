package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildProject creates the project/src/index.js/README.md fixture.
func buildProject(t *testing.T) (*Tree, *Node, *Node, *Node) {
	t.Helper()
	tr := New("project")
	src, err := tr.AddChild(tr.Root())
	require.NoError(t, err)
	src.Label = "src"
	index, err := tr.AddChild(src)
	require.NoError(t, err)
	index.Label = "index.js"
	readme, err := tr.AddSibling(src)
	require.NoError(t, err)
	readme.Label = "README.md"
	return tr, src, index, readme
}

func TestAddChildAppendsInOrder(t *testing.T) {
	tr := New("r")
	a, err := tr.AddChild(tr.Root())
	require.NoError(t, err)
	b, err := tr.AddChild(tr.Root())
	require.NoError(t, err)

	require.Len(t, tr.Root().Children(), 2)
	assert.Same(t, a, tr.Root().Children()[0])
	assert.Same(t, b, tr.Root().Children()[1])
	assert.Same(t, tr.Root(), a.Parent())
	assert.Equal(t, "", a.Label)
	assert.Equal(t, 3, tr.Len())
}

func TestAddSiblingOnRoot(t *testing.T) {
	tr := New("r")
	_, err := tr.AddSibling(tr.Root())
	assert.ErrorIs(t, err, ErrRootNode)
	assert.Equal(t, 1, tr.Len())
}

func TestAddSiblingAppendsLast(t *testing.T) {
	tr, src, _, readme := buildProject(t)
	extra, err := tr.AddSibling(src)
	require.NoError(t, err)

	kids := tr.Root().Children()
	require.Len(t, kids, 3)
	assert.Same(t, src, kids[0])
	assert.Same(t, readme, kids[1])
	assert.Same(t, extra, kids[2])
}

func TestDeleteSubtree(t *testing.T) {
	tr, src, index, _ := buildProject(t)
	require.NoError(t, tr.DeleteSubtree(src))

	assert.Equal(t, "project\n\\-- README.md", tr.Export())
	assert.Equal(t, 2, tr.Len())
	_, err := tr.Find(index.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = tr.AddChild(index)
	assert.Error(t, err)
}

func TestDeleteRootRejected(t *testing.T) {
	tr, _, _, _ := buildProject(t)
	assert.ErrorIs(t, tr.DeleteSubtree(tr.Root()), ErrRootNode)
	assert.Equal(t, 4, tr.Len())
}

func TestChildrenReturnsCopy(t *testing.T) {
	tr, src, index, readme := buildProject(t)

	kids := tr.Root().Children()
	kids[0], kids[1] = kids[1], kids[0]
	_ = append(src.Children(), readme)

	assert.Equal(t, []*Node{src, readme}, tr.Root().Children())
	assert.Equal(t, []*Node{index}, src.Children())
	assert.Nil(t, index.Children())
	assert.Equal(t, "project\n|-- src\n|   \\-- index.js\n\\-- README.md", tr.Export())
}

func TestMoveSubtree(t *testing.T) {
	tr, src, index, readme := buildProject(t)
	require.NoError(t, tr.MoveSubtree(readme, src))

	require.Len(t, tr.Root().Children(), 1)
	assert.True(t, src.IsLast())
	assert.Equal(t, []*Node{index, readme}, src.Children())

	prefixes := tr.Annotate()
	assert.Equal(t, `\--`, prefixes[src.ID])
	assert.Equal(t, `    \--`, prefixes[readme.ID])
	assert.Equal(t, "    |--", prefixes[index.ID])
}

func TestMoveIntoOwnSubtreeRejected(t *testing.T) {
	tr, src, index, _ := buildProject(t)
	before := tr.Export()

	assert.ErrorIs(t, tr.MoveSubtree(src, index), ErrCycle)
	assert.ErrorIs(t, tr.MoveSubtree(src, src), ErrCycle)
	assert.ErrorIs(t, tr.MoveSubtree(tr.Root(), src), ErrRootNode)
	assert.Equal(t, before, tr.Export())
}

func TestMoveAcrossTreesRejected(t *testing.T) {
	a, srcA, _, _ := buildProject(t)
	b, srcB, _, _ := buildProject(t)
	assert.ErrorIs(t, a.MoveSubtree(srcA, srcB), ErrForeignNode)
	assert.Equal(t, 4, a.Len())
	assert.Equal(t, 4, b.Len())
}

func TestClearKeepsRootLabel(t *testing.T) {
	tr, _, _, _ := buildProject(t)
	tr.Clear()
	assert.Equal(t, "project", tr.Export())
	assert.Equal(t, 1, tr.Len())
	assert.Empty(t, tr.Root().Children())
}

func TestDepthAndAncestry(t *testing.T) {
	tr, src, index, readme := buildProject(t)
	assert.Equal(t, 0, tr.Root().Depth())
	assert.Equal(t, 1, src.Depth())
	assert.Equal(t, 2, index.Depth())
	assert.True(t, src.IsAncestorOf(index))
	assert.True(t, src.IsAncestorOf(src))
	assert.False(t, readme.IsAncestorOf(index))
	assert.True(t, tr.Root().IsRoot())
	assert.False(t, src.IsRoot())
}

func TestWalkSkipsChildren(t *testing.T) {
	tr, src, _, _ := buildProject(t)
	var seen []string
	tr.Walk(func(n *Node) bool {
		seen = append(seen, n.Label)
		return n != src
	})
	assert.Equal(t, []string{"project", "src", "README.md"}, seen)
}

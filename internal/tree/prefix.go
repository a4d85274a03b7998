package tree

import "strings"

// Connector and spacer tokens of the ASCII diagram.
const (
	ConnectorMiddle = "|--"
	ConnectorLast   = `\--`
	SpacerOpen      = "|   "
	SpacerBlank     = "    "
)

// Visitor receives every non-root node together with its full prefix.
type Visitor func(n *Node, prefix string)

// ComputePrefixes walks the root's children depth-first in pre-order and
// calls visit with each node's prefix. The root itself gets no prefix.
func (t *Tree) ComputePrefixes(visit Visitor) {
	computePrefixes(t.root.children, nil, visit)
}

func computePrefixes(children []*Node, spacers []string, visit Visitor) {
	for i, n := range children {
		isLast := i == len(children)-1

		connector := ConnectorMiddle
		if isLast {
			connector = ConnectorLast
		}
		visit(n, strings.Join(spacers, "")+connector)

		if len(n.children) == 0 {
			continue
		}
		spacer := SpacerOpen
		if isLast {
			spacer = SpacerBlank
		}
		// Full slice expression so sibling subtrees never share a backing array.
		next := append(spacers[:len(spacers):len(spacers)], spacer)
		computePrefixes(n.children, next, visit)
	}
}

// Annotate returns the prefix of every non-root node keyed by node id.
func (t *Tree) Annotate() map[string]string {
	out := make(map[string]string, len(t.index))
	t.ComputePrefixes(func(n *Node, prefix string) {
		out[n.ID] = prefix
	})
	return out
}

// Export renders the tree as newline-separated ASCII text. The first line
// is the root label; no line carries trailing whitespace.
func (t *Tree) Export() string {
	var b strings.Builder
	b.WriteString(trimLine(t.root.DisplayLabel()))
	t.ComputePrefixes(func(n *Node, prefix string) {
		b.WriteString("\n")
		b.WriteString(trimLine(prefix + " " + n.DisplayLabel()))
	})
	return b.String()
}

func trimLine(s string) string { return strings.TrimRight(s, " \t\r") }

// String implements fmt.Stringer.
func (t *Tree) String() string { return t.Export() }

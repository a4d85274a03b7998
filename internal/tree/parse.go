package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrMalformed is returned by Parse for text that is not an ASCII tree.
var ErrMalformed = errors.New("malformed tree text")

// Placeholders configures the labels substituted for empty names.
type Placeholders struct {
	Root   string
	Branch string
}

// markers are the connector tokens Parse understands, including the ones
// emitted by the unix tree command.
var markers = []string{ConnectorMiddle, ConnectorLast, "`--", "+--", "├──", "└──"}

// Parse reads text produced by Export (or by the tree command) back into a
// Tree using the default placeholders.
func Parse(r io.Reader) (*Tree, error) {
	return ParseWith(r, Placeholders{Root: DefaultRootPlaceholder, Branch: DefaultBranchPlaceholder})
}

// ParseWith is Parse with custom placeholders. Labels equal to a
// placeholder are read back as empty.
func ParseWith(r io.Reader, ph Placeholders) (*Tree, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024), 1024*1024)

	var t *Tree
	// stack[d] is the most recent node at depth d.
	var stack []*Node
	lineNum := 0

	for sc.Scan() {
		lineNum++
		raw := strings.TrimRight(sc.Text(), "\r\n")
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if t == nil {
			t = New(trimPlaceholder(line, ph.Root))
			t.RootPlaceholder = ph.Root
			t.BranchPlaceholder = ph.Branch
			stack = []*Node{t.root}
			continue
		}

		if isTreeSummary(line) {
			continue
		}

		depth, label, ok := parseLine(raw)
		if !ok {
			return nil, fmt.Errorf("line %d: %w: %q", lineNum, ErrMalformed, raw)
		}
		if depth > len(stack) {
			return nil, fmt.Errorf("line %d: %w: skips a level", lineNum, ErrMalformed)
		}

		n, err := t.AddChild(stack[depth-1])
		if err != nil {
			return nil, err
		}
		n.Label = trimPlaceholder(label, ph.Branch)
		stack = append(stack[:depth], n)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: no root line", ErrMalformed)
	}
	return t, nil
}

// parseLine returns the 1-based depth and label of a connector line.
func parseLine(line string) (int, string, bool) {
	idx := -1
	used := ""
	for _, m := range markers {
		if i := strings.Index(line, m); i != -1 && (idx == -1 || i < idx) {
			idx = i
			used = m
		}
	}
	if idx == -1 {
		return 0, "", false
	}
	column := utf8.RuneCountInString(line[:idx])
	label := strings.TrimSpace(line[idx+len(used):])
	return column/len(SpacerBlank) + 1, label, true
}

func trimPlaceholder(label, placeholder string) string {
	if label == placeholder {
		return ""
	}
	return label
}

// isTreeSummary matches the trailing "N directories, M files" line of the
// tree command.
func isTreeSummary(line string) bool {
	s := strings.ToLower(line)
	return strings.Contains(s, "director") && strings.Contains(s, "file") &&
		strings.IndexAny(s, "0123456789") == 0
}

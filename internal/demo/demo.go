// Package demo ships the canned tree offered by the editor's "load demo"
// action.
package demo

import (
	_ "embed"
	"strings"

	"github.com/ziadkadry99/asciitree/internal/tree"
)

//go:embed demo.txt
var demoText string

// Text returns the demo tree as exported ASCII text.
func Text() string {
	return strings.TrimSpace(demoText)
}

// Tree parses the demo text into a fresh tree.
func Tree(ph tree.Placeholders) (*tree.Tree, error) {
	return tree.ParseWith(strings.NewReader(demoText), ph)
}

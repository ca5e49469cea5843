package tree

import (
	"strings"
)

// Tree is a node of a constituency parse. Leaves hold a word in Label and have
// no children; preterminals hold a part-of-speech tag over exactly one leaf.
type Tree struct {
	Label    string
	Children []*Tree
}

// TaggedWord pairs a token with its part-of-speech tag.
type TaggedWord struct {
	Word string `json:"word" yaml:"word"`
	Tag  string `json:"tag" yaml:"tag"`
}

func (w TaggedWord) String() string {
	return w.Word + "/" + w.Tag
}

// New builds an interior node.
func New(label string, children ...*Tree) *Tree {
	return &Tree{Label: label, Children: children}
}

// Leaf builds a word node.
func Leaf(word string) *Tree {
	return &Tree{Label: word}
}

// Pre builds a preterminal: tag over a single word.
func Pre(tag, word string) *Tree {
	return &Tree{Label: tag, Children: []*Tree{Leaf(word)}}
}

func (t *Tree) IsLeaf() bool {
	return len(t.Children) == 0
}

func (t *Tree) IsPreTerminal() bool {
	return len(t.Children) == 1 && t.Children[0].IsLeaf()
}

// IsPhrasal reports whether the node is neither a leaf nor a preterminal.
func (t *Tree) IsPhrasal() bool {
	return !t.IsLeaf() && !t.IsPreTerminal()
}

// Preterminals returns the preterminal nodes in left-to-right order.
func (t *Tree) Preterminals() []*Tree {
	var out []*Tree
	var walk func(*Tree)
	walk = func(n *Tree) {
		if n.IsPreTerminal() {
			out = append(out, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t)
	return out
}

// TaggedYield returns the (word, tag) sequence under this node.
func (t *Tree) TaggedYield() []TaggedWord {
	pts := t.Preterminals()
	out := make([]TaggedWord, 0, len(pts))
	for _, p := range pts {
		out = append(out, TaggedWord{Word: p.Children[0].Label, Tag: p.Label})
	}
	return out
}

// Yield returns the words under this node.
func (t *Tree) Yield() []string {
	var out []string
	var walk func(*Tree)
	walk = func(n *Tree) {
		if n.IsLeaf() {
			out = append(out, n.Label)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t)
	return out
}

// Copy returns a deep copy.
func (t *Tree) Copy() *Tree {
	if t == nil {
		return nil
	}
	c := &Tree{Label: t.Label}
	if len(t.Children) > 0 {
		c.Children = make([]*Tree, len(t.Children))
		for i, k := range t.Children {
			c.Children[i] = k.Copy()
		}
	}
	return c
}

// String renders the tree as a single bracketed line.
func (t *Tree) String() string {
	var sb strings.Builder
	writeFlat(&sb, t)
	return sb.String()
}

func writeFlat(sb *strings.Builder, t *Tree) {
	if t.IsLeaf() {
		sb.WriteString(t.Label)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(t.Label)
	for _, c := range t.Children {
		sb.WriteByte(' ')
		writeFlat(sb, c)
	}
	sb.WriteByte(')')
}

// PennString renders the tree in indented Penn Treebank layout. A preterminal
// stays on its parent's line when every sibling to its left is a preterminal.
func (t *Tree) PennString() string {
	var sb strings.Builder
	writePenn(&sb, t, 0)
	return sb.String()
}

func writePenn(sb *strings.Builder, t *Tree, indent int) {
	if t.IsLeaf() {
		sb.WriteString(t.Label)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(t.Label)
	leftPre := true
	for _, c := range t.Children {
		switch {
		case c.IsLeaf():
			sb.WriteByte(' ')
			sb.WriteString(c.Label)
		case c.IsPreTerminal() && leftPre:
			sb.WriteByte(' ')
			writePenn(sb, c, indent+2)
		default:
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", indent+2))
			writePenn(sb, c, indent+2)
		}
		leftPre = c.IsPreTerminal()
	}
	sb.WriteByte(')')
}

package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// RootLabel is given to a top-level node written with an empty label, as in
// "( (S ...) )" Penn Treebank files.
const RootLabel = "ROOT"

var errUnexpectedEOF = errors.New("unexpected end of input")

// Parse reads exactly one bracketed tree from s.
func Parse(s string) (*Tree, error) {
	trees, err := Read(strings.NewReader(s))
	if err != nil {
		return nil, err
	}
	if len(trees) != 1 {
		return nil, fmt.Errorf("expected 1 tree, got %d", len(trees))
	}
	return trees[0], nil
}

// Read parses every bracketed tree in r. Lines starting with '#' outside a tree
// are comments.
func Read(r io.Reader) ([]*Tree, error) {
	lx := &lexer{r: bufio.NewReader(r), line: 1}
	var trees []*Tree
	for {
		tok, err := lx.next()
		if err == io.EOF {
			return trees, nil
		}
		if err != nil {
			return nil, err
		}
		if tok != "(" {
			return nil, fmt.Errorf("line %d: expected '(' at start of tree, got %q", lx.line, tok)
		}
		t, err := readNode(lx)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", len(trees)+1, err)
		}
		if t.Label == "" {
			t.Label = RootLabel
		}
		trees = append(trees, t)
	}
}

// readNode is called just after an opening bracket.
func readNode(lx *lexer) (*Tree, error) {
	n := &Tree{}
	first := true
	for {
		tok, err := lx.next()
		if err == io.EOF {
			return nil, fmt.Errorf("line %d: %w", lx.line, errUnexpectedEOF)
		}
		if err != nil {
			return nil, err
		}
		switch tok {
		case "(":
			child, err := readNode(lx)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case ")":
			if len(n.Children) == 0 {
				return nil, fmt.Errorf("line %d: empty constituent %q", lx.line, n.Label)
			}
			return n, nil
		default:
			if first {
				n.Label = tok
			} else {
				n.Children = append(n.Children, Leaf(tok))
			}
		}
		first = false
	}
}

type lexer struct {
	r     *bufio.Reader
	line  int
	depth int
}

func (lx *lexer) next() (string, error) {
	for {
		r, _, err := lx.r.ReadRune()
		if err != nil {
			return "", err
		}
		switch {
		case r == '\n':
			lx.line++
		case unicode.IsSpace(r):
		case r == '#' && lx.depth == 0:
			if _, err := lx.r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
			lx.line++
		case r == '(':
			lx.depth++
			return "(", nil
		case r == ')':
			if lx.depth == 0 {
				return "", fmt.Errorf("line %d: unbalanced ')'", lx.line)
			}
			lx.depth--
			return ")", nil
		default:
			var sb strings.Builder
			sb.WriteRune(r)
			for {
				r, _, err := lx.r.ReadRune()
				if err == io.EOF {
					return sb.String(), nil
				}
				if err != nil {
					return "", err
				}
				if r == '(' || r == ')' || unicode.IsSpace(r) {
					if err := lx.r.UnreadRune(); err != nil {
						return "", err
					}
					return sb.String(), nil
				}
				sb.WriteRune(r)
			}
		}
	}
}

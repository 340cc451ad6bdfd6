// Package parser reads Endless Sky data files.
//
// A data file is a tree of nodes. Each line holds one node made of
// whitespace separated tokens; a token containing spaces is quoted with
// "double quotes" or `backticks`. Indentation (tabs or spaces) nests a node
// under the closest less indented line above it. A # starts a comment.
package parser

import (
	"bufio"
	"fmt"
	"strings"
)

// Node is one line of a data file together with its nested lines.
type Node struct {
	Tokens   []string
	Children []*Node
	Line     int
}

// Key returns the first token.
func (n *Node) Key() string {
	if len(n.Tokens) == 0 {
		return ""
	}
	return n.Tokens[0]
}

// Size returns the number of tokens.
func (n *Node) Size() int {
	return len(n.Tokens)
}

// Token returns the i-th token or "" when there is none.
func (n *Node) Token(i int) string {
	if i < 0 || i >= len(n.Tokens) {
		return ""
	}
	return n.Tokens[i]
}

// ParseError reports malformed input.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ParseNodes splits text into its top level nodes.
func ParseNodes(text string) ([]*Node, error) {
	type frame struct {
		indent int
		node   *Node
	}

	var roots []*Node
	var stack []frame

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimRight(scanner.Text(), "\r")

		indent := 0
		for indent < len(raw) && (raw[indent] == '\t' || raw[indent] == ' ') {
			indent++
		}
		rest := raw[indent:]
		if rest == "" || rest[0] == '#' {
			continue
		}

		tokens, err := tokenize(rest)
		if err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}
		if len(tokens) == 0 {
			continue
		}
		n := &Node{Tokens: tokens, Line: line}

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			if indent != 0 {
				return nil, &ParseError{Line: line, Msg: "unexpected indentation"}
			}
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, n)
		}
		stack = append(stack, frame{indent: indent, node: n})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	return roots, nil
}

func tokenize(s string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(s) {
		c := s[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}
		if c == '#' {
			break
		}
		if c == '"' || c == '`' {
			end := strings.IndexByte(s[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("unterminated quote in %q", s)
			}
			tokens = append(tokens, s[i+1:i+1+end])
			i += end + 2
			continue
		}
		j := i
		for j < len(s) && s[j] != ' ' && s[j] != '\t' {
			j++
		}
		tokens = append(tokens, s[i:j])
		i = j
	}
	return tokens, nil
}

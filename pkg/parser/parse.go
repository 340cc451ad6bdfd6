package parser

import (
	"strings"

	"github.com/rmartinho/es-outfitter/pkg/data"
)

// Parser turns the text of one data file into records.
type Parser interface {
	Parse(text string) (*data.PluginData, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(text string) (*data.PluginData, error)

func (f ParserFunc) Parse(text string) (*data.PluginData, error) {
	return f(text)
}

// Default is the Endless Sky data file parser.
var Default Parser = ParserFunc(Parse)

// Parse reads the ships, variants and outfits defined in text. Other top
// level nodes are ignored. No filtering happens here.
func Parse(text string) (*data.PluginData, error) {
	nodes, err := ParseNodes(text)
	if err != nil {
		return nil, err
	}

	out := data.NewPluginData()
	for _, n := range nodes {
		switch n.Key() {
		case "ship":
			switch n.Size() {
			case 2:
				s := parseShip(n)
				out.Ships[s.Name] = s
			case 3:
				v := parseVariant(n)
				out.Variants[v.Name] = v
			default:
				return nil, &ParseError{Line: n.Line, Msg: "ship needs a name"}
			}
		case "outfit":
			if n.Size() < 2 {
				return nil, &ParseError{Line: n.Line, Msg: "outfit needs a name"}
			}
			o := parseOutfit(n)
			out.Outfits[o.Name] = o
		}
	}
	return out, nil
}

type mounts struct {
	guns, turrets, bays int
}

func (m *mounts) count(n *Node) bool {
	switch n.Key() {
	case "gun":
		m.guns++
	case "turret":
		m.turrets++
	case "bay":
		m.bays++
	default:
		return false
	}
	return true
}

func parseShip(n *Node) *data.Ship {
	s := &data.Ship{Name: n.Token(1)}
	var m mounts
	for _, c := range n.Children {
		switch {
		case m.count(c):
		case c.Key() == "thumbnail":
			s.Thumbnail = c.Token(1)
		case c.Key() == "attributes":
			for _, a := range c.Children {
				if a.Key() == "category" {
					s.Category = a.Token(1)
				}
			}
		}
	}
	s.Guns, s.Turrets, s.Bays = m.guns, m.turrets, m.bays
	return s
}

// parseVariant reads `ship <base> <name>`. Mount counts stay nil unless the
// variant lists mounts of that kind. Values under an attributes block are
// kept as extra attributes.
func parseVariant(n *Node) *data.Variant {
	v := &data.Variant{Base: n.Token(1), Name: n.Token(2)}
	var m mounts
	for _, c := range n.Children {
		switch {
		case m.count(c):
		case c.Key() == "thumbnail":
			v.Thumbnail = c.Token(1)
		case c.Key() == "attributes":
			for _, a := range c.Children {
				if a.Size() < 2 {
					continue
				}
				if v.Attributes == nil {
					v.Attributes = make(map[string]string)
				}
				v.Attributes[a.Key()] = strings.Join(a.Tokens[1:], " ")
			}
		}
	}
	v.Guns = nonZero(m.guns)
	v.Turrets = nonZero(m.turrets)
	v.Bays = nonZero(m.bays)
	return v
}

func parseOutfit(n *Node) *data.Outfit {
	o := &data.Outfit{Name: n.Token(1)}
	for _, c := range n.Children {
		switch c.Key() {
		case "category":
			o.Category = c.Token(1)
		case "thumbnail":
			o.Thumbnail = c.Token(1)
		}
	}
	return o
}

func nonZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

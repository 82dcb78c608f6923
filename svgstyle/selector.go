package svgstyle

import (
	"errors"
	"strings"
)

// Target is the view of an element the matcher needs. The document
// package implements it; keeping the interface here avoids a cycle.
type Target interface {
	TagName() string
	ID() string
	HasClass(class string) bool
	Attribute(name string) (string, bool)
}

// Specificity orders selectors: id count, then class plus attribute
// count, then tag count. Source order breaks ties at the cascade.
type Specificity [3]int

// Less reports whether s has lower precedence than other.
func (s Specificity) Less(other Specificity) bool {
	for i := range s {
		if s[i] != other[i] {
			return s[i] < other[i]
		}
	}
	return false
}

func (s Specificity) add(other Specificity) Specificity {
	return Specificity{s[0] + other[0], s[1] + other[1], s[2] + other[2]}
}

type simpleKind uint8

const (
	matchTag simpleKind = iota
	matchUniversal
	matchID
	matchClass
	matchAttrExists
	matchAttrEquals
)

type simpleSelector struct {
	kind  simpleKind
	name  string // tag, id, class or attribute name
	value string // attribute value for matchAttrEquals
}

func (s simpleSelector) matches(t Target) bool {
	switch s.kind {
	case matchUniversal:
		return true
	case matchTag:
		return t.TagName() == s.name
	case matchID:
		return t.ID() == s.name
	case matchClass:
		return t.HasClass(s.name)
	case matchAttrExists:
		_, ok := t.Attribute(s.name)
		return ok
	case matchAttrEquals:
		v, ok := t.Attribute(s.name)
		return ok && v == s.value
	}
	return false
}

func (s simpleSelector) specificity() Specificity {
	switch s.kind {
	case matchID:
		return Specificity{1, 0, 0}
	case matchClass, matchAttrExists, matchAttrEquals:
		return Specificity{0, 1, 0}
	case matchTag:
		return Specificity{0, 0, 1}
	}
	return Specificity{}
}

// Selector is one compound selector: a conjunction of simple
// selectors, all of which must match the same element.
type Selector struct {
	parts []simpleSelector
	spec  Specificity
}

// Specificity returns the selector's precedence triple.
func (sel Selector) Specificity() Specificity { return sel.spec }

// Matches reports whether the element satisfies every part.
func (sel Selector) Matches(t Target) bool {
	for _, p := range sel.parts {
		if !p.matches(t) {
			return false
		}
	}
	return len(sel.parts) > 0
}

var errBadSelector = errors.New("svgstyle: malformed selector")

// ParseSelector parses one compound selector (no combinators).
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t>+~") {
		return Selector{}, errBadSelector
	}
	var sel Selector
	for len(s) > 0 {
		var part simpleSelector
		var err error
		part, s, err = parseSimple(s)
		if err != nil {
			return Selector{}, err
		}
		sel.parts = append(sel.parts, part)
		sel.spec = sel.spec.add(part.specificity())
	}
	return sel, nil
}

func parseSimple(s string) (simpleSelector, string, error) {
	switch s[0] {
	case '*':
		return simpleSelector{kind: matchUniversal}, s[1:], nil
	case '#':
		name, rest := readIdent(s[1:])
		if name == "" {
			return simpleSelector{}, "", errBadSelector
		}
		return simpleSelector{kind: matchID, name: name}, rest, nil
	case '.':
		name, rest := readIdent(s[1:])
		if name == "" {
			return simpleSelector{}, "", errBadSelector
		}
		return simpleSelector{kind: matchClass, name: name}, rest, nil
	case '[':
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return simpleSelector{}, "", errBadSelector
		}
		body, rest := s[1:end], s[end+1:]
		if eq := strings.IndexByte(body, '='); eq >= 0 {
			name := strings.TrimSpace(body[:eq])
			value := strings.Trim(strings.TrimSpace(body[eq+1:]), "'\"")
			if name == "" {
				return simpleSelector{}, "", errBadSelector
			}
			return simpleSelector{kind: matchAttrEquals, name: name, value: value}, rest, nil
		}
		name := strings.TrimSpace(body)
		if name == "" {
			return simpleSelector{}, "", errBadSelector
		}
		return simpleSelector{kind: matchAttrExists, name: name}, rest, nil
	default:
		name, rest := readIdent(s)
		if name == "" {
			return simpleSelector{}, "", errBadSelector
		}
		return simpleSelector{kind: matchTag, name: name}, rest, nil
	}
}

func readIdent(s string) (ident, rest string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '#' || c == '.' || c == '[' || c == '*' {
			break
		}
		i++
	}
	return s[:i], s[i:]
}

// ParseSelectorList parses a comma-separated selector list. A
// malformed entry invalidates the whole list, matching CSS error
// handling for selector groups.
func ParseSelectorList(s string) ([]Selector, error) {
	var out []Selector
	for _, part := range strings.Split(s, ",") {
		sel, err := ParseSelector(part)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

package svgstyle

import (
	"log"
	"sort"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// Rule is one matchable unit of a style sheet: a single compound
// selector with its declarations and the position of its rule in the
// sheet, which breaks specificity ties.
type Rule struct {
	Selector     Selector
	Declarations []Property
	Order        int
}

// StyleSheet holds the parsed rules of one or more sheets, in source
// order across sheets.
type StyleSheet struct {
	Rules []Rule
}

// Parse appends the rules of a CSS sheet. Unparseable sheets are
// reported; rules with unsupported selectors or properties are dropped
// individually so the rest of the sheet still applies.
func (ss *StyleSheet) Parse(data string) error {
	sheet, err := parser.Parse(data)
	if err != nil {
		return err
	}
	for _, rule := range sheet.Rules {
		if rule.Kind != css.QualifiedRule {
			continue // at-rules are out of scope
		}
		decls := convertDeclarations(rule.Declarations)
		if len(decls) == 0 {
			continue
		}
		for _, selText := range rule.Selectors {
			sel, err := ParseSelector(selText)
			if err != nil {
				log.Printf("svgstyle: skipping selector %q: %s", selText, err)
				continue
			}
			ss.Rules = append(ss.Rules, Rule{
				Selector:     sel,
				Declarations: decls,
				Order:        len(ss.Rules),
			})
		}
	}
	return nil
}

// MatchingDeclarations collects the declarations of every rule
// matching the element, ordered by ascending specificity then source
// order, so later entries override earlier ones when applied in
// sequence.
func (ss *StyleSheet) MatchingDeclarations(t Target) []Property {
	type matched struct {
		spec  Specificity
		order int
		decls []Property
	}
	var hits []matched
	for _, r := range ss.Rules {
		if r.Selector.Matches(t) {
			hits = append(hits, matched{r.Selector.Specificity(), r.Order, r.Declarations})
		}
	}
	if len(hits) == 0 {
		return nil
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].spec != hits[j].spec {
			return hits[i].spec.Less(hits[j].spec)
		}
		return hits[i].order < hits[j].order
	})
	var out []Property
	for _, h := range hits {
		out = append(out, h.decls...)
	}
	return out
}

// ParseInline parses a style attribute value into properties,
// dropping unsupported or malformed declarations.
func ParseInline(style string) []Property {
	// douceur loses the value of a final declaration that has no
	// trailing semicolon, so always terminate the list
	decls, err := parser.ParseDeclarations(style + ";")
	if err != nil {
		log.Printf("svgstyle: unparseable style attribute %q: %s", style, err)
		return nil
	}
	return convertDeclarations(decls)
}

func convertDeclarations(decls []*css.Declaration) []Property {
	var out []Property
	for _, d := range decls {
		id, ok := LookupProp(strings.ToLower(strings.TrimSpace(d.Property)))
		if !ok {
			continue
		}
		val := strings.TrimSpace(d.Value)
		if val == "" {
			continue
		}
		out = append(out, Property{ID: id, Value: val})
	}
	return out
}

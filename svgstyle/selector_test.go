package svgstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	tag     string
	id      string
	classes []string
	attrs   map[string]string
}

func (f fakeTarget) TagName() string { return f.tag }
func (f fakeTarget) ID() string      { return f.id }
func (f fakeTarget) HasClass(c string) bool {
	for _, have := range f.classes {
		if have == c {
			return true
		}
	}
	return false
}
func (f fakeTarget) Attribute(name string) (string, bool) {
	v, ok := f.attrs[name]
	return v, ok
}

func TestParseSelectorMatching(t *testing.T) {
	el := fakeTarget{
		tag:     "rect",
		id:      "box",
		classes: []string{"wide", "red"},
		attrs:   map[string]string{"fill": "red", "data-x": "1"},
	}

	for _, sel := range []string{
		"rect", "*", "#box", ".wide", ".red",
		"rect.wide", "rect#box.red", "[fill]", "[fill=red]",
		`[fill="red"]`, "rect[data-x='1']",
	} {
		parsed, err := ParseSelector(sel)
		require.NoError(t, err, sel)
		assert.True(t, parsed.Matches(el), sel)
	}

	for _, sel := range []string{
		"circle", "#lid", ".narrow", "rect.narrow", "[stroke]", "[fill=blue]",
	} {
		parsed, err := ParseSelector(sel)
		require.NoError(t, err, sel)
		assert.False(t, parsed.Matches(el), sel)
	}
}

func TestParseSelectorErrors(t *testing.T) {
	for _, sel := range []string{"", "#", ".", "[", "[=x]", "g rect", "a > b"} {
		_, err := ParseSelector(sel)
		assert.Error(t, err, "%q", sel)
	}
}

func TestSpecificityOrdering(t *testing.T) {
	spec := func(s string) Specificity {
		sel, err := ParseSelector(s)
		require.NoError(t, err)
		return sel.Specificity()
	}

	assert.True(t, spec("rect").Less(spec(".a")))
	assert.True(t, spec(".a").Less(spec("#x")))
	assert.True(t, spec(".a").Less(spec(".a.b")))
	assert.True(t, spec("rect.a").Less(spec("#x")))
	assert.False(t, spec("#x").Less(spec("rect.a.b.c")))
	assert.Equal(t, spec(".a"), spec("[fill=red]"))
}

func TestParseSelectorList(t *testing.T) {
	sels, err := ParseSelectorList("rect, .wide ,#box")
	require.NoError(t, err)
	assert.Len(t, sels, 3)

	_, err = ParseSelectorList("rect, ")
	assert.Error(t, err)
}

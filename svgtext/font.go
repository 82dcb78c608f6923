// Package svgtext loads font faces and converts text runs into filled
// outlines, so the renderer can treat text like any other path.
package svgtext

import (
	"strings"
	"sync"

	"golang.org/x/image/font/sfnt"
)

type faceKey struct {
	family string
	bold   bool
	italic bool
}

// Face wraps a parsed font with the metrics the layout needs.
type Face struct {
	font       *sfnt.Font
	unitsPerEm float64
}

// Registry maps font face requests to loaded fonts. It is safe for
// concurrent use; documents rendered in parallel share one registry.
type Registry struct {
	mu    sync.RWMutex
	faces map[faceKey]*Face
}

// NewRegistry returns an empty font registry.
func NewRegistry() *Registry {
	return &Registry{faces: make(map[faceKey]*Face)}
}

var defaultRegistry = NewRegistry()

// Default returns the shared process-wide registry.
func Default() *Registry { return defaultRegistry }

// AddFace registers font data under the given family and style,
// replacing any previous face with the same key. It reports whether
// the data parsed as a usable font.
func (r *Registry) AddFace(family string, bold, italic bool, data []byte) bool {
	f, err := sfnt.Parse(data)
	if err != nil {
		return false
	}
	upem := f.UnitsPerEm()
	if upem == 0 {
		return false
	}
	face := &Face{font: f, unitsPerEm: float64(upem)}
	key := faceKey{family: strings.ToLower(strings.TrimSpace(family)), bold: bold, italic: italic}
	r.mu.Lock()
	r.faces[key] = face
	r.mu.Unlock()
	return true
}

// Lookup resolves a face for the request, relaxing style then family
// when no exact face exists. A nil result means no face is loaded at
// all; callers then skip the text run.
func (r *Registry) Lookup(family string, bold, italic bool) *Face {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.faces) == 0 {
		return nil
	}
	fam := strings.ToLower(strings.TrimSpace(family))
	// family lists ("serif, Arial") resolve to the first loaded entry
	for _, name := range strings.Split(fam, ",") {
		name = strings.Trim(strings.TrimSpace(name), "'\"")
		if f := r.lookupFamily(name, bold, italic); f != nil {
			return f
		}
	}
	if f := r.lookupFamily("", bold, italic); f != nil {
		return f
	}
	for _, f := range r.faces {
		return f
	}
	return nil
}

func (r *Registry) lookupFamily(family string, bold, italic bool) *Face {
	styles := [4][2]bool{
		{bold, italic}, {bold, !italic}, {!bold, italic}, {!bold, !italic},
	}
	for _, st := range styles {
		if f, ok := r.faces[faceKey{family, st[0], st[1]}]; ok {
			return f
		}
	}
	return nil
}

package formats

import "github.com/flga/gamegfx/stream"

// Registry is the "explicit format registry value... threaded through"
// replacement for a global getManager() singleton (spec §9 Design
// Notes): a caller constructs one, registers the handlers it wants, and
// passes it around explicitly instead of reaching for package-level
// state.
type Registry struct {
	imageHandlers   []Handler
	tilesetHandlers []Handler
	byCode          map[string]Handler
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byCode: make(map[string]Handler)}
}

// RegisterImage adds an image-producing handler.
func (r *Registry) RegisterImage(h Handler) {
	r.imageHandlers = append(r.imageHandlers, h)
	r.byCode[h.Code()] = h
}

// RegisterTileset adds a tileset-producing handler.
func (r *Registry) RegisterTileset(h Handler) {
	r.tilesetHandlers = append(r.tilesetHandlers, h)
	r.byCode[h.Code()] = h
}

func (r *Registry) ListImageFormats() []Handler {
	out := make([]Handler, len(r.imageHandlers))
	copy(out, r.imageHandlers)
	return out
}

func (r *Registry) ListTilesetFormats() []Handler {
	out := make([]Handler, len(r.tilesetHandlers))
	copy(out, r.tilesetHandlers)
	return out
}

func (r *Registry) FindByCode(code string) (Handler, bool) {
	h, ok := r.byCode[code]
	return h, ok
}

// Identification pairs a Handler with the Certainty its Probe returned.
type Identification struct {
	Handler   Handler
	Certainty Certainty
}

// Identify probes every registered handler (image and tileset alike)
// against s and returns every match better than DefinitelyNo, most
// confident first.
func (r *Registry) Identify(s stream.Stream) []Identification {
	var out []Identification
	seen := make(map[string]bool)
	all := append(append([]Handler{}, r.imageHandlers...), r.tilesetHandlers...)
	for _, h := range all {
		if seen[h.Code()] {
			continue
		}
		seen[h.Code()] = true
		if c := h.Probe(s); c != DefinitelyNo {
			out = append(out, Identification{Handler: h, Certainty: c})
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Certainty > out[j-1].Certainty; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

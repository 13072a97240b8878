package formats

// All returns a Registry with every handler this package implements
// already registered. It is a convenience constructor, not a global
// singleton — callers that want a narrower or custom registry should
// build one with NewRegistry and Register* directly, per spec.md's
// Design Notes on replacing getManager() with an explicit, constructed
// value.
func All() *Registry {
	r := NewRegistry()

	r.RegisterTileset(CComic{Masked: false})
	r.RegisterTileset(CComic{Masked: true})
	r.RegisterTileset(CComic2{})
	r.RegisterTileset(BashSprite{})
	r.RegisterTileset(GOT{})
	r.RegisterTileset(CatacombCGA{})
	r.RegisterTileset(HarryCHR{})
	r.RegisterTileset(HarryHSB{})
	r.RegisterTileset(Zone66{})
	r.RegisterTileset(VGFM{})
	r.RegisterTileset(Actrinfo{})

	r.RegisterImage(RaptorPIC{})
	r.RegisterImage(CComicScreen{})
	r.RegisterImage(VinylSCR{})
	r.RegisterImage(SW93BetaPlanar{})
	r.RegisterImage(TVFog{})

	return r
}

package formats

import (
	"testing"

	"github.com/flga/gamegfx/stream"
)

func TestRegistryFindByCode(t *testing.T) {
	r := All()
	h, ok := r.FindByCode("tls-got")
	if !ok {
		t.Fatal("FindByCode(tls-got) not found")
	}
	if h.FriendlyName() != (GOT{}).FriendlyName() {
		t.Fatalf("wrong handler returned: %v", h)
	}
}

func TestRegistryListsBothKinds(t *testing.T) {
	r := All()
	if len(r.ListTilesetFormats()) == 0 {
		t.Fatal("ListTilesetFormats() is empty")
	}
	if len(r.ListImageFormats()) == 0 {
		t.Fatal("ListImageFormats() is empty")
	}
}

func TestRegistryIdentifySortsByConfidence(t *testing.T) {
	r := NewRegistry()
	r.RegisterTileset(CatacombCGA{})
	r.RegisterTileset(HarryCHR{})

	data := make([]byte, catCGATileSize*catINumTiles)
	ids := r.Identify(stream.NewMem(data))
	if len(ids) == 0 {
		t.Fatal("Identify() returned nothing")
	}
	if ids[0].Certainty != DefinitelyYes {
		t.Fatalf("top match certainty = %v, want DefinitelyYes", ids[0].Certainty)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i].Certainty > ids[i-1].Certainty {
			t.Fatal("Identify() results not sorted descending by Certainty")
		}
	}
}

func TestRegistryIdentifyExcludesDefinitelyNo(t *testing.T) {
	r := NewRegistry()
	r.RegisterTileset(CatacombCGA{})
	ids := r.Identify(stream.NewMem(make([]byte, 3)))
	if len(ids) != 0 {
		t.Fatalf("Identify() = %v, want empty", ids)
	}
}

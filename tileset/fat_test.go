package tileset

import (
	"bytes"
	"testing"

	"github.com/flga/gamegfx/stream"
)

func threeEntryFAT() (*Tileset, *stream.Mem) {
	data := bytes.Repeat([]byte{0xAA}, 10)
	data = append(data, bytes.Repeat([]byte{0xBB}, 10)...)
	data = append(data, bytes.Repeat([]byte{0xCC}, 10)...)
	m := stream.NewMem(data)
	ts := NewFAT(m, VariableSizer{})
	ts.Load([]*Entry{
		{Offset: 0, StoredSize: 10, RealSize: 10, Valid: true, TypeTag: "a"},
		{Offset: 10, StoredSize: 10, RealSize: 10, Valid: true, TypeTag: "b"},
		{Offset: 20, StoredSize: 10, RealSize: 10, Valid: true, TypeTag: "c"},
	})
	ts.reindex()
	return ts, m
}

func TestFilesOrderedByOffset(t *testing.T) {
	ts, _ := threeEntryFAT()
	files := ts.Files()
	if len(files) != 3 {
		t.Fatalf("got %d entries, want 3", len(files))
	}
	for i, want := range []string{"a", "b", "c"} {
		if files[i].TypeTag != want {
			t.Fatalf("entry %d = %q, want %q", i, files[i].TypeTag, want)
		}
	}
}

func TestRegionReadWrite(t *testing.T) {
	ts, _ := threeEntryFAT()
	b := ts.Files()[1]
	r := ts.Open(b)
	got, err := r.Read(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, bytes.Repeat([]byte{0xBB}, 10)) {
		t.Fatalf("got %x", got)
	}
	if err := r.Write(0, bytes.Repeat([]byte{0x11}, 10)); err != nil {
		t.Fatal(err)
	}
	got, _ = r.Read(0, 10)
	if !bytes.Equal(got, bytes.Repeat([]byte{0x11}, 10)) {
		t.Fatalf("write didn't stick: %x", got)
	}
}

// TestInsertShiftsLaterOffsets exercises spec §8's offset-monotonicity
// property: inserting a new entry before b must push b and c forward by
// exactly the new entry's size, and must not touch a.
func TestInsertShiftsLaterOffsets(t *testing.T) {
	ts, _ := threeEntryFAT()
	files := ts.Files()
	a, b, c := files[0], files[1], files[2]

	newE, err := ts.Insert(b, 5, 5, 0, "x", 0)
	if err != nil {
		t.Fatal(err)
	}
	if newE.Offset != 10 {
		t.Fatalf("new entry offset = %d, want 10", newE.Offset)
	}
	if a.Offset != 0 {
		t.Fatalf("a shifted: offset = %d", a.Offset)
	}
	if b.Offset != 15 {
		t.Fatalf("b offset = %d, want 15", b.Offset)
	}
	if c.Offset != 25 {
		t.Fatalf("c offset = %d, want 25", c.Offset)
	}
	if ts.State() != Dirty {
		t.Fatalf("state = %v, want Dirty", ts.State())
	}
}

// TestRemoveIsInsertInverse checks spec §8's insert/remove inverse
// property: removing what Insert just added restores every other
// entry's offset.
func TestRemoveIsInsertInverse(t *testing.T) {
	ts, _ := threeEntryFAT()
	files := ts.Files()
	b, c := files[1], files[2]
	bOffsetBefore, cOffsetBefore := b.Offset, c.Offset

	newE, err := ts.Insert(b, 5, 5, 0, "x", 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := ts.Remove(newE); err != nil {
		t.Fatal(err)
	}
	if b.Offset != bOffsetBefore || c.Offset != cOffsetBefore {
		t.Fatalf("offsets not restored: b=%d (want %d) c=%d (want %d)", b.Offset, bOffsetBefore, c.Offset, cOffsetBefore)
	}
	if len(ts.Files()) != 3 {
		t.Fatalf("got %d entries, want 3", len(ts.Files()))
	}
}

// TestMoveIsPermutation checks spec §8's move-is-permutation property:
// moving b to the end changes order but not the multiset of TypeTags or
// their region contents.
func TestMoveIsPermutation(t *testing.T) {
	ts, m := threeEntryFAT()
	files := ts.Files()
	b := files[1]

	if err := ts.Move(b, nil); err != nil {
		t.Fatal(err)
	}
	after := ts.Files()
	gotTags := make(map[string]bool)
	for _, e := range after {
		gotTags[e.TypeTag] = true
	}
	for _, want := range []string{"a", "b", "c"} {
		if !gotTags[want] {
			t.Fatalf("missing tag %q after move", want)
		}
	}
	if after[len(after)-1].TypeTag != "b" {
		t.Fatalf("b not at end: %q", after[len(after)-1].TypeTag)
	}
	if err := ts.assertOrdered(); err != nil {
		t.Fatalf("entries not strictly ordered after move: %v", err)
	}

	r := ts.Open(after[len(after)-1])
	got, err := r.Read(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, bytes.Repeat([]byte{0xBB}, 10)) {
		t.Fatalf("moved region content changed: %x", got)
	}
	_ = m
}

// TestResizeRejectsUnderFixedSizer exercises the FAT's fixed-tile-size
// invariant: a FixedSizer must reject any resize to a different size.
func TestResizeRejectsUnderFixedSizer(t *testing.T) {
	data := bytes.Repeat([]byte{0x00}, 30)
	m := stream.NewMem(data)
	ts := NewFAT(m, FixedSizer{Size: 10})
	ts.Load([]*Entry{
		{Offset: 0, StoredSize: 10, RealSize: 10, Valid: true, TypeTag: "a"},
		{Offset: 10, StoredSize: 10, RealSize: 10, Valid: true, TypeTag: "b"},
	})

	if err := ts.Resize(ts.Files()[0], 12, 12); err == nil {
		t.Fatal("expected error resizing under FixedSizer")
	}
	if err := ts.Resize(ts.Files()[0], 10, 10); err != nil {
		t.Fatalf("unexpected error resizing to same fixed size: %v", err)
	}
}

// TestRegionInsertResizesEntryAndShiftsLater checks that growing an
// entry through its Region view keeps the FAT consistent, mirroring
// what an Image.FromPixels call does when pixel data grows.
func TestRegionInsertResizesEntryAndShiftsLater(t *testing.T) {
	ts, _ := threeEntryFAT()
	files := ts.Files()
	b, c := files[1], files[2]

	r := ts.Open(b)
	if err := r.Insert(10, 5); err != nil {
		t.Fatal(err)
	}
	if b.StoredSize != 15 {
		t.Fatalf("b.StoredSize = %d, want 15", b.StoredSize)
	}
	if c.Offset != 25 {
		t.Fatalf("c.Offset = %d, want 25", c.Offset)
	}
}

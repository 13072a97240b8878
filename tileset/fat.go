// Package tileset implements spec §4.G: a FAT-backed container of
// entries, each addressable as its own stream region, supporting
// insert/remove/resize/move while keeping every other entry's offset
// consistent. Grounded on tileset-fat.cpp and
// tileset-fat-fixed_tile_size.cpp.
package tileset

import (
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/stream"
)

// State is the lifecycle spec §4.G describes: a fresh Tileset reads its
// entries lazily, mutations mark it Dirty, and Flush writes the FAT back
// out and returns it to a clean state.
type State int

const (
	Fresh State = iota
	Populated
	Dirty
	Flushed
	Closed
)

// SizePolicy governs what StoredSize a resize may settle on, per spec
// §4.G's fixed-tile-size invariant.
type SizePolicy interface {
	CheckResize(e *Entry, newStored int64) error
}

// FixedSizer rejects any StoredSize other than Size, grounded on
// tileset-fat-fixed_tile_size.cpp (Cosmo, God of Thunder and other
// formats whose every tile is the same number of bytes).
type FixedSizer struct{ Size int64 }

func (f FixedSizer) CheckResize(e *Entry, newStored int64) error {
	if newStored != f.Size {
		return fmt.Errorf("tileset: fixed tile size is %d, got %d: %w", f.Size, newStored, gamegfx.ErrInvariantViolation)
	}
	return nil
}

// VariableSizer allows any non-negative StoredSize.
type VariableSizer struct{}

func (VariableSizer) CheckResize(e *Entry, newStored int64) error {
	if newStored < 0 {
		return fmt.Errorf("tileset: negative size: %w", gamegfx.ErrInvariantViolation)
	}
	return nil
}

// Tileset is the generic FAT core. A concrete format handler constructs
// one over its stream, populates entries from the on-disk FAT, and
// supplies a FlushFunc that re-serializes the FAT (and rewrites any
// embedded per-entry offsets) when the Tileset is flushed.
type Tileset struct {
	Stream  stream.Stream
	Sizer   SizePolicy
	entries []*Entry
	state   State

	// FlushFunc persists the FAT itself — header count, per-entry offset
	// table, whatever a concrete format embeds — back to Stream. Left nil
	// for formats with no separate FAT section to rewrite.
	FlushFunc func(t *Tileset) error
}

// NewFAT constructs an empty Tileset over s.
func NewFAT(s stream.Stream, sizer SizePolicy) *Tileset {
	return &Tileset{Stream: s, Sizer: sizer, state: Fresh}
}

// Load installs entries read by a format handler from the on-disk FAT.
// entries must already be sorted by Offset; Load does not re-sort them,
// since only the handler knows the on-disk entry order semantics.
func (t *Tileset) Load(entries []*Entry) {
	t.entries = entries
	t.state = Populated
}

func (t *Tileset) State() State { return t.state }

// Files returns the entries in offset order. The returned slice is a
// copy; mutating it does not affect the Tileset.
func (t *Tileset) Files() []*Entry {
	out := make([]*Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Tileset) indexOf(e *Entry) int {
	for i, x := range t.entries {
		if x == e {
			return i
		}
	}
	return -1
}

func (t *Tileset) assertOrdered() error {
	for i := 1; i < len(t.entries); i++ {
		prev, cur := t.entries[i-1], t.entries[i]
		if cur.Offset < prev.End() {
			return fmt.Errorf("tileset: entry %d overlaps entry %d: %w", cur.Index, prev.Index, gamegfx.ErrInvariantViolation)
		}
	}
	return nil
}

// Open returns a stream view over e's region. Writes through the
// returned Region go straight to the backing stream at e's current
// offset; Insert/Remove on it resize e and shift every later entry's
// Offset to keep the FAT consistent, per spec §4.G.
func (t *Tileset) Open(e *Entry) *Region {
	return &Region{t: t, e: e}
}

// Insert adds a new entry of storedSize bytes (plus headerSize of
// embedded per-entry header) before the given entry, or at the end if
// before is nil. The new region is zero-filled.
func (t *Tileset) Insert(before *Entry, storedSize, realSize, headerSize int64, typeTag string, attr Attr) (*Entry, error) {
	if err := t.Sizer.CheckResize(&Entry{}, storedSize); err != nil {
		return nil, err
	}

	var offset int64
	insertAt := len(t.entries)
	if before != nil {
		idx := t.indexOf(before)
		if idx < 0 {
			return nil, fmt.Errorf("tileset: before-entry not found: %w", gamegfx.ErrInvariantViolation)
		}
		offset = before.Offset
		insertAt = idx
	} else if len(t.entries) > 0 {
		offset = t.entries[len(t.entries)-1].End()
	}

	total := headerSize + storedSize
	if err := t.Stream.Insert(offset, total); err != nil {
		return nil, fmt.Errorf("tileset: inserting region: %w", gamegfx.ErrStreamError)
	}

	e := &Entry{
		Offset: offset, StoredSize: storedSize, RealSize: realSize,
		HeaderSize: headerSize, Attributes: attr, TypeTag: typeTag, Valid: true,
	}
	t.entries = append(t.entries, nil)
	copy(t.entries[insertAt+1:], t.entries[insertAt:])
	t.entries[insertAt] = e

	t.shiftFrom(insertAt+1, total)
	t.reindex()
	t.state = Dirty
	return e, nil
}

// Remove deletes e and closes the gap its region left behind.
func (t *Tileset) Remove(e *Entry) error {
	idx := t.indexOf(e)
	if idx < 0 {
		return fmt.Errorf("tileset: entry not found: %w", gamegfx.ErrInvariantViolation)
	}
	total := e.HeaderSize + e.StoredSize
	if err := t.Stream.Remove(e.Offset, total); err != nil {
		return fmt.Errorf("tileset: removing region: %w", gamegfx.ErrStreamError)
	}
	t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
	t.shiftFrom(idx, -total)
	t.reindex()
	t.state = Dirty
	return nil
}

// Resize changes e's stored and real sizes, growing or shrinking its
// backing region and shifting every later entry's offset to match.
func (t *Tileset) Resize(e *Entry, newStored, newReal int64) error {
	if err := t.Sizer.CheckResize(e, newStored); err != nil {
		return err
	}
	idx := t.indexOf(e)
	if idx < 0 {
		return fmt.Errorf("tileset: entry not found: %w", gamegfx.ErrInvariantViolation)
	}
	delta := newStored - e.StoredSize
	if delta > 0 {
		if err := t.Stream.Insert(e.Offset+e.HeaderSize+e.StoredSize, delta); err != nil {
			return fmt.Errorf("tileset: growing region: %w", gamegfx.ErrStreamError)
		}
	} else if delta < 0 {
		if err := t.Stream.Remove(e.Offset+e.HeaderSize+newStored, -delta); err != nil {
			return fmt.Errorf("tileset: shrinking region: %w", gamegfx.ErrStreamError)
		}
	}
	e.StoredSize = newStored
	e.RealSize = newReal
	t.shiftFrom(idx+1, delta)
	t.state = Dirty
	return nil
}

// Move relocates e to just before the given entry (or to the end, if
// before is nil), shifting stream bytes and every affected offset.
func (t *Tileset) Move(e *Entry, before *Entry) error {
	idx := t.indexOf(e)
	if idx < 0 {
		return fmt.Errorf("tileset: entry not found: %w", gamegfx.ErrInvariantViolation)
	}
	destIdx := len(t.entries)
	if before != nil {
		destIdx = t.indexOf(before)
		if destIdx < 0 {
			return fmt.Errorf("tileset: before-entry not found: %w", gamegfx.ErrInvariantViolation)
		}
	}
	if destIdx == idx || destIdx == idx+1 {
		return nil
	}

	total := e.HeaderSize + e.StoredSize
	data, err := t.Stream.Read(e.Offset, int(total))
	if err != nil {
		return fmt.Errorf("tileset: reading entry for move: %w", gamegfx.ErrStreamError)
	}
	if err := t.Stream.Remove(e.Offset, total); err != nil {
		return fmt.Errorf("tileset: removing entry for move: %w", gamegfx.ErrStreamError)
	}
	t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
	t.shiftFrom(idx, -total)
	if destIdx > idx {
		destIdx--
	}

	var destOffset int64
	if destIdx < len(t.entries) {
		destOffset = t.entries[destIdx].Offset
	} else if len(t.entries) > 0 {
		destOffset = t.entries[len(t.entries)-1].End()
	}
	if err := t.Stream.Insert(destOffset, total); err != nil {
		return fmt.Errorf("tileset: making room for move: %w", gamegfx.ErrStreamError)
	}
	if err := t.Stream.Write(destOffset, data); err != nil {
		return fmt.Errorf("tileset: writing moved entry: %w", gamegfx.ErrStreamError)
	}

	e.Offset = destOffset
	t.entries = append(t.entries, nil)
	copy(t.entries[destIdx+1:], t.entries[destIdx:])
	t.entries[destIdx] = e
	t.shiftFrom(destIdx+1, total)
	t.reindex()
	t.state = Dirty
	return nil
}

// Flush calls FlushFunc (if set) and marks the Tileset clean. Per spec
// §8's offset-monotonicity property, the entries are always kept sorted
// by Offset between calls, so Flush need not re-sort.
func (t *Tileset) Flush() error {
	if err := t.assertOrdered(); err != nil {
		return err
	}
	if t.FlushFunc != nil {
		if err := t.FlushFunc(t); err != nil {
			return err
		}
	}
	t.state = Flushed
	return nil
}

func (t *Tileset) Close() { t.state = Closed }

func (t *Tileset) shiftFrom(idx int, delta int64) {
	for i := idx; i < len(t.entries); i++ {
		t.entries[i].Offset += delta
	}
}

func (t *Tileset) reindex() {
	for i, e := range t.entries {
		e.Index = i
	}
}

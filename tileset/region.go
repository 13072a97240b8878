package tileset

import "github.com/flga/gamegfx/stream"

// Region is a view over one entry's slice of the Tileset's backing
// stream. It implements stream.Stream so an Image (or a nested
// Tileset, for Folder entries) can treat an entry exactly like its own
// private stream, with Insert/Remove transparently resizing the entry
// and shifting every later entry's offset.
type Region struct {
	t *Tileset
	e *Entry
}

var _ stream.Stream = (*Region)(nil)

func (r *Region) Size() int64 { return r.e.StoredSize }

func (r *Region) Read(offset int64, length int) ([]byte, error) {
	return r.t.Stream.Read(r.e.Offset+r.e.HeaderSize+offset, length)
}

func (r *Region) Write(offset int64, data []byte) error {
	return r.t.Stream.Write(r.e.Offset+r.e.HeaderSize+offset, data)
}

func (r *Region) Insert(offset int64, length int64) error {
	if err := r.t.Sizer.CheckResize(r.e, r.e.StoredSize+length); err != nil {
		return err
	}
	if err := r.t.Stream.Insert(r.e.Offset+r.e.HeaderSize+offset, length); err != nil {
		return err
	}
	idx := r.t.indexOf(r.e)
	r.e.StoredSize += length
	r.t.shiftFrom(idx+1, length)
	r.t.state = Dirty
	return nil
}

func (r *Region) Remove(offset int64, length int64) error {
	if err := r.t.Sizer.CheckResize(r.e, r.e.StoredSize-length); err != nil {
		return err
	}
	if err := r.t.Stream.Remove(r.e.Offset+r.e.HeaderSize+offset, length); err != nil {
		return err
	}
	idx := r.t.indexOf(r.e)
	r.e.StoredSize -= length
	r.t.shiftFrom(idx+1, -length)
	r.t.state = Dirty
	return nil
}

func (r *Region) Truncate(size int64) error {
	delta := size - r.e.StoredSize
	if delta > 0 {
		return r.Insert(r.e.StoredSize, delta)
	}
	if delta < 0 {
		return r.Remove(size, -delta)
	}
	return nil
}

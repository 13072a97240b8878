package stream

import (
	"fmt"
	"io"
)

// Mem is an in-memory Stream backed by a single growable byte slice. It
// exists for this module's own tests and as a reference implementation of
// the Stream contract; a production embedder backs Stream with a file.
type Mem struct {
	buf []byte
}

// NewMem wraps data (copied) as a Stream.
func NewMem(data []byte) *Mem {
	m := &Mem{buf: make([]byte, len(data))}
	copy(m.buf, data)
	return m
}

func (m *Mem) Size() int64 { return int64(len(m.buf)) }

// Bytes returns the current contents. The caller must not mutate it.
func (m *Mem) Bytes() []byte { return m.buf }

func (m *Mem) Read(offset int64, length int) ([]byte, error) {
	if offset < 0 || length < 0 {
		return nil, fmt.Errorf("memstream: negative offset/len")
	}
	end := offset + int64(length)
	if offset >= int64(len(m.buf)) {
		return nil, fmt.Errorf("memstream: read past end: %w", io.ErrUnexpectedEOF)
	}
	if end > int64(len(m.buf)) {
		out := make([]byte, len(m.buf)-int(offset))
		copy(out, m.buf[offset:])
		return out, fmt.Errorf("memstream: short read: %w", io.ErrUnexpectedEOF)
	}
	out := make([]byte, length)
	copy(out, m.buf[offset:end])
	return out, nil
}

func (m *Mem) Write(offset int64, data []byte) error {
	end := offset + int64(len(data))
	if end > int64(len(m.buf)) {
		return fmt.Errorf("memstream: write past end, call Insert/Truncate first")
	}
	copy(m.buf[offset:end], data)
	return nil
}

func (m *Mem) Insert(offset int64, length int64) error {
	if offset < 0 || offset > int64(len(m.buf)) || length < 0 {
		return fmt.Errorf("memstream: invalid insert(%d,%d)", offset, length)
	}
	hole := make([]byte, length)
	grown := make([]byte, 0, len(m.buf)+int(length))
	grown = append(grown, m.buf[:offset]...)
	grown = append(grown, hole...)
	grown = append(grown, m.buf[offset:]...)
	m.buf = grown
	return nil
}

func (m *Mem) Remove(offset int64, length int64) error {
	if offset < 0 || length < 0 || offset+length > int64(len(m.buf)) {
		return fmt.Errorf("memstream: invalid remove(%d,%d)", offset, length)
	}
	m.buf = append(m.buf[:offset], m.buf[offset+length:]...)
	return nil
}

func (m *Mem) Truncate(size int64) error {
	if size < 0 {
		return fmt.Errorf("memstream: negative size")
	}
	if size <= int64(len(m.buf)) {
		m.buf = m.buf[:size]
		return nil
	}
	grown := make([]byte, size)
	copy(grown, m.buf)
	m.buf = grown
	return nil
}

package tileset

// Attr is a bitset of per-entry flags, per spec §3.
type Attr uint32

const (
	// Folder marks an entry as a nested Tileset rather than an Image.
	Folder Attr = 1 << iota
	// Vacant marks a slot as reserved but holding no usable data.
	Vacant
)

// Entry is one FAT record, per spec §3. Offset is absolute within the
// tileset's stream; HeaderSize is the length of any per-entry embedded
// header that is part of the entry's stream region but not its logical
// file content.
type Entry struct {
	Index      int
	Offset     int64
	StoredSize int64
	RealSize   int64
	HeaderSize int64
	Attributes Attr
	TypeTag    string
	Valid      bool

	// Overflow is a slot for the occasional one extra byte some formats
	// tolerate past the declared tile size (Monster Bash tls-bash-bg)
	// without assigning it any meaning — see spec §9's second Open
	// Question. No handler in this module fills it, and neither Tileset
	// nor Region reads or writes it.
	Overflow []byte
}

// End returns the offset one past this entry's region, including its
// header.
func (e *Entry) End() int64 { return e.Offset + e.HeaderSize + e.StoredSize }

// IsFolder reports whether the entry is a nested tileset.
func (e *Entry) IsFolder() bool { return e.Attributes&Folder != 0 }

// IsVacant reports whether the slot is reserved but has no usable data.
func (e *Entry) IsVacant() bool { return e.Attributes&Vacant != 0 }

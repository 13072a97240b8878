// Package formats implements spec §4.H's concrete tileset/image
// handlers and the §4.I/§6 format registry that ties them together.
// Each handler owns the parsing rules for one DOS-era game's file
// layout; the registry lets a caller identify and open a stream without
// knowing in advance which handler it needs.
package formats

import (
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/stream"
	"github.com/flga/gamegfx/tileset"
)

// Certainty is a probe's confidence that a stream matches its format,
// per spec §4.H.
type Certainty int

const (
	DefinitelyNo Certainty = iota
	Unsure
	PossiblyYes
	DefinitelyYes
)

// Role names a supplementary stream a handler needs beyond its primary
// one, per spec §6.
type Role string

const (
	RolePalette Role = "Palette"
	RoleExtra1  Role = "Extra1"
	RoleExtra2  Role = "Extra2"
	RoleExtra3  Role = "Extra3"
	RoleFAT     Role = "FAT"
)

// Supps maps a Role to whatever stream a caller has already opened for
// it (handler.RequiredSupps tells the caller what to open and under
// what default filename).
type Supps map[Role]stream.Stream

// Opened is the tagged-union result of Handler.Open/Create: exactly one
// of Image or Tileset is non-nil, matching spec §6's `Image | Tileset`.
type Opened struct {
	Image   *image.Image
	Tileset *tileset.Tileset
}

// Handler is one concrete format's parsing rules and factory methods,
// per spec §6.
type Handler interface {
	Code() string
	FriendlyName() string
	Extensions() []string
	Games() []string
	Probe(s stream.Stream) Certainty
	Open(s stream.Stream, supps Supps) (Opened, error)
	Create(s stream.Stream, supps Supps) (Opened, error)
	RequiredSupps(filename string) map[Role]string
}

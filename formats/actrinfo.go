package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/palette"
	"github.com/flga/gamegfx/pixel"
	"github.com/flga/gamegfx/stream"
	"github.com/flga/gamegfx/tileset"
)

const (
	actrFrameRecordLen = 8
	actrTileWidth      = 8
	actrTileHeight     = 8
)

// Actrinfo implements spec §4.H's Cosmo/Duke Nukem II actor tileset: a
// two-stream format where a supplementary "info" stream (actrinfo.mni
// and its per-game variants) holds a packed index of per-actor frame
// tables, and the primary stream (actors.mni) holds the tile-plane
// pixel data every actor's frames are cut from. Grounded on
// tls-actrinfo.cpp's Tileset_Actrinfo/Tileset_SingleActor pair.
type Actrinfo struct{}

func (Actrinfo) Code() string         { return "tls-actrinfo" }
func (Actrinfo) FriendlyName() string { return "Cosmo/Duke Nukem II Actor Tileset" }
func (Actrinfo) Extensions() []string { return []string{"mni"} }
func (Actrinfo) Games() []string      { return []string{"Cosmo's Cosmic Adventures", "Duke Nukem II"} }

// Probe can't tell this format apart from any other blob of planar tile
// data without its companion info stream, matching
// TilesetType_Actrinfo::isInstance's unconditional Unsure.
func (Actrinfo) Probe(s stream.Stream) Certainty { return Unsure }

func (Actrinfo) RequiredSupps(filename string) map[Role]string {
	switch filename {
	case "players.mni":
		return map[Role]string{RoleFAT: "plyrinfo.mni"}
	case "cartoon.mni":
		return map[Role]string{RoleFAT: "cartinfo.mni"}
	default:
		return map[Role]string{RoleFAT: "actrinfo.mni"}
	}
}

// actrinfoActorEntries parses the info stream's leading actor table: the
// first u16le is simultaneously the actor count and (doubled) the byte
// offset where actor 0's own frame table begins, since that offset
// always equals the table's own length in bytes. Every subsequent u16le
// is a raw word offset into the info stream, doubled to a byte offset,
// for the next actor's frame table. A trailing sentinel (the info
// stream's total length) bounds the last actor's table.
func actrinfoActorEntries(info []byte) ([]*tileset.Entry, error) {
	if len(info) < 2 {
		return nil, fmt.Errorf("formats/actrinfo: info stream too short: %w", gamegfx.ErrIncompleteRead)
	}
	numActors := int(binary.LittleEndian.Uint16(info[0:2]))
	tableLen := numActors * 2
	if tableLen > len(info) {
		return nil, fmt.Errorf("formats/actrinfo: actor table truncated: %w", gamegfx.ErrIncompleteRead)
	}
	offsets := make([]int64, numActors+1)
	for i := 0; i < numActors; i++ {
		offsets[i] = int64(binary.LittleEndian.Uint16(info[i*2:i*2+2])) * 2
	}
	offsets[numActors] = int64(len(info))

	entries := make([]*tileset.Entry, numActors)
	for i := 0; i < numActors; i++ {
		size := offsets[i+1] - offsets[i]
		if size < 0 {
			return nil, fmt.Errorf("formats/actrinfo: actor %d table offset out of order: %w", i, gamegfx.ErrInvalidFormat)
		}
		attr := tileset.Folder
		if size == 0 {
			attr |= tileset.Vacant
		}
		entries[i] = &tileset.Entry{
			Index: i, Offset: offsets[i], StoredSize: size, RealSize: size,
			Attributes: attr, TypeTag: "tileset/actor", Valid: true,
		}
	}
	return entries, nil
}

// Open parses the info stream supplied under RoleFAT into one
// sub-tileset entry per actor. s (the primary stream) is the shared tile
// data; it isn't touched here, but callers need to hold onto it to pass
// to OpenActor afterwards, mirroring Tileset_Actrinfo holding both
// dataInfo and dataTiles.
func (Actrinfo) Open(s stream.Stream, supps Supps) (Opened, error) {
	info, ok := supps[RoleFAT]
	if !ok {
		return Opened{}, fmt.Errorf("formats/actrinfo: no actor info stream supplied: %w", gamegfx.ErrInvalidFormat)
	}
	data, err := info.Read(0, int(info.Size()))
	if err != nil {
		return Opened{}, fmt.Errorf("formats/actrinfo: reading info stream: %w", gamegfx.ErrIncompleteRead)
	}
	entries, err := actrinfoActorEntries(data)
	if err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(info, tileset.VariableSizer{})
	t.Load(entries)
	return Opened{Tileset: t}, nil
}

func (Actrinfo) Create(s stream.Stream, supps Supps) (Opened, error) {
	info, ok := supps[RoleFAT]
	if !ok {
		return Opened{}, fmt.Errorf("formats/actrinfo: no actor info stream supplied: %w", gamegfx.ErrInvalidFormat)
	}
	if err := info.Truncate(2); err != nil {
		return Opened{}, err
	}
	if err := info.Write(0, []byte{0, 0}); err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(info, tileset.VariableSizer{})
	return Opened{Tileset: t}, nil
}

// actrinfoLayout is Image_EGABytePlanarTiled's plane assignment from
// createImageInstance: plane 1 carries opacity (transparent/opaque), the
// remaining four carry colour in blue/green/red/intensity order; the
// hitmap role is never assigned a plane.
func actrinfoLayout() pixel.Layout {
	return pixel.Layout{pixel.Opaque1, pixel.Blue1, pixel.Green1, pixel.Red1, pixel.Intensity1}
}

// ActorFrames is the per-actor tileset Tileset_SingleActor builds: a FAT
// over the shared tile-data stream, each frame's tile-grid dimensions
// recorded alongside since the generic tileset.Entry has nowhere to
// carry them.
type ActorFrames struct {
	*tileset.Tileset
	widthTiles, heightTiles map[int]int
	pal                     palette.Palette
}

// OpenActor parses actor entry e's frame table out of the Actrinfo
// tileset's own info stream into the per-frame tileset whose entries
// index into tiles, the stream every actor's frames are cut from.
// Mirrors Tileset_Actrinfo::createTilesetInstance handing the actor's
// FAT-region content plus dataTiles to a new Tileset_SingleActor.
func (Actrinfo) OpenActor(t *tileset.Tileset, e *tileset.Entry, tiles stream.Stream, pal palette.Palette) (*ActorFrames, error) {
	if !e.IsFolder() {
		return nil, fmt.Errorf("formats/actrinfo: entry %d is not an actor: %w", e.Index, gamegfx.ErrInvariantViolation)
	}
	region := t.Open(e)
	fatData, err := region.Read(0, int(e.StoredSize))
	if err != nil {
		return nil, fmt.Errorf("formats/actrinfo: reading actor frame table: %w", gamegfx.ErrIncompleteRead)
	}
	if len(fatData)%actrFrameRecordLen != 0 {
		return nil, fmt.Errorf("formats/actrinfo: frame table length %d not a multiple of %d: %w", len(fatData), actrFrameRecordLen, gamegfx.ErrInvalidFormat)
	}

	n := len(fatData) / actrFrameRecordLen
	offsets := make([]int64, n)
	widthTiles := make(map[int]int, n)
	heightTiles := make(map[int]int, n)
	for i := 0; i < n; i++ {
		rec := fatData[i*actrFrameRecordLen:]
		heightTiles[i] = int(binary.LittleEndian.Uint16(rec[0:2]))
		widthTiles[i] = int(binary.LittleEndian.Uint16(rec[2:4]))
		raw := binary.LittleEndian.Uint32(rec[4:8])
		offsets[i] = int64(raw) - int64(raw/65536)
	}

	entries := make([]*tileset.Entry, n)
	for i := 0; i < n; i++ {
		end := tiles.Size()
		if i+1 < n {
			end = offsets[i+1]
		}
		size := end - offsets[i]
		attr := tileset.Attr(0)
		if size <= 0 {
			size = 0
			attr = tileset.Vacant
		}
		entries[i] = &tileset.Entry{
			Index: i, Offset: offsets[i], StoredSize: size, RealSize: size,
			Attributes: attr, TypeTag: "image/actor-frame", Valid: true,
		}
	}

	sub := tileset.NewFAT(tiles, tileset.VariableSizer{})
	sub.Load(entries)
	return &ActorFrames{Tileset: sub, widthTiles: widthTiles, heightTiles: heightTiles, pal: pal}, nil
}

// OpenFrame returns the decoded tiled-EGA image for frame entry e,
// grounded on Tileset_SingleActor::createImageInstance.
func (a *ActorFrames) OpenFrame(e *tileset.Entry) (*image.Image, error) {
	wt, ok := a.widthTiles[e.Index]
	if !ok {
		return nil, fmt.Errorf("formats/actrinfo: no dimensions recorded for frame %d: %w", e.Index, gamegfx.ErrInvariantViolation)
	}
	ht := a.heightTiles[e.Index]
	w, h := int32(wt*actrTileWidth), int32(ht*actrTileHeight)

	region := a.Tileset.Open(e)
	img := image.New(region, 0, 0, e.StoredSize, gamegfx.EGA, w, h, image.BytePlanarTiled{Layout: actrinfoLayout()}, 0)
	if len(a.pal) > 0 {
		img.SetPaletteLoaded(a.pal)
	}
	return img, nil
}

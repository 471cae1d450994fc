package cfb

import (
	"encoding/binary"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// Directory entry object types.
const (
	ObjectUnknown     = 0x0
	ObjectStorage     = 0x1
	ObjectStream      = 0x2
	ObjectRootStorage = 0x5
)

// NoStream is the sentinel value for an absent sibling/child link.
const NoStream uint32 = 0xFFFFFFFF

const directoryEntrySize = 128

// DirectoryEntry is a single 128-byte storage/stream record: a name, an
// object type, red-black tree links (ignored beyond BFS traversal),
// and — for streams — the starting sector and size of their data.
type DirectoryEntry struct {
	Name                   string
	ObjectType             byte
	ColorFlag              byte
	SiblingID              uint32
	RightSiblingID         uint32
	ChildID                uint32
	StateBits              uint32
	StartingSectorLocation uint32
	StreamSize             uint64

	Children map[string]*DirectoryEntry

	tree *Tree
}

func parseDirectoryEntry(raw []byte, majorVersion uint16) *DirectoryEntry {
	if len(raw) != directoryEntrySize {
		return nil
	}
	nameLen := int(binary.LittleEndian.Uint16(raw[64:66]))
	if nameLen > 64 || nameLen < 2 {
		return &DirectoryEntry{ObjectType: ObjectUnknown}
	}
	name := mailprop.DecodeUTF16LE(raw[:nameLen-2])

	e := &DirectoryEntry{
		Name:           name,
		ObjectType:     raw[66],
		ColorFlag:      raw[67],
		SiblingID:      binary.LittleEndian.Uint32(raw[68:72]),
		RightSiblingID: binary.LittleEndian.Uint32(raw[72:76]),
		ChildID:        binary.LittleEndian.Uint32(raw[76:80]),
		StateBits:      binary.LittleEndian.Uint32(raw[96:100]),
		StartingSectorLocation: binary.LittleEndian.Uint32(raw[116:120]),
		StreamSize:             binary.LittleEndian.Uint64(raw[120:128]),
		Children:               map[string]*DirectoryEntry{},
	}
	if majorVersion == 3 {
		// Upper 32 bits of StreamSize MUST be cleared for major=3.
		e.StreamSize &= 0xFFFFFFFF
	}
	return e
}

// GetData returns the stream bytes of a stream entry, resolved through
// the mini-stream if the stream is below the mini-stream cutoff, or
// through the regular FAT otherwise.
func (e *DirectoryEntry) GetData() ([]byte, error) {
	if e.ObjectType != ObjectStream {
		return nil, mailprop.Corruptf("cfb: directory", "entry %q is not a stream", e.Name)
	}
	if e.StreamSize < uint64(e.tree.h.MiniStreamCutoffSize) {
		return e.tree.minifat.GetStream(e.StartingSectorLocation, e.StreamSize)
	}
	return e.tree.fat.GetStream(e.StartingSectorLocation, e.StreamSize)
}

// Tree is the flat directory tree: every entry's red-black child/
// sibling links are collapsed into a name-keyed Children map, built by
// a breadth-first walk from the root entry.
type Tree struct {
	Entries []*DirectoryEntry
	Root    *DirectoryEntry

	fat     *FAT
	minifat *MiniFAT
	h       *Header
}

// BuildTree reads every directory sector out of the FAT chain starting
// at the header's FirstDirectorySectorLocation, then links children.
func BuildTree(fat *FAT, minifat *MiniFAT, h *Header) (*Tree, error) {
	t := &Tree{fat: fat, minifat: minifat, h: h}

	sector := h.FirstDirectorySectorLocation
	for sector != ENDOFCHAIN {
		b, err := readSector(fat.r, h, sector)
		if err != nil {
			return nil, err
		}
		count := h.SectorSize / directoryEntrySize
		for i := 0; i < count; i++ {
			raw := b[i*directoryEntrySize : (i+1)*directoryEntrySize]
			e := parseDirectoryEntry(raw, h.MajorVersion)
			if e != nil {
				e.tree = t
			}
			t.Entries = append(t.Entries, e)
		}
		sector = fat.Next(sector)
	}
	if len(t.Entries) == 0 || t.Entries[0] == nil {
		return nil, mailprop.Corruptf("cfb: directory", "no root directory entry")
	}
	t.Root = t.Entries[0]

	if err := t.linkChildren(t.Root); err != nil {
		return nil, err
	}
	return t, nil
}

// linkChildren performs the breadth-first walk described in the
// source: starting from dirEntry's ChildID, follow sibling links to
// discover every descendant and insert it into dirEntry.Children keyed
// by name, recursing into grandchildren along the way.
func (t *Tree) linkChildren(dirEntry *DirectoryEntry) error {
	dirEntry.Children = map[string]*DirectoryEntry{}
	if dirEntry.ChildID == NoStream {
		return nil
	}

	queue := []uint32{dirEntry.ChildID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		child := t.Entries[id]
		if child == nil {
			continue
		}
		if _, dup := dirEntry.Children[child.Name]; dup {
			return mailprop.Corruptf("cfb: directory", "duplicate entry name %q under %q", child.Name, dirEntry.Name)
		}
		dirEntry.Children[child.Name] = child

		if child.SiblingID != NoStream {
			queue = append(queue, child.SiblingID)
		}
		if child.RightSiblingID != NoStream {
			queue = append(queue, child.RightSiblingID)
		}
		if child.ChildID != NoStream {
			if err := t.linkChildren(child); err != nil {
				return err
			}
		}
	}
	return nil
}

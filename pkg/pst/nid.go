// Package pst decodes the Personal Storage Table format used by Outlook
// mailbox files: the node/block database (NBD) layer of pages and
// blocks, the list/table/property (LTP) layer built on heap-on-node and
// b-tree-on-heap structures, and the messaging layer of folders,
// messages, attachments, and the name-to-id map.
package pst

import "encoding/binary"

// NID node-type values, the low 5 bits of every NID.
const (
	NIDTypeHID                  = 0x00
	NIDTypeInternal             = 0x01
	NIDTypeNormalFolder         = 0x02
	NIDTypeSearchFolder         = 0x03
	NIDTypeNormalMessage        = 0x04
	NIDTypeAttachment           = 0x05
	NIDTypeSearchUpdateQueue    = 0x06
	NIDTypeSearchCriteriaObject = 0x07
	NIDTypeAssocMessage         = 0x08
	NIDTypeContentsTableIndex   = 0x0A
	NIDTypeReceiveFolderTable   = 0x0B
	NIDTypeOutgoingQueueTable   = 0x0C
	NIDTypeHierarchyTable       = 0x0D
	NIDTypeContentsTable        = 0x0E
	NIDTypeAssocContentsTable   = 0x0F
	NIDTypeSearchContentsTable  = 0x10
	NIDTypeAttachmentTable      = 0x11
	NIDTypeRecipientTable       = 0x12
	NIDTypeSearchTableIndex     = 0x13
	NIDTypeLTP                  = 0x1F
)

// Well-known fixed NID values.
const (
	NIDMessageStore         = 0x21
	NIDNameToIDMap          = 0x61
	NIDNormalFolderTemplate = 0xA1
	NIDSearchFolderTemplate = 0xC1
	NIDRootFolder           = 0x122
)

// NID is a 32-bit node identifier: a 5-bit type tag plus a 27-bit index.
type NID struct {
	Value uint32
}

func NewNID(v uint32) NID { return NID{Value: v} }

// DecodeNID reads a 4-byte little-endian NID.
func DecodeNID(b []byte) NID {
	return NID{Value: binary.LittleEndian.Uint32(b)}
}

func (n NID) Type() int { return int(n.Value & 0x1F) }

// Index is the NID with its type bits masked off, used to derive the
// hierarchy/contents/FAI table NIDs that share a folder's index.
func (n NID) Index() uint32 { return n.Value &^ 0x1F }

// WithType returns the NID sharing this NID's index but a different
// type, used to reach a folder's sibling tables.
func (n NID) WithType(t int) NID { return NID{Value: n.Index() | uint32(t)} }

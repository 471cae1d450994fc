package cfb

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

const propertyStreamName = "__properties_version1.0"
const substgPrefix = "__substg1.0_"

// Property-stream header sizes: top-level storages carry an 8-byte
// reserved block, four 4-byte recipient/attachment counters and a
// further 8 reserved bytes (32); embedded messages carry the same
// without the trailing 8 reserved bytes (24); recipient/attachment
// storages carry only the first 8 reserved bytes.
const (
	TopLevelHeaderSize    = 32
	EmbeddedMsgHeaderSize = 24
	RecipOrAttachHeaderSize = 8
)

// PropertyEntry is one decoded property from a property stream.
type PropertyEntry struct {
	Tag   mailprop.Tag
	Flags uint32
	Value mailprop.Value
}

// PropertyStream is the decoded set of properties belonging to a single
// storage (the root message, an embedded message, a recipient, or an
// attachment), keyed by PropertyId.
type PropertyStream struct {
	Properties map[mailprop.PropertyId]*PropertyEntry
}

// Get returns the decoded property entry for id, or nil if absent.
func (ps *PropertyStream) Get(id mailprop.PropertyId) *PropertyEntry {
	return ps.Properties[id]
}

// ParsePropertyStream decodes the named property stream that must
// exist as a child of dirEntry, dispatching fixed-size records inline
// and variable/multi records through sibling __substg1.0_<TAG> streams.
func ParsePropertyStream(dirEntry *DirectoryEntry, headerSize int) (*PropertyStream, error) {
	propEntry, ok := dirEntry.Children[propertyStreamName]
	if !ok {
		return &PropertyStream{Properties: map[mailprop.PropertyId]*PropertyEntry{}}, nil
	}
	raw, err := propEntry.GetData()
	if err != nil {
		return nil, err
	}

	ps := &PropertyStream{Properties: map[mailprop.PropertyId]*PropertyEntry{}}
	if len(raw) == 0 {
		return ps, nil
	}
	if (len(raw)-headerSize)%16 != 0 {
		return nil, mailprop.Corruptf("cfb: propstream", "property stream size less header (%d) is not a multiple of 16", len(raw)-headerSize)
	}

	count := (len(raw) - headerSize) / 16
	for i := 0; i < count; i++ {
		rec := raw[headerSize+i*16 : headerSize+i*16+16]
		entry, err := decodePropertyEntry(dirEntry, rec)
		if err != nil {
			return nil, err
		}
		id := entry.Tag.Id()
		if _, dup := ps.Properties[id]; dup {
			return nil, mailprop.Corruptf("cfb: propstream", "property id %#x already decoded", id)
		}
		ps.Properties[id] = entry
	}
	return ps, nil
}

func decodePropertyEntry(dirEntry *DirectoryEntry, rec []byte) (*PropertyEntry, error) {
	tag := mailprop.Tag(binary.LittleEndian.Uint32(rec[0:4]))
	flags := binary.LittleEndian.Uint32(rec[4:8])

	desc := mailprop.Descriptor(tag.Type())

	var value mailprop.Value
	if desc.IsVariable || desc.IsMulti {
		size := binary.LittleEndian.Uint32(rec[8:12])
		streamName := fmt.Sprintf("%s%08X", substgPrefix, uint32(tag))

		if desc.IsMulti && desc.IsVariable {
			v, err := decodeMultiVariable(dirEntry, streamName, desc)
			if err != nil {
				return nil, err
			}
			value = v
		} else {
			sub, ok := dirEntry.Children[streamName]
			if !ok {
				value = mailprop.Value{Type: desc.Type, Null: true}
			} else {
				payload, err := sub.GetData()
				if err != nil {
					return nil, err
				}
				if uint32(len(payload)) != size {
					ok := (desc.Type == mailprop.PtypString && uint32(len(payload))+2 == size) ||
						(desc.Type == mailprop.PtypString8 && uint32(len(payload))+1 == size)
					if !ok {
						return nil, mailprop.Corruptf("cfb: propstream", "property %#x size %d does not match stream length %d", tag, size, len(payload))
					}
				}
				value = decodeValue(desc.Type, payload)
			}
		}
	} else {
		width := desc.ByteCount
		if width > len(rec)-8 {
			width = len(rec) - 8
		}
		value = decodeValue(desc.Type, rec[8:8+width])
	}

	return &PropertyEntry{Tag: tag, Flags: flags, Value: value}, nil
}

// decodeMultiVariable decodes a PtypMultipleBinary/String/String8
// property. The length-table stream at streamName is present on disk
// but (per the source) unused for decoding: each element's bytes live
// in their own sibling stream streamName-NNNNNNNN, one per element,
// enumerated until the first missing index. Each element is decoded
// independently. This deliberately differs from the source, which
// joins every element's raw bytes into one buffer before decoding —
// for PtypMultipleString that reinterprets individual bytes as UTF-16LE
// code units and silently produces garbage; see DESIGN.md.
func decodeMultiVariable(dirEntry *DirectoryEntry, streamName string, desc mailprop.TypeDescriptor) (mailprop.Value, error) {
	var elems []mailprop.Value
	for i := 0; ; i++ {
		idxName := fmt.Sprintf("%s-%08X", streamName, i)
		sub, ok := dirEntry.Children[idxName]
		if !ok {
			break
		}
		payload, err := sub.GetData()
		if err != nil {
			return mailprop.Value{}, err
		}
		elems = append(elems, decodeValue(elementType(desc.Type), payload))
	}
	return mailprop.Value{Type: desc.Type, Multi: elems}, nil
}

// elementType returns the scalar PType decoded for one element of a
// multi-valued property type.
func elementType(multi mailprop.PType) mailprop.PType {
	switch multi {
	case mailprop.PtypMultipleString:
		return mailprop.PtypString
	case mailprop.PtypMultipleString8:
		return mailprop.PtypString8
	case mailprop.PtypMultipleBinary:
		return mailprop.PtypBinary
	default:
		return multi
	}
}

// decodeValue materializes a mailprop.Value for a single scalar
// payload per ptype. Multi-valued payloads are handled by
// decodeMultiVariable calling back into this per element, or, for
// fixed-width multi types not backed by per-index streams (none occur
// in CFB property streams but are handled defensively), by slicing the
// payload into ByteCount chunks.
func decodeValue(ptype mailprop.PType, payload []byte) mailprop.Value {
	v := mailprop.Value{Type: ptype}
	switch ptype {
	case mailprop.PtypInteger16:
		if len(payload) >= 2 {
			v.Int16 = int16(binary.LittleEndian.Uint16(payload))
		}
	case mailprop.PtypInteger32, mailprop.PtypObject:
		if len(payload) >= 4 {
			v.Int32 = int32(binary.LittleEndian.Uint32(payload))
		}
	case mailprop.PtypFloating32:
		if len(payload) >= 4 {
			v.Float32 = math.Float32frombits(binary.LittleEndian.Uint32(payload))
		}
	case mailprop.PtypFloating64, mailprop.PtypCurrency:
		if len(payload) >= 8 {
			v.Float64 = math.Float64frombits(binary.LittleEndian.Uint64(payload))
		}
	case mailprop.PtypFloatingTime:
		if len(payload) >= 8 {
			v.AppTime = mailprop.AppTime(math.Float64frombits(binary.LittleEndian.Uint64(payload)))
		}
	case mailprop.PtypErrorCode:
		if len(payload) >= 4 {
			v.ErrCode = binary.LittleEndian.Uint32(payload)
		}
	case mailprop.PtypBoolean:
		if len(payload) >= 1 {
			v.Bool = payload[0] != 0
		}
	case mailprop.PtypInteger64:
		if len(payload) >= 8 {
			v.Int64 = int64(binary.LittleEndian.Uint64(payload))
		}
	case mailprop.PtypTime:
		if len(payload) >= 8 {
			v.Time = mailprop.FileTime(int64(binary.LittleEndian.Uint64(payload)))
		}
	case mailprop.PtypString:
		v.Str = mailprop.DecodeUTF16LE(payload)
	case mailprop.PtypString8:
		// Source trims a single trailing NUL byte if present.
		if len(payload) > 0 && payload[len(payload)-1] == 0 {
			payload = payload[:len(payload)-1]
		}
		v.Str8 = append([]byte(nil), payload...)
	case mailprop.PtypGuid:
		var g mailprop.GUID
		copy(g[:], payload)
		v.Guid = g
	case mailprop.PtypBinary, mailprop.PtypUnspecified, mailprop.PtypServerId,
		mailprop.PtypRestriction, mailprop.PtypRuleAction:
		v.Binary = append([]byte(nil), payload...)
	case mailprop.PtypNull:
		v.Null = true
	default:
		if d := mailprop.Descriptor(mailprop.PropertyType(ptype)); d.IsMulti && !d.IsVariable && d.ByteCount > 0 {
			elem := ptype &^ 0x1000
			for off := 0; off+d.ByteCount <= len(payload); off += d.ByteCount {
				v.Multi = append(v.Multi, decodeValue(elem, payload[off:off+d.ByteCount]))
			}
			return v
		}
		v.Binary = append([]byte(nil), payload...)
	}
	return v
}

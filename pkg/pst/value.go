package pst

import (
	"encoding/binary"
	"math"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// decodeScalarValue materializes one mailprop.Value from a BTH/TC cell
// payload already resolved to its underlying bytes (inline, HID, or
// sub-node data). Mirrors the CFB property-stream decoder's scalar
// cases; PST's multi-valued cells use a different on-disk offset-header
// layout (see decodeMultiValue) rather than CFB's per-index sibling
// streams, so the two packages decode the same PTypes via sibling, not
// shared, code paths.
func decodeScalarValue(ptype mailprop.PType, payload []byte) mailprop.Value {
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
		v.Str8 = append([]byte(nil), payload...)
	case mailprop.PtypGuid:
		var g mailprop.GUID
		copy(g[:], payload)
		v.Guid = g
	case mailprop.PtypNull:
		v.Null = true
	default:
		v.Binary = append([]byte(nil), payload...)
	}
	return v
}

// multiOffsets decodes the ulCount + rgulDataOffsets header PST uses to
// pack a variable-length multi-value (PtypMultipleString(8)/Binary) into
// one contiguous buffer: a uint32 count, then that many uint32 offsets,
// each element spanning offsets[i]:offsets[i+1] with len(payload)
// appended as the final bound.
func multiOffsets(payload []byte) []int {
	if len(payload) < 4 {
		return nil
	}
	count := int(binary.LittleEndian.Uint32(payload[:4]))
	offsets := make([]int, 0, count+1)
	for i := 0; i < count; i++ {
		start := (i + 1) * 4
		if start+4 > len(payload) {
			break
		}
		offsets = append(offsets, int(binary.LittleEndian.Uint32(payload[start:start+4])))
	}
	offsets = append(offsets, len(payload))
	return offsets
}

// decodeValue materializes a property value of the given wire type from
// its fully-resolved payload, handling both scalar and multi-valued
// PTypes.
func decodeValue(ptype mailprop.PType, payload []byte) mailprop.Value {
	desc := mailprop.Descriptor(mailprop.PropertyType(ptype))
	if !desc.IsMulti {
		return decodeScalarValue(ptype, payload)
	}

	elemType := elementType(ptype)
	elemDesc := mailprop.Descriptor(mailprop.PropertyType(elemType))

	var elems []mailprop.Value
	if elemDesc.IsVariable {
		offsets := multiOffsets(payload)
		for i := 0; i+1 < len(offsets); i++ {
			elems = append(elems, decodeScalarValue(elemType, payload[offsets[i]:offsets[i+1]]))
		}
	} else {
		width := elemDesc.ByteCount
		if width > 0 {
			for off := 0; off+width <= len(payload); off += width {
				elems = append(elems, decodeScalarValue(elemType, payload[off:off+width]))
			}
		}
	}
	return mailprop.Value{Type: ptype, Multi: elems}
}

// elementType returns the scalar PType of one element of a multi-valued
// PType.
func elementType(multi mailprop.PType) mailprop.PType {
	switch multi {
	case mailprop.PtypMultipleInteger16:
		return mailprop.PtypInteger16
	case mailprop.PtypMultipleInteger32:
		return mailprop.PtypInteger32
	case mailprop.PtypMultipleFloating32:
		return mailprop.PtypFloating32
	case mailprop.PtypMultipleFloating64:
		return mailprop.PtypFloating64
	case mailprop.PtypMultipleCurrency:
		return mailprop.PtypCurrency
	case mailprop.PtypMultipleFloatingTime:
		return mailprop.PtypFloatingTime
	case mailprop.PtypMultipleInteger64:
		return mailprop.PtypInteger64
	case mailprop.PtypMultipleString:
		return mailprop.PtypString
	case mailprop.PtypMultipleString8:
		return mailprop.PtypString8
	case mailprop.PtypMultipleTime:
		return mailprop.PtypTime
	case mailprop.PtypMultipleGuid:
		return mailprop.PtypGuid
	case mailprop.PtypMultipleBinary:
		return mailprop.PtypBinary
	default:
		return multi
	}
}

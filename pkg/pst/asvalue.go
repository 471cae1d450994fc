package pst

import "github.com/panhunt/mailcore/pkg/mailprop"

// asString and asInt32 mirror pkg/cfb's property accessors, adapted to
// operate directly on a resolved mailprop.Value (PC/TC properties here
// are stored by value, not behind a pointer-typed property-entry node).
func asString(v mailprop.Value, ok bool) string {
	if !ok {
		return ""
	}
	switch v.Type {
	case mailprop.PtypString:
		return v.Str
	case mailprop.PtypString8:
		return string(v.Str8)
	default:
		return ""
	}
}

func asInt32(v mailprop.Value, ok bool) int32 {
	if !ok {
		return 0
	}
	switch v.Type {
	case mailprop.PtypInteger16:
		return int32(v.Int16)
	case mailprop.PtypInteger32, mailprop.PtypObject:
		return v.Int32
	case mailprop.PtypInteger64:
		return int32(v.Int64)
	case mailprop.PtypBoolean:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func asBinary(v mailprop.Value, ok bool) []byte {
	if !ok {
		return nil
	}
	return v.Binary
}

func asTime(v mailprop.Value, ok bool) *mailprop.FileTime {
	if !ok || v.Type != mailprop.PtypTime {
		return nil
	}
	t := v.Time
	return &t
}

package mailprop

import (
	"fmt"

	"github.com/google/uuid"
)

// PType enumerates the wire values a PropertyType can take, per
// MS-OXCDATA. The numeric values are the protocol's fixed constants,
// not an implementation choice.
type PType PropertyType

const (
	PtypUnspecified       PType = 0x0000
	PtypNull              PType = 0x0001
	PtypInteger16         PType = 0x0002
	PtypInteger32         PType = 0x0003
	PtypFloating32        PType = 0x0004
	PtypFloating64        PType = 0x0005
	PtypCurrency          PType = 0x0006
	PtypFloatingTime      PType = 0x0007
	PtypErrorCode         PType = 0x000A
	PtypBoolean           PType = 0x000B
	PtypObject            PType = 0x000D
	PtypInteger64         PType = 0x0014
	PtypString8           PType = 0x001E
	PtypString            PType = 0x001F
	PtypTime              PType = 0x0040
	PtypGuid              PType = 0x0048
	PtypServerId          PType = 0x00FB
	PtypRestriction       PType = 0x00FD
	PtypRuleAction        PType = 0x00FE
	PtypBinary            PType = 0x0102
	PtypMultipleInteger16 PType = 0x1002
	PtypMultipleInteger32 PType = 0x1003
	PtypMultipleFloating32 PType = 0x1004
	PtypMultipleFloating64 PType = 0x1005
	PtypMultipleCurrency  PType = 0x1006
	PtypMultipleFloatingTime PType = 0x1007
	PtypMultipleInteger64 PType = 0x1014
	PtypMultipleString8   PType = 0x101E
	PtypMultipleString    PType = 0x101F
	PtypMultipleTime      PType = 0x1040
	PtypMultipleGuid      PType = 0x1048
	PtypMultipleBinary    PType = 0x1102
)

// TypeDescriptor is the shared dispatch record used by both the CFB
// property-stream decoder and PST's PC/TC cell decoder: a single table
// from PropertyType to {width, is_variable, is_multi} replaces a
// polymorphic value hierarchy.
type TypeDescriptor struct {
	Type       PType
	ByteCount  int // fixed width in bytes, 0 if not fixed-width
	IsVariable bool
	IsMulti    bool
}

// TypeDescriptors is keyed by the wire PType value. Width/variable/multi
// flags follow MS-OXCDATA; PtypBinary is {variable, not multi} here, the
// standard reading, even though the PANHunt source that grounds this
// decoder mistakenly tags PtypBinary as multi-valued.
var TypeDescriptors = map[PType]TypeDescriptor{
	PtypInteger16:            {PtypInteger16, 2, false, false},
	PtypInteger32:            {PtypInteger32, 4, false, false},
	PtypFloating32:           {PtypFloating32, 4, false, false},
	PtypFloating64:           {PtypFloating64, 8, false, false},
	PtypCurrency:             {PtypCurrency, 8, false, false},
	PtypFloatingTime:         {PtypFloatingTime, 8, false, false},
	PtypErrorCode:            {PtypErrorCode, 4, false, false},
	PtypBoolean:              {PtypBoolean, 1, false, false},
	PtypInteger64:            {PtypInteger64, 8, false, false},
	PtypString:               {PtypString, 0, true, false},
	PtypString8:              {PtypString8, 0, true, false},
	PtypTime:                 {PtypTime, 8, false, false},
	PtypGuid:                 {PtypGuid, 16, false, false},
	PtypServerId:             {PtypServerId, 0, true, false},
	PtypRestriction:          {PtypRestriction, 0, true, false},
	PtypRuleAction:           {PtypRuleAction, 0, true, false},
	PtypBinary:               {PtypBinary, 0, true, false},
	PtypMultipleInteger16:    {PtypMultipleInteger16, 2, false, true},
	PtypMultipleInteger32:    {PtypMultipleInteger32, 4, false, true},
	PtypMultipleFloating32:   {PtypMultipleFloating32, 4, false, true},
	PtypMultipleFloating64:   {PtypMultipleFloating64, 8, false, true},
	PtypMultipleCurrency:     {PtypMultipleCurrency, 8, false, true},
	PtypMultipleFloatingTime: {PtypMultipleFloatingTime, 8, false, true},
	PtypMultipleInteger64:    {PtypMultipleInteger64, 8, false, true},
	PtypMultipleString:       {PtypMultipleString, 0, true, true},
	PtypMultipleString8:      {PtypMultipleString8, 0, true, true},
	PtypMultipleTime:         {PtypMultipleTime, 8, false, true},
	PtypMultipleGuid:         {PtypMultipleGuid, 16, false, true},
	PtypMultipleBinary:       {PtypMultipleBinary, 0, true, true},
	PtypUnspecified:          {PtypUnspecified, 0, false, false},
	PtypNull:                 {PtypNull, 0, false, false},
	PtypObject:               {PtypObject, 4, false, false},
}

// Descriptor looks up the TypeDescriptor for a wire PropertyType,
// falling back to an opaque Unspecified-shaped descriptor for unknown
// values per the "unknown types are preserved rather than aborting"
// invariant.
func Descriptor(t PropertyType) TypeDescriptor {
	if d, ok := TypeDescriptors[PType(t)]; ok {
		return d
	}
	return TypeDescriptor{Type: PType(t), ByteCount: 0, IsVariable: true, IsMulti: false}
}

// GUID is a 16-byte MAPI property set identifier.
type GUID [16]byte

// String renders the GUID in canonical form via google/uuid.
func (g GUID) String() string {
	id, err := uuid.FromBytes(g[:])
	if err != nil {
		return fmt.Sprintf("%x", g[:])
	}
	return id.String()
}

// Value is the tagged union every decoded property resolves to. Exactly
// one field is meaningful, selected by Type; Multi holds a Value slice
// when Type.IsMulti.
type Value struct {
	Type PType

	Int16    int16
	Int32    int32
	Int64    int64
	ErrCode  uint32
	Float32  float32
	Float64  float64
	Bool     bool
	Time     FileTime
	AppTime  AppTime
	Str      string
	Str8     []byte
	Binary   []byte
	Guid     GUID
	EntryID  *EntryID
	Null     bool

	Multi []Value
}

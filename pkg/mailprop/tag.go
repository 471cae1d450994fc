package mailprop

// PropertyId is the 16-bit identifier half of a property tag. Values
// below 0x8000 are well-known MAPI properties; values at or above
// 0x8000 are named-property indices assigned per-store by the
// name-to-id map (NPID = wPropIdx + 0x8000).
type PropertyId uint16

// PropertyType is the 16-bit type half of a property tag. Its value is
// a PTypeEnum member (PtypInteger16, PtypString, PtypMultipleBinary,
// and so on); see the TypeDescriptor table in types.go.
type PropertyType uint16

// Tag is the 32-bit combination of a PropertyType (high word) and
// PropertyId (low word) used on the wire by CFB tag-named streams
// (__substg1.0_<TAG-hex>) and conceptually by PST's PC/TC columns,
// which store the two halves separately but combine them the same way
// for display and lookup.
type Tag uint32

// NewTag packs a PropertyId and PropertyType into a single 32-bit tag.
func NewTag(id PropertyId, typ PropertyType) Tag {
	return Tag(uint32(typ)<<16 | uint32(id))
}

// Id extracts the PropertyId half of the tag.
func (t Tag) Id() PropertyId {
	return PropertyId(t & 0xFFFF)
}

// Type extracts the PropertyType half of the tag.
func (t Tag) Type() PropertyType {
	return PropertyType(t >> 16)
}

package pst

import (
	"encoding/binary"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// Row-offset slots within TCINFO's rgib: cumulative byte offsets into a
// row for the 4-byte, 2-byte, 1-byte and existence-bitmap regions, in
// that order; the bitmap offset also doubles as the total row width.
const (
	tciOffset4b = 0
	tciOffset2b = 1
	tciOffset1b = 2
	tciOffsetBm = 3
)

// TCColumn is one TCOLDESC: a column's property tag, its offset and
// width within a row, and its bit position in the row's existence map.
type TCColumn struct {
	PropType mailprop.PType
	PropID   mailprop.PropertyId
	IbData   uint16
	CbData   byte
	IBit     byte
}

// TC is a Table Context: the PST analogue of a CFB hierarchy or
// recipient/attachment listing, a row matrix addressed by a BTH row
// index keyed on dwRowID.
type TC struct {
	hn      *HN
	Columns []TCColumn
	rowSize uint16
	ib1b    uint16

	// Rows maps dwRowID to its decoded cell values.
	Rows map[uint32]map[mailprop.PropertyId]mailprop.Value
	// RowOrder is the row ids in row-index order, as the underlying
	// hierarchy/contents/attachment/recipient table orders them.
	RowOrder []uint32
}

// Len is the number of rows in the table.
func (tc *TC) Len() int { return len(tc.RowOrder) }

// RowID returns the dwRowID of the row at index i.
func (tc *TC) RowID(i int) uint32 { return tc.RowOrder[i] }

// Value returns the value of propID in the row at index i.
func (tc *TC) Value(i int, propID mailprop.PropertyId) (mailprop.Value, bool) {
	row, ok := tc.Rows[tc.RowOrder[i]]
	if !ok {
		return mailprop.Value{}, false
	}
	v, ok := row[propID]
	return v, ok
}

// OpenTC decodes the Table Context rooted at hn's user root TCINFO.
func OpenTC(hn *HN) (*TC, error) {
	if hn.ClientSig != HNClientTypeTC {
		return nil, mailprop.Corruptf("pst: tc", "invalid HN client signature %#x, want TC", hn.ClientSig)
	}
	tcinfo, err := hn.GetHIDData(hn.UserRoot)
	if err != nil {
		return nil, err
	}
	if len(tcinfo) < 22 {
		return nil, mailprop.Corruptf("pst: tc", "TCINFO too short")
	}
	bType := tcinfo[0]
	if bType != HNClientTypeTC {
		return nil, mailprop.Corruptf("pst: tc", "invalid TCINFO bType %#x", bType)
	}
	cCols := int(tcinfo[1])

	var rgib [4]uint16
	for i := 0; i < 4; i++ {
		rgib[i] = binary.LittleEndian.Uint16(tcinfo[2+i*2 : 4+i*2])
	}
	hidRowIndex := DecodeHID(tcinfo[10:14])
	hnidRowsRaw := append([]byte(nil), tcinfo[14:18]...)

	if len(tcinfo) < 22+cCols*8 {
		return nil, mailprop.Corruptf("pst: tc", "TCINFO too short for %d columns", cCols)
	}
	tc := &TC{hn: hn, rowSize: rgib[tciOffsetBm], ib1b: rgib[tciOffset1b]}
	for i := 0; i < cCols; i++ {
		raw := tcinfo[22+i*8 : 22+(i+1)*8]
		tc.Columns = append(tc.Columns, TCColumn{
			PropType: mailprop.PType(binary.LittleEndian.Uint16(raw[0:2])),
			PropID:   mailprop.PropertyId(binary.LittleEndian.Uint16(raw[2:4])),
			IbData:   binary.LittleEndian.Uint16(raw[4:6]),
			CbData:   raw[6],
			IBit:     raw[7],
		})
	}

	rowIDByIndex, err := tc.decodeRowIndex(hidRowIndex, hnidRowsRaw)
	if err != nil {
		return nil, err
	}
	if rowIDByIndex == nil {
		tc.Rows = map[uint32]map[mailprop.PropertyId]mailprop.Value{}
		return tc, nil
	}
	if err := tc.decodeRowMatrix(hnidRowsRaw, rowIDByIndex); err != nil {
		return nil, err
	}
	return tc, nil
}

// decodeRowIndex decodes the dwRowIndex -> dwRowID BTH, or reports "no
// rows" (nil map) when hnidRows is a zero HID, matching the source's
// `hnidRows.is_hid and hnidRows.hidIndex == 0` empty-table case.
func (tc *TC) decodeRowIndex(hidRowIndex HID, hnidRowsRaw []byte) (map[uint32]uint32, error) {
	nid := DecodeNID(hnidRowsRaw)
	if nid.Type() == NIDTypeHID {
		hid := DecodeHID(hnidRowsRaw)
		if hid.Index() == 0 {
			return nil, nil
		}
	}

	bth, err := OpenBTH(tc.hn, hidRowIndex)
	if err != nil {
		return nil, err
	}
	if bth.CbKey != 4 {
		return nil, mailprop.Corruptf("pst: tc", "invalid TC row index key size %d", bth.CbKey)
	}
	out := map[uint32]uint32{}
	for _, rec := range bth.Records {
		dwRowID := binary.LittleEndian.Uint32(rec.Key)
		var dwRowIndex uint32
		switch len(rec.Data) {
		case 2:
			dwRowIndex = uint32(binary.LittleEndian.Uint16(rec.Data))
		case 4:
			dwRowIndex = binary.LittleEndian.Uint32(rec.Data)
		default:
			return nil, mailprop.Corruptf("pst: tc", "invalid TCROWID entry size %d", len(rec.Data))
		}
		out[dwRowIndex] = dwRowID
	}
	return out, nil
}

func (tc *TC) decodeRowMatrix(hnidRowsRaw []byte, rowIDByIndex map[uint32]uint32) error {
	trailerSize := 12
	if !tc.hn.NBD.isAnsi {
		trailerSize = 16
	}
	if tc.rowSize == 0 {
		return mailprop.Corruptf("pst: tc", "zero row size")
	}
	rowsPerBlock := (8192 - trailerSize) / int(tc.rowSize)
	if rowsPerBlock <= 0 {
		return mailprop.Corruptf("pst: tc", "row size %d too large for a block", tc.rowSize)
	}

	var rowMatrixData [][]byte
	nid := DecodeNID(hnidRowsRaw)
	if nid.Type() == NIDTypeHID {
		hid := DecodeHID(hnidRowsRaw)
		data, err := tc.hn.GetHIDData(hid)
		if err != nil {
			return err
		}
		rowMatrixData = [][]byte{data}
	} else {
		entry, ok := tc.hn.Subnodes[nid.Value]
		if !ok {
			return mailprop.Corruptf("pst: tc", "row matrix sub-node %#x not found", nid.Value)
		}
		blocks, err := tc.hn.NBD.FetchAllBlockData(entry.BidData)
		if err != nil {
			return err
		}
		rowMatrixData = blocks
	}

	tc.Rows = map[uint32]map[mailprop.PropertyId]mailprop.Value{}
	for irow := 0; irow < len(rowIDByIndex); irow++ {
		dwRowID, ok := rowIDByIndex[uint32(irow)]
		if !ok {
			return mailprop.Corruptf("pst: tc", "row index %d missing from row index BTH", irow)
		}
		blockIndex := irow / rowsPerBlock
		rowIndex := irow % rowsPerBlock
		if blockIndex >= len(rowMatrixData) {
			return mailprop.Corruptf("pst: tc", "row %d references block %d beyond %d available", irow, blockIndex, len(rowMatrixData))
		}
		rowStart := rowIndex * int(tc.rowSize)
		rowEnd := rowStart + int(tc.rowSize)
		block := rowMatrixData[blockIndex]
		if rowEnd > len(block) {
			return mailprop.Corruptf("pst: tc", "row %d exceeds block bounds", irow)
		}
		rowBytes := block[rowStart:rowEnd]
		rgbCEB := rowBytes[tc.ib1b:]

		rowVals := map[mailprop.PropertyId]mailprop.Value{}
		for _, col := range tc.Columns {
			exists := rgbCEB[col.IBit/8]&(1<<(7-col.IBit%8)) != 0
			if !exists {
				continue
			}
			cellBytes := rowBytes[col.IbData : int(col.IbData)+int(col.CbData)]
			value, err := tc.decodeCell(cellBytes, col.PropType)
			if err != nil {
				return err
			}
			rowVals[col.PropID] = value
		}
		tc.Rows[dwRowID] = rowVals
		tc.RowOrder = append(tc.RowOrder, dwRowID)
	}
	return nil
}

func (tc *TC) decodeCell(raw []byte, ptype mailprop.PType) (mailprop.Value, error) {
	desc := mailprop.Descriptor(mailprop.PropertyType(ptype))
	payload, err := resolveHeapValue(tc.hn, desc, raw, 8)
	if err != nil {
		return mailprop.Value{}, err
	}
	return decodeValue(ptype, payload), nil
}

package cfb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sectorSize = 512

// utf16le encodes an ASCII string as UTF-16LE without a terminator.
func utf16le(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r), 0)
	}
	return out
}

func putDirEntry(buf []byte, name string, objectType byte, siblingID, rightSiblingID, childID uint32, startSector uint32, streamSize uint64) {
	nameUTF16 := utf16le(name)
	nameUTF16 = append(nameUTF16, 0, 0) // NUL terminator
	copy(buf[0:64], nameUTF16)
	binary.LittleEndian.PutUint16(buf[64:66], uint16(len(nameUTF16)))
	buf[66] = objectType
	buf[67] = 0 // color flag
	binary.LittleEndian.PutUint32(buf[68:72], siblingID)
	binary.LittleEndian.PutUint32(buf[72:76], rightSiblingID)
	binary.LittleEndian.PutUint32(buf[76:80], childID)
	binary.LittleEndian.PutUint32(buf[116:120], startSector)
	binary.LittleEndian.PutUint64(buf[120:128], streamSize)
}

// buildFixture assembles a minimal single-level CFB container: a root
// storage with a top-level property stream carrying PidTagMessageFlags
// (fixed, inline), PidTagSubjectW, and PidTagBody (both variable, in
// sibling __substg1.0_<tag> streams). MiniStreamCutoffSize is 0 so
// every stream resolves through the regular FAT, keeping the fixture
// single-layered.
func buildFixture(t *testing.T, subject, body string) []byte {
	t.Helper()

	subjectBytes := utf16le(subject)
	bodyBytes := utf16le(body)

	subjectTag := uint32(0x001F0037) // PtypString << 16 | PidTagSubjectW
	bodyTag := uint32(0x001F1000)    // PtypString << 16 | PidTagBody
	flagsTag := uint32(0x00030E07)   // PtypInteger32 << 16 | PidTagMessageFlags

	propStream := make([]byte, 32) // top-level header: 8 reserved + 4x uint32 + 8 reserved
	rec := func(tag uint32, extra uint32) []byte {
		b := make([]byte, 16)
		binary.LittleEndian.PutUint32(b[0:4], tag)
		binary.LittleEndian.PutUint32(b[8:12], extra)
		return b
	}
	propStream = append(propStream, rec(flagsTag, 0x10)...) // mfHasAttach
	propStream = append(propStream, rec(subjectTag, uint32(len(subjectBytes)))...)
	propStream = append(propStream, rec(bodyTag, uint32(len(bodyBytes)))...)

	// sectors: 0=FAT, 1=directory, 2=propstream, 3=subject, 4=body
	fatSector := make([]byte, sectorSize)
	entries := []uint32{FATSECT, ENDOFCHAIN, ENDOFCHAIN, ENDOFCHAIN, ENDOFCHAIN}
	for i, e := range entries {
		binary.LittleEndian.PutUint32(fatSector[i*4:i*4+4], e)
	}
	for i := len(entries); i*4 < sectorSize; i++ {
		binary.LittleEndian.PutUint32(fatSector[i*4:i*4+4], FREESECT)
	}

	dirSector := make([]byte, sectorSize)
	putDirEntry(dirSector[0:128], "Root Entry", ObjectRootStorage, NoStream, NoStream, 1, ENDOFCHAIN, 0)
	putDirEntry(dirSector[128:256], propertyStreamName, ObjectStream, NoStream, 2, NoStream, 2, uint64(len(propStream)))
	putDirEntry(dirSector[256:384], fmt.Sprintf("%s%08X", substgPrefix, subjectTag), ObjectStream, NoStream, 3, NoStream, 3, uint64(len(subjectBytes)))
	putDirEntry(dirSector[384:512], fmt.Sprintf("%s%08X", substgPrefix, bodyTag), ObjectStream, NoStream, NoStream, NoStream, 4, uint64(len(bodyBytes)))

	propSector := make([]byte, sectorSize)
	copy(propSector, propStream)
	subjectSector := make([]byte, sectorSize)
	copy(subjectSector, subjectBytes)
	bodySector := make([]byte, sectorSize)
	copy(bodySector, bodyBytes)

	var buf bytes.Buffer
	header := make([]byte, sectorSize)
	copy(header[0:8], signature[:])
	// 16 bytes CLSID left zero
	binary.LittleEndian.PutUint16(header[24:26], 0)  // MinorVersion
	binary.LittleEndian.PutUint16(header[26:28], 3)  // MajorVersion
	binary.LittleEndian.PutUint16(header[28:30], 0xFFFE)
	binary.LittleEndian.PutUint16(header[30:32], 9) // SectorShift (512 = 2^9)
	binary.LittleEndian.PutUint16(header[32:34], 6) // MiniSectorShift
	// 6 reserved bytes at [34:40]
	binary.LittleEndian.PutUint32(header[40:44], 0)  // DirectorySectorCount
	binary.LittleEndian.PutUint32(header[44:48], 1)  // FATSectorCount
	binary.LittleEndian.PutUint32(header[48:52], 1)  // FirstDirectorySectorLocation = sector 1
	binary.LittleEndian.PutUint32(header[52:56], 0)  // TransactionSignatureNumber
	binary.LittleEndian.PutUint32(header[56:60], 0)  // MiniStreamCutoffSize = 0
	binary.LittleEndian.PutUint32(header[60:64], ENDOFCHAIN) // FirstMiniFATSectorLocation
	binary.LittleEndian.PutUint32(header[64:68], 0)  // MiniFATSectorCount
	binary.LittleEndian.PutUint32(header[68:72], ENDOFCHAIN) // FirstDIFATSectorLocation
	binary.LittleEndian.PutUint32(header[72:76], 0)  // DIFATSectorCount
	binary.LittleEndian.PutUint32(header[76:80], 0)  // DIFAT[0] = sector 0 (the FAT sector)
	for i := 1; i < 109; i++ {
		binary.LittleEndian.PutUint32(header[76+i*4:76+i*4+4], FREESECT)
	}

	buf.Write(header)
	buf.Write(fatSector)
	buf.Write(dirSector)
	buf.Write(propSector)
	buf.Write(subjectSector)
	buf.Write(bodySector)

	require.Equal(t, sectorSize*6, buf.Len())
	return buf.Bytes()
}

func TestOpenMessage_SubjectAndBody(t *testing.T) {
	data := buildFixture(t, "Hello, world", "a short body")
	c, err := Open(bytesReadSeeker(data))
	require.NoError(t, err)
	require.True(t, c.Valid)

	msg, err := OpenMessage(c)
	require.NoError(t, err)

	assert.Equal(t, "Hello, world", msg.Subject)
	assert.Equal(t, "a short body", msg.Body)
	assert.Equal(t, int32(0x10), msg.MessageFlags)
	assert.Empty(t, msg.Recipients)
	assert.Empty(t, msg.Attachments)
}

func TestOpen_BadSignatureIsInvalidNotFatal(t *testing.T) {
	data := make([]byte, sectorSize)
	c, err := Open(bytesReadSeeker(data))
	require.NoError(t, err)
	assert.False(t, c.Valid)
}

func TestOpen_DIFATOverflowIsFatal(t *testing.T) {
	data := buildFixture(t, "x", "y")
	// Corrupt FirstDIFATSectorLocation to something other than ENDOFCHAIN.
	binary.LittleEndian.PutUint32(data[68:72], 7)
	_, err := Open(bytesReadSeeker(data))
	require.Error(t, err)
}

// bytesReadSeeker adapts a byte slice to io.ReadSeeker for tests.
func bytesReadSeeker(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

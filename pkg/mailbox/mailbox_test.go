package mailbox

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panhunt/mailcore/pkg/malog"
)

const sectorSize = 512

// The constants and layout mirror pkg/cfb's own test fixture: a minimal
// single-level compound file with a root storage, one top-level property
// stream and one variable-length substg stream, everything resolved
// through the regular FAT (MiniStreamCutoffSize 0).
const (
	cfbFATSECT              = 0xFFFFFFFD
	cfbENDOFCHAIN           = 0xFFFFFFFE
	cfbFREESECT             = 0xFFFFFFFF
	cfbNoStream             = 0xFFFFFFFF
	cfbObjectStream    byte = 0x02
	cfbObjectRootStore byte = 0x05
)

func utf16le(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r), 0)
	}
	return out
}

func putDirEntry(buf []byte, name string, objectType byte, siblingID, rightSiblingID, childID uint32, startSector uint32, streamSize uint64) {
	nameUTF16 := utf16le(name)
	nameUTF16 = append(nameUTF16, 0, 0)
	copy(buf[0:64], nameUTF16)
	binary.LittleEndian.PutUint16(buf[64:66], uint16(len(nameUTF16)))
	buf[66] = objectType
	buf[67] = 0
	binary.LittleEndian.PutUint32(buf[68:72], siblingID)
	binary.LittleEndian.PutUint32(buf[72:76], rightSiblingID)
	binary.LittleEndian.PutUint32(buf[76:80], childID)
	binary.LittleEndian.PutUint32(buf[116:120], startSector)
	binary.LittleEndian.PutUint64(buf[120:128], streamSize)
}

// buildCFBFixture assembles a minimal .msg-shaped compound file carrying
// just a subject, so mailbox's CFB adapter has something to wrap into a
// single-message root folder.
func buildCFBFixture(t *testing.T, subject string) []byte {
	t.Helper()

	subjectBytes := utf16le(subject)
	subjectTag := uint32(0x001F0037) // PtypString << 16 | PidTagSubjectW

	propStream := make([]byte, 32)
	rec := make([]byte, 16)
	binary.LittleEndian.PutUint32(rec[0:4], subjectTag)
	binary.LittleEndian.PutUint32(rec[8:12], uint32(len(subjectBytes)))
	propStream = append(propStream, rec...)

	fatSector := make([]byte, sectorSize)
	entries := []uint32{cfbFATSECT, cfbENDOFCHAIN, cfbENDOFCHAIN, cfbENDOFCHAIN}
	for i, e := range entries {
		binary.LittleEndian.PutUint32(fatSector[i*4:i*4+4], e)
	}
	for i := len(entries); i*4 < sectorSize; i++ {
		binary.LittleEndian.PutUint32(fatSector[i*4:i*4+4], cfbFREESECT)
	}

	dirSector := make([]byte, sectorSize)
	putDirEntry(dirSector[0:128], "Root Entry", cfbObjectRootStore, cfbNoStream, cfbNoStream, 1, cfbENDOFCHAIN, 0)
	putDirEntry(dirSector[128:256], "__properties_version1.0", cfbObjectStream, cfbNoStream, 2, cfbNoStream, 2, uint64(len(propStream)))
	putDirEntry(dirSector[256:384], fmt.Sprintf("__substg1.0_%08X", subjectTag), cfbObjectStream, cfbNoStream, cfbNoStream, cfbNoStream, 3, uint64(len(subjectBytes)))

	propSector := make([]byte, sectorSize)
	copy(propSector, propStream)
	subjectSector := make([]byte, sectorSize)
	copy(subjectSector, subjectBytes)

	var buf bytes.Buffer
	header := make([]byte, sectorSize)
	copy(header[0:8], []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	binary.LittleEndian.PutUint16(header[24:26], 0)
	binary.LittleEndian.PutUint16(header[26:28], 3)
	binary.LittleEndian.PutUint16(header[28:30], 0xFFFE)
	binary.LittleEndian.PutUint16(header[30:32], 9)
	binary.LittleEndian.PutUint16(header[32:34], 6)
	binary.LittleEndian.PutUint32(header[40:44], 0)
	binary.LittleEndian.PutUint32(header[44:48], 1)
	binary.LittleEndian.PutUint32(header[48:52], 1)
	binary.LittleEndian.PutUint32(header[52:56], 0)
	binary.LittleEndian.PutUint32(header[56:60], 0)
	binary.LittleEndian.PutUint32(header[60:64], cfbENDOFCHAIN)
	binary.LittleEndian.PutUint32(header[64:68], 0)
	binary.LittleEndian.PutUint32(header[68:72], cfbENDOFCHAIN)
	binary.LittleEndian.PutUint32(header[72:76], 0)
	binary.LittleEndian.PutUint32(header[76:80], 0)
	for i := 1; i < 109; i++ {
		binary.LittleEndian.PutUint32(header[76+i*4:76+i*4+4], cfbFREESECT)
	}

	buf.Write(header)
	buf.Write(fatSector)
	buf.Write(dirSector)
	buf.Write(propSector)
	buf.Write(subjectSector)

	require.Equal(t, sectorSize*5, buf.Len())
	return buf.Bytes()
}

func TestOpenCFB_SingleMessageRoot(t *testing.T) {
	data := buildCFBFixture(t, "Quarterly report")
	c, err := OpenCFB(bytes.NewReader(data))
	require.NoError(t, err)
	require.True(t, c.Valid())
	defer c.Close()

	root, err := c.RootFolder()
	require.NoError(t, err)
	assert.Equal(t, int32(1), root.ContentCount())

	msgs, err := root.Messages()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Quarterly report", msgs[0].Subject())

	subs, err := root.Subfolders()
	require.NoError(t, err)
	assert.Empty(t, subs)

	count, err := TotalMessageCount(root)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpenFile_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.msg")
	require.NoError(t, os.WriteFile(path, buildCFBFixture(t, "hi"), 0o644))

	c, err := OpenFile(path)
	require.NoError(t, err)
	defer c.Close()
	assert.True(t, c.Valid())
}

func TestExportFolders_WritesOneFileAtRoot(t *testing.T) {
	data := buildCFBFixture(t, "Export me")
	c, err := OpenCFB(bytes.NewReader(data))
	require.NoError(t, err)
	defer c.Close()

	root, err := c.RootFolder()
	require.NoError(t, err)

	outDir := t.TempDir()
	require.NoError(t, ExportFolders(outDir, root, malog.Discard))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

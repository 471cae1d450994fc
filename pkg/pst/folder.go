package pst

import (
	"encoding/binary"

	"github.com/panhunt/mailcore/pkg/mailprop"
)

// SubFolder is one row of a folder's hierarchy table: enough to locate
// and label a child folder without decoding it.
type SubFolder struct {
	Nid        NID
	Name       string
	ParentPath string
}

// SubMessage is one row of a folder's contents table: enough to list
// and label a message without decoding its body or attachments.
type SubMessage struct {
	Nid                  NID
	SentRepresentingName string
	Subject              string
	ClientSubmitTime     *mailprop.FileTime
}

// Folder is a decoded normal folder: its own properties plus its
// hierarchy (sub-folders) and contents (sub-messages) tables.
type Folder struct {
	pc *PC

	DisplayName    string
	Path           string
	EntryID        []byte
	ContentCount   int32
	ContainerClass string
	HasSubfolders  bool

	SubFolders       []SubFolder
	SubMessages      []SubMessage
	SubAssocMessages []SubMessage
}

// OpenFolder decodes the folder named by nid (which must be a normal
// folder NID) and its hierarchy/contents tables.
func OpenFolder(nid NID, ltp *LTP, parentPath string, messaging *Messaging) (*Folder, error) {
	if nid.Type() != NIDTypeNormalFolder {
		return nil, mailprop.Corruptf("pst: folder", "invalid folder NID type %#x", nid.Type())
	}
	pc, err := ltp.GetPCByNID(nid)
	if err != nil {
		return nil, err
	}
	f := &Folder{pc: pc}

	dn, dnOK := pc.Properties[mailprop.PidTagDisplayName]
	f.DisplayName = asString(dn, dnOK)
	f.Path = parentPath + `\` + f.DisplayName

	if messaging != nil {
		f.EntryID = make([]byte, 0, 24)
		f.EntryID = append(f.EntryID, make([]byte, 4)...)
		f.EntryID = append(f.EntryID, messaging.StoreRecordKey[:]...)
		nidBytes := make([]byte, 4)
		binary.LittleEndian.PutUint32(nidBytes, nid.Value)
		f.EntryID = append(f.EntryID, nidBytes...)
	}

	if cc, ok := pc.Properties[mailprop.PidTagContentCount]; ok {
		f.ContentCount = asInt32(cc, ok)
	}
	if cls, ok := pc.Properties[mailprop.PidTagContainerClass]; ok {
		f.ContainerClass = asString(cls, ok)
	}
	if hsf, ok := pc.Properties[mailprop.PidTagSubfolders]; ok {
		f.HasSubfolders = asInt32(hsf, ok) == 1
	}

	hierarchyTC, err := ltp.GetTCByNID(nid.WithType(NIDTypeHierarchyTable))
	if err != nil {
		return nil, err
	}
	for i := 0; i < hierarchyTC.Len(); i++ {
		childNID := NID{Value: hierarchyTC.RowID(i)}
		name, _ := hierarchyTC.Value(i, mailprop.PidTagDisplayName)
		f.SubFolders = append(f.SubFolders, SubFolder{
			Nid:        childNID,
			Name:       asString(name, true),
			ParentPath: f.Path,
		})
	}

	contentsTC, err := ltp.GetTCByNID(nid.WithType(NIDTypeContentsTable))
	if err != nil {
		return nil, err
	}
	for i := 0; i < contentsTC.Len(); i++ {
		msgNID := NID{Value: contentsTC.RowID(i)}
		srn, _ := contentsTC.Value(i, mailprop.PidTagSentRepresentingNameW)
		subj, _ := contentsTC.Value(i, mailprop.PidTagSubjectW)
		cst, cstOK := contentsTC.Value(i, mailprop.PidTagClientSubmitTime)
		f.SubMessages = append(f.SubMessages, SubMessage{
			Nid:                  msgNID,
			SentRepresentingName: asString(srn, true),
			Subject:              mailprop.StripSubjectPrefix(asString(subj, true)),
			ClientSubmitTime:     asTime(cst, cstOK),
		})
	}

	// The associated contents table (FAI items: rules, views, forms) is
	// optional; a folder with no FAI items never gets one in the NBT.
	assocNID := nid.WithType(NIDTypeAssocContentsTable)
	if _, ok := ltp.nbd.NBTEntries[assocNID.Value]; ok {
		assocTC, err := ltp.GetTCByNID(assocNID)
		if err != nil {
			return nil, err
		}
		for i := 0; i < assocTC.Len(); i++ {
			msgNID := NID{Value: assocTC.RowID(i)}
			srn, _ := assocTC.Value(i, mailprop.PidTagSentRepresentingNameW)
			subj, _ := assocTC.Value(i, mailprop.PidTagSubjectW)
			cst, cstOK := assocTC.Value(i, mailprop.PidTagClientSubmitTime)
			f.SubAssocMessages = append(f.SubAssocMessages, SubMessage{
				Nid:                  msgNID,
				SentRepresentingName: asString(srn, true),
				Subject:              mailprop.StripSubjectPrefix(asString(subj, true)),
				ClientSubmitTime:     asTime(cst, cstOK),
			})
		}
	}

	return f, nil
}

// Package mailbox unifies the CFB (.msg) and PST readers behind one
// logical view: containers hold folders, folders hold messages and
// sub-folders, messages hold recipients and attachments. Callers that
// only need to walk a mailbox and export its contents work against
// these interfaces without caring which wire format backed the file.
package mailbox

import "github.com/panhunt/mailcore/pkg/mailprop"

// Container is an opened mail container, either a single .msg file or
// a whole PST mailbox database.
type Container interface {
	// Valid reports whether the file parsed as a recognized container
	// at all. An invalid container is not an error: the caller should
	// skip it and move on, matching both readers' Open behavior.
	Valid() bool
	// Status is a short human-readable description of the container,
	// used by cmd/mailutil's open subcommand.
	Status() string
	// RootFolder is the top of the folder tree. A .msg container
	// synthesizes a single unnamed folder holding its one message.
	RootFolder() (Folder, error)
	Close() error
}

// Folder is one node of the folder tree.
type Folder interface {
	Name() string
	Path() string
	ContentCount() int32
	Messages() ([]Message, error)
	Subfolders() ([]Folder, error)
}

// Message is a decoded email message.
type Message interface {
	Subject() string
	Body() string
	SenderName() string
	SenderSmtpAddress() string
	SentRepresentingName() string
	DisplayTo() string
	ClientSubmitTime() *mailprop.FileTime
	HasAttachments() bool
	Recipients() ([]Recipient, error)
	Attachments() ([]Attachment, error)
}

// Recipient is one addressee of a message.
type Recipient interface {
	DisplayName() string
	EmailAddress() string
	RecipientType() int32
}

// Attachment is one attachment of a message, its binary payload
// resolved on demand.
type Attachment interface {
	Filename() string
	AttachMethod() int32
	BinaryData() ([]byte, error)
}

// Package mailprop defines the typed property value model shared by the
// CFB (.msg) and PST decoders: property tags, the type descriptor table,
// the tagged Value union, the two on-disk timestamp encodings, GUIDs and
// EntryIDs, and the domain error kind both decoders raise.
package mailprop

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why an Error was raised, matching the three error
// categories a mail-container decoder can surface: an unreadable
// container, corruption found mid-structure, or a value-level quirk
// that was recovered from rather than failed on.
type Kind int

const (
	// KindInvalidContainer means the file never parses as the expected
	// format at all (bad magic, unsupported version, unsupported crypt
	// method). Callers typically skip the file rather than abort.
	KindInvalidContainer Kind = iota
	// KindCorruption means a structural invariant was violated partway
	// through decoding: duplicate keys, size mismatches, unknown block
	// or entry types, a BID/NID that doesn't resolve.
	KindCorruption
	// KindQuirk records a recovered data quirk (malformed UTF-16LE,
	// and similar) for diagnostic purposes; it is not usually fatal.
	KindQuirk
	// KindLocked means the container parses fine but is held under an
	// exclusive lock by its owning mail client (a live Unicode PST that
	// Outlook has open). Distinct from KindInvalidContainer: the file is
	// a PST, it just can't be read right now.
	KindLocked
)

func (k Kind) String() string {
	switch k {
	case KindInvalidContainer:
		return "invalid container"
	case KindCorruption:
		return "corruption"
	case KindQuirk:
		return "quirk"
	case KindLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Error is the single domain error kind raised by pkg/cfb and pkg/pst.
// Site names the decoding layer that detected the problem (e.g. "cfb:
// fat", "pst: hn") so a diagnostic can be traced back to a component
// without a full stack trace.
type Error struct {
	Kind    Kind
	Site    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Site, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Site, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error, wrapping a lower-level cause if given.
func NewError(kind Kind, site, message string, cause error) *Error {
	return &Error{Kind: kind, Site: site, Message: message, Err: cause}
}

// Wrapf builds a KindCorruption Error, annotating cause with a
// formatted message the way fmt.Errorf would, but preserving Site/Kind
// for callers that want to branch on them.
func Wrapf(site string, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindCorruption,
		Site:    site,
		Message: fmt.Sprintf(format, args...),
		Err:     errors.WithStack(cause),
	}
}

// Invalidf builds a KindInvalidContainer Error.
func Invalidf(site string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidContainer, Site: site, Message: fmt.Sprintf(format, args...)}
}

// Corruptf builds a KindCorruption Error with no wrapped cause.
func Corruptf(site string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindCorruption, Site: site, Message: fmt.Sprintf(format, args...)}
}

// Lockedf builds a KindLocked Error.
func Lockedf(site string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindLocked, Site: site, Message: fmt.Sprintf(format, args...)}
}

// IsInvalidContainer reports whether err (or something it wraps) is a
// KindInvalidContainer Error.
func IsInvalidContainer(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindInvalidContainer
	}
	return false
}

// IsLocked reports whether err (or something it wraps) is a KindLocked
// Error.
func IsLocked(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindLocked
	}
	return false
}

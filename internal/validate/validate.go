// Package validate checks candidate files against the configured media-type
// allow-list and size ceiling before any network work is done.
package validate

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/voxnote/voxnote/internal/session"
)

// Reason classifies why a file was rejected.
type Reason int

const (
	// InvalidType means the file's declared media type is not allowed.
	InvalidType Reason = iota
	// TooLarge means the file exceeds the configured size ceiling.
	TooLarge
)

func (r Reason) String() string {
	switch r {
	case InvalidType:
		return "invalid_type"
	case TooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// RejectError reports a failed validation. The message is user-facing.
type RejectError struct {
	Reason  Reason
	File    string
	Message string
}

func (e *RejectError) Error() string { return e.Message }

// Validator holds the validation rules. Both come from configuration so new
// container/codec aliases can be allowed without code changes.
type Validator struct {
	// Allowed maps accepted media types to true.
	Allowed map[string]bool
	// MaxSize is the size ceiling in bytes. Zero disables the check.
	MaxSize int64
}

// Validate checks f against the rules. It inspects metadata only and never
// reads file contents, so it is cheap enough to run on every selection.
// Oversized files are rejected as TooLarge regardless of media type.
func (v Validator) Validate(f session.FileRef) error {
	if v.MaxSize > 0 && f.SizeBytes > v.MaxSize {
		return &RejectError{
			Reason: TooLarge,
			File:   f.Name,
			Message: fmt.Sprintf("%s is %s, over the %s limit",
				f.Name, humanize.IBytes(uint64(f.SizeBytes)), humanize.IBytes(uint64(v.MaxSize))),
		}
	}
	if !v.Allowed[f.MIMEType] {
		return &RejectError{
			Reason:  InvalidType,
			File:    f.Name,
			Message: fmt.Sprintf("%s has unsupported media type %q", f.Name, f.MIMEType),
		}
	}
	return nil
}

package core

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies failures by where they originate.
type Kind int

const (
	// KindConfig covers invalid roots, malformed request paths and bad flags.
	KindConfig Kind = iota + 1
	// KindAsset covers missing files, undecodable images and shader build failures.
	KindAsset
	// KindGPU covers errors surfaced by the graphics backend.
	KindGPU
	// KindPrecondition covers out-of-range indices and mismatched dimensions.
	KindPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAsset:
		return "asset"
	case KindGPU:
		return "gpu"
	case KindPrecondition:
		return "precondition"
	default:
		return "unknown"
	}
}

// Error is a classified failure with an optional wrapped cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an Error with a formatted message and no cause.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches msg and kind on top of cause. A nil cause yields nil.
func Wrap(kind Kind, op string, cause error, msg string) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Msg: msg, Err: cause}
}

// KindOf returns the kind of the outermost classified error in the chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// FormatError renders err and every cause beneath it, one per line:
//
//	error: failed to set up tile layer
//	 caused by: failed to decode PNG
//	  caused by: png: invalid format: not a PNG file
//
// Causes created with fmt.Errorf("...: %w") repeat their child's text, so the
// suffix already shown on the next line is trimmed.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	for level := 0; err != nil; level++ {
		next := errors.Unwrap(err)
		msg := err.Error()
		if next != nil {
			if msg == next.Error() {
				err = next
				level--
				continue
			}
			msg = strings.TrimSuffix(msg, ": "+next.Error())
		}
		if level == 0 {
			fmt.Fprintf(&b, "error: %s\n", msg)
		} else {
			fmt.Fprintf(&b, "%scaused by: %s\n", strings.Repeat(" ", level), msg)
		}
		err = next
	}
	return b.String()
}

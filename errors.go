package oxcel

import "errors"

// Error kinds. Every error the engine returns wraps exactly one of these, so
// callers can branch with errors.Is instead of matching message strings.
var (
	// ErrNotFound reports an absent sheet, cell, table, rule or defined name.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument reports a malformed cell address, an out-of-range
	// index or an unknown enumeration value. It is always returned before any
	// mutation takes place.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCorruptPackage reports a package whose structure or cross-references
	// cannot be parsed. Fatal for that parse attempt only.
	ErrCorruptPackage = errors.New("corrupt package")

	// ErrUnsupportedSchema reports a package using a schema variant the
	// reader does not understand.
	ErrUnsupportedSchema = errors.New("unsupported schema")

	// ErrIO wraps disk or stream failures during read or write.
	ErrIO = errors.New("io failure")

	// ErrInvalidState reports a write-time consistency violation, detected
	// before any bytes are emitted.
	ErrInvalidState = errors.New("invalid state")
)

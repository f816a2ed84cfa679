package errs

// ErrorKind identifies a kind of internal error.
// Values are comparable with errors.Is through the error interface below.
type ErrorKind string

const (
	// NotFound is returned when a requested item does not exist.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when a caller-supplied argument is rejected.
	InvalidArgument = ErrorKind("Invalid Argument")

	// ArgumentRequired is returned when a required argument is missing.
	ArgumentRequired = ErrorKind("Argument Required")

	// ConflictSetting is returned when persisted settings conflict with the
	// current configuration (e.g. db version or network mismatch).
	ConflictSetting = ErrorKind("Conflict Setting")

	// Unsupported is returned when a configuration value is not supported.
	Unsupported = ErrorKind("Unsupported")

	// InternalError marks a broken internal assumption.
	InternalError = ErrorKind("Internal Error")

	// Timeout is returned when an operation exceeded its deadline.
	Timeout = ErrorKind("Timeout")

	// Closed is returned when an operation is attempted on a closed resource.
	Closed = ErrorKind("Closed")

	// Overloaded is returned when a bounded queue rejects new work.
	Overloaded = ErrorKind("Overloaded")

	// SomethingWentWrong is a catch-all for unrecoverable situations.
	SomethingWentWrong = ErrorKind("Something Went Wrong")

	// OverflowUint64 is returned when a parsed number exceeds 2^64-1.
	OverflowUint64 = ErrorKind("overflow uint64")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

package register

// Access defines field access permissions as bit flags.
type Access uint8

const (
	// AccessNone denies both field reads and field writes.
	AccessNone Access = 0

	// AccessRead allows reading the field value.
	AccessRead Access = 1 << 0

	// AccessWrite allows writing the field value.
	AccessWrite Access = 1 << 1

	// AccessReadWrite allows both reading and writing. This is the default
	// for fields that do not declare a permission.
	AccessReadWrite Access = AccessRead | AccessWrite
)

// CanRead returns true if the access flags allow reading.
func (a Access) CanRead() bool {
	return a&AccessRead != 0
}

// CanWrite returns true if the access flags allow writing.
func (a Access) CanWrite() bool {
	return a&AccessWrite != 0
}

// Valid reports whether a is one of the four defined permission states.
func (a Access) Valid() bool {
	return a <= AccessReadWrite
}

// String returns the schema token for the access value.
func (a Access) String() string {
	switch a {
	case AccessNone:
		return "none"
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessReadWrite:
		return "readWrite"
	default:
		return "invalid"
	}
}

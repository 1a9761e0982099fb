// Package persist defines the named-field serialization contract used to
// save and restore scene state, plus a YAML implementation of it.
//
// Fields are written and read back in a fixed order. A Reader checks every
// field name against the next stored field, so a reordered or renamed field
// is reported instead of silently misread.
package persist

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrFieldMismatch is returned when the next stored field does not have
	// the requested name.
	ErrFieldMismatch = errors.New("persist: field name mismatch")

	// ErrMissingField is returned when a read runs past the stored fields.
	ErrMissingField = errors.New("persist: missing field")

	// ErrBadValue is returned when a stored value cannot be decoded as the
	// requested type.
	ErrBadValue = errors.New("persist: bad value")
)

// Writer receives named fields in order.
type Writer interface {
	WriteInt32(name string, v int32) error
	WriteVector3(name string, v mgl64.Vec3) error
	WriteQuaternion(name string, q mgl64.Quat) error
	// WriteReference stores a reference to a named object, or a null
	// reference when ref is empty.
	WriteReference(name string, ref string) error
}

// Reader returns named fields in the order they were written.
type Reader interface {
	ReadInt32(name string) (int32, error)
	ReadVector3(name string) (mgl64.Vec3, error)
	ReadQuaternion(name string) (mgl64.Quat, error)
	ReadReference(name string) (string, error)
}

// Saver is implemented by values that can write themselves to a Writer.
type Saver interface {
	Save(w Writer) error
}

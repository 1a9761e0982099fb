package persist

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T, material string) []byte {
	t.Helper()
	w := NewYAMLWriter()
	require.NoError(t, w.WriteInt32("Version", 1))
	require.NoError(t, w.WriteVector3("Position", mgl64.Vec3{1, -2.5, 3}))
	require.NoError(t, w.WriteQuaternion("Rotation", mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0})))
	require.NoError(t, w.WriteVector3("Scale", mgl64.Vec3{1, 2, 1}))
	require.NoError(t, w.WriteReference("Material", material))
	data, err := w.Bytes()
	require.NoError(t, err)
	return data
}

func TestYAMLRoundTrip(t *testing.T) {
	data := writeSample(t, "BasicMaterial")
	r, err := NewYAMLReader(data)
	require.NoError(t, err)

	version, err := r.ReadInt32("Version")
	require.NoError(t, err)
	require.Equal(t, int32(1), version)

	pos, err := r.ReadVector3("Position")
	require.NoError(t, err)
	require.Equal(t, mgl64.Vec3{1, -2.5, 3}, pos)

	rot, err := r.ReadQuaternion("Rotation")
	require.NoError(t, err)
	want := mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0})
	require.True(t, rot.ApproxEqual(want), "rotation %v, want %v", rot, want)

	scale, err := r.ReadVector3("Scale")
	require.NoError(t, err)
	require.Equal(t, mgl64.Vec3{1, 2, 1}, scale)

	mat, err := r.ReadReference("Material")
	require.NoError(t, err)
	require.Equal(t, "BasicMaterial", mat)
}

func TestYAMLFieldOrder(t *testing.T) {
	doc := string(writeSample(t, "BasicMaterial"))
	last := -1
	for _, field := range []string{"Version:", "Position:", "Rotation:", "Scale:", "Material:"} {
		i := strings.Index(doc, field)
		require.Greater(t, i, last, "field %s out of order in\n%s", field, doc)
		last = i
	}
	require.Contains(t, doc, "Position: [1, -2.5, 3]")
}

func TestYAMLNullReference(t *testing.T) {
	r, err := NewYAMLReader(writeSample(t, ""))
	require.NoError(t, err)
	for _, name := range []string{"Version", "Position", "Rotation", "Scale"} {
		switch name {
		case "Version":
			_, err = r.ReadInt32(name)
		case "Rotation":
			_, err = r.ReadQuaternion(name)
		default:
			_, err = r.ReadVector3(name)
		}
		require.NoError(t, err)
	}
	ref, err := r.ReadReference("Material")
	require.NoError(t, err)
	require.Empty(t, ref)
}

func TestYAMLReaderErrors(t *testing.T) {
	t.Run("field mismatch", func(t *testing.T) {
		r, err := NewYAMLReader(writeSample(t, "m"))
		require.NoError(t, err)
		_, err = r.ReadVector3("Position")
		require.ErrorIs(t, err, ErrFieldMismatch)
	})

	t.Run("missing field", func(t *testing.T) {
		r, err := NewYAMLReader([]byte("Version: 1\n"))
		require.NoError(t, err)
		_, err = r.ReadInt32("Version")
		require.NoError(t, err)
		_, err = r.ReadVector3("Position")
		require.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("wrong component count", func(t *testing.T) {
		r, err := NewYAMLReader([]byte("Position: [1, 2]\n"))
		require.NoError(t, err)
		_, err = r.ReadVector3("Position")
		require.ErrorIs(t, err, ErrBadValue)
	})

	t.Run("not a number", func(t *testing.T) {
		r, err := NewYAMLReader([]byte("Version: one\n"))
		require.NoError(t, err)
		_, err = r.ReadInt32("Version")
		require.ErrorIs(t, err, ErrBadValue)
	})

	t.Run("not a mapping", func(t *testing.T) {
		_, err := NewYAMLReader([]byte("- 1\n- 2\n"))
		require.ErrorIs(t, err, ErrBadValue)
	})
}

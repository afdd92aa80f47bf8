package cbor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type testStruct struct {
	_     struct{} `cbor:",toarray"`
	Name  string
	Value uint64
}

func Test_TaggedValue(t *testing.T) {
	v := &testStruct{Name: "foo", Value: 42}
	buf, err := MarshalTaggedValue(1001, v)
	require.NoError(t, err)
	// tag 1001 is encoded as 0xd9 0x03 0xe9
	require.Equal(t, []byte{0xd9, 0x03, 0xe9}, buf[:3])

	var decoded testStruct
	require.NoError(t, UnmarshalTaggedValue(1001, buf, &decoded))
	require.Equal(t, v, &decoded)

	require.EqualError(t, UnmarshalTaggedValue(1002, buf, &decoded), `unexpected tag: 1001, expected: 1002`)

	require.Error(t, UnmarshalTaggedValue(1001, []byte{0xff}, &decoded))
}

func Test_Marshal_deterministic(t *testing.T) {
	m := map[string]uint64{"b": 2, "a": 1, "ccc": 3}
	buf1, err := Marshal(m)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		buf2, err := Marshal(m)
		require.NoError(t, err)
		require.Equal(t, buf1, buf2)
	}
	// map with 3 items, keys sorted "a", "b", "ccc"
	require.Equal(t, []byte{0xa3, 0x61, 'a', 0x01, 0x61, 'b', 0x02, 0x63, 'c', 'c', 'c', 0x03}, buf1)

	// encoder produces the same bytes
	w := &bytes.Buffer{}
	require.NoError(t, NewEncoder(w).Encode(m))
	require.Equal(t, buf1, w.Bytes())
}

func Test_Unmarshal_strict(t *testing.T) {
	t.Run("duplicate map key", func(t *testing.T) {
		// {"a": 1, "a": 2}
		var m map[string]uint64
		require.Error(t, Unmarshal([]byte{0xa2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}, &m))
	})

	t.Run("indefinite length array", func(t *testing.T) {
		var a []uint64
		require.Error(t, Unmarshal([]byte{0x9f, 0x01, 0xff}, &a))
		// definite length works
		require.NoError(t, Unmarshal([]byte{0x81, 0x01}, &a))
		require.Equal(t, []uint64{1}, a)
	})
}

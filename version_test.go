package scripts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tt := []struct {
		in       string
		expected string
	}{
		{"1", "1"},
		{"1.0.3", "1.0.3"},
		{"01.002", "1.2"},
		{"0", "0"},
		{"9999.9999.9999.9999", "9999.9999.9999.9999"},
		{"1.2.0", "1.2.0"},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			v, err := ParseVersion(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v.String())

			again, err := ParseVersion(v.String())
			require.NoError(t, err)
			assert.Equal(t, v, again)
		})
	}
}

func TestParseVersion_Malformed(t *testing.T) {
	for _, in := range []string{"", ".", "1.", ".1", "1..2", "a", "1.b", "-1", "+1", "1.2.3.4.5", "10000", "1. 2", "v1.0"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseVersion(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedVersion)
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	tt := []struct {
		a, b     string
		expected int
	}{
		{"1.9", "1.10", -1},
		{"1.10", "1.9", 1},
		{"1.2", "1.2.0", 0},
		{"1.2.0.0", "1.2", 0},
		{"1", "1.0.1", -1},
		{"2", "1.9.9", 1},
		{"0.1", "0.0.9", 1},
		{"1.0.3", "1.0.3", 0},
		{"01.2", "1.2", 0},
	}

	for _, tc := range tt {
		t.Run(tc.a+"_"+tc.b, func(t *testing.T) {
			a := MustParseVersion(tc.a)
			b := MustParseVersion(tc.b)

			assert.Equal(t, tc.expected, a.Compare(b))
			assert.Equal(t, -tc.expected, b.Compare(a))
			assert.Equal(t, tc.expected < 0, a.Less(b))
			assert.Equal(t, tc.expected == 0, a.Equal(b))

			switch tc.expected {
			case -1:
				assert.Less(t, a.InternalInteger(), b.InternalInteger())
			case 0:
				assert.Equal(t, a.InternalInteger(), b.InternalInteger())
			case 1:
				assert.Greater(t, a.InternalInteger(), b.InternalInteger())
			}
		})
	}
}

func TestVersion_InternalIntegerAgreesWithCompare(t *testing.T) {
	var all []Version
	for _, a := range []uint32{0, 1, 9, 10, 9999} {
		for _, b := range []uint32{0, 2, 10, 9999} {
			for _, c := range []uint32{0, 1, 100} {
				all = append(all, Version{parts: []uint32{a, b, c}})
				all = append(all, Version{parts: []uint32{a, b, c, 7}})
			}
			all = append(all, Version{parts: []uint32{a, b}})
		}
	}

	for _, a := range all {
		for _, b := range all {
			byInt := 0
			if a.InternalInteger() < b.InternalInteger() {
				byInt = -1
			} else if a.InternalInteger() > b.InternalInteger() {
				byInt = 1
			}

			require.Equalf(t, a.Compare(b), byInt, "%s vs %s", a, b)
		}
	}
}

func TestVersion_InternalInteger(t *testing.T) {
	assert.Equal(t, uint64(1_0009_0000_0000), MustParseVersion("1.9").InternalInteger())
	assert.Equal(t, uint64(9999_9999_9999_9999), MustParseVersion("9999.9999.9999.9999").InternalInteger())
	assert.Equal(t, uint64(0), MustParseVersion("0.0").InternalInteger())
}

func TestVersion_Text(t *testing.T) {
	v := MustParseVersion("2.0.1")

	b, err := v.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2.0.1", string(b))

	var parsed Version
	require.NoError(t, parsed.UnmarshalText([]byte("2.0.1")))
	assert.True(t, parsed.Equal(v))

	assert.ErrorIs(t, parsed.UnmarshalText([]byte("two")), ErrMalformedVersion)
}

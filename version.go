package scripts

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// MaxVersionComponents is the deepest version InternalInteger can encode.
	MaxVersionComponents = 4

	// MaxVersionComponent is the largest value a single component may hold,
	// every component occupies 4 decimal digits of the internal integer.
	MaxVersionComponent = 9999

	componentBase = MaxVersionComponent + 1
)

// Version is a dotted numeric script version such as "1.0.3".
// The zero value is not a valid version.
type Version struct {
	parts []uint32
}

func ParseVersion(text string) (Version, error) {
	if text == "" {
		return Version{}, errors.Wrap(ErrMalformedVersion, "empty version")
	}

	segments := strings.Split(text, ".")
	if len(segments) > MaxVersionComponents {
		return Version{}, errors.Wrapf(
			ErrMalformedVersion,
			"version %q has %d components, at most %d allowed",
			text, len(segments), MaxVersionComponents,
		)
	}

	parts := make([]uint32, len(segments))
	for i, s := range segments {
		if s == "" || !isDigits(s) {
			return Version{}, errors.Wrapf(ErrMalformedVersion, "component %q of %q is not a number", s, text)
		}

		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil || n > MaxVersionComponent {
			return Version{}, errors.Wrapf(
				ErrMalformedVersion,
				"component %q of %q exceeds %d", s, text, MaxVersionComponent,
			)
		}

		parts[i] = uint32(n)
	}

	return Version{parts: parts}, nil
}

func MustParseVersion(text string) Version {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (v Version) IsZero() bool {
	return len(v.parts) == 0
}

func (v Version) Components() []uint32 {
	cp := make([]uint32, len(v.parts))
	copy(cp, v.parts)
	return cp
}

func (v Version) String() string {
	var b strings.Builder
	for i, p := range v.parts {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(uint64(p), 10))
	}
	return b.String()
}

// Compare returns -1, 0 or 1. The shorter version is padded with zero
// components, so "1.2" and "1.2.0" compare equal.
func (v Version) Compare(other Version) int {
	l := len(v.parts)
	if len(other.parts) > l {
		l = len(other.parts)
	}

	for i := 0; i < l; i++ {
		a, b := v.component(i), other.component(i)
		if a < b {
			return -1
		} else if a > b {
			return 1
		}
	}

	return 0
}

func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

func (v Version) component(i int) uint32 {
	if i >= len(v.parts) {
		return 0
	}
	return v.parts[i]
}

// InternalInteger packs the version into fixed width groups of 4 decimal
// digits, most significant component first: "1.9" is 0001_0009_0000_0000.
func (v Version) InternalInteger() uint64 {
	var n uint64
	for i := 0; i < MaxVersionComponents; i++ {
		n = n*componentBase + uint64(v.component(i))
	}
	return n
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}

	*v = parsed
	return nil
}

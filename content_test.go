package scripts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tbScript = `[
	{"id": "_meta", "name": "Trouble Brewing", "author": "TPI", "logo": "https://example.com/tb.png"},
	{"id": "washerwoman"},
	{"id": "librarian"},
	{"id": "imp", "team": "demon"}
]`

func TestParseContent(t *testing.T) {
	c, err := ParseContent([]byte(tbScript))
	require.NoError(t, err)
	require.Len(t, c, 4)

	assert.Equal(t, "Trouble Brewing", c.Name())
	assert.Equal(t, "TPI", c.Author())
	assert.Equal(t, []string{"washerwoman", "librarian", "imp"}, c.Characters())
	assert.True(t, c.Contains("imp"))
	assert.False(t, c.Contains("_meta"))
	assert.Equal(t, Entry{"id": "imp", "team": "demon"}, c[3])

	meta, ok := c.Meta()
	require.True(t, ok)
	assert.True(t, meta.IsMeta())
}

func TestParseContent_Malformed(t *testing.T) {
	tt := []struct {
		name string
		in   string
	}{
		{"not json", `[{"id": "imp"`},
		{"object", `{"id": "imp"}`},
		{"string entries", `["imp", "baron"]`},
		{"missing id", `[{"name": "Imp"}]`},
		{"numeric id", `[{"id": 5}]`},
		{"empty id", `[{"id": ""}]`},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseContent([]byte(tc.in))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedContent)
		})
	}
}

func TestContent_NoMeta(t *testing.T) {
	c := Content{{"id": "imp"}}

	_, ok := c.Meta()
	assert.False(t, ok)
	assert.Equal(t, "", c.Name())
	assert.Equal(t, "", c.Author())
}

func TestContent_Equal(t *testing.T) {
	a := Content{{"id": "_meta", "name": "A"}, {"id": "washerwoman"}, {"id": "imp"}}

	t.Run("same entries same order", func(t *testing.T) {
		b := Content{{"name": "A", "id": "_meta"}, {"id": "washerwoman"}, {"id": "imp"}}
		assert.True(t, a.Equal(b))
		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("order matters", func(t *testing.T) {
		b := Content{{"id": "_meta", "name": "A"}, {"id": "imp"}, {"id": "washerwoman"}}
		assert.False(t, a.Equal(b))
		assert.NotEqual(t, a.Hash(), b.Hash())
	})

	t.Run("meta matters", func(t *testing.T) {
		b := Content{{"id": "_meta", "name": "B"}, {"id": "washerwoman"}, {"id": "imp"}}
		assert.False(t, a.Equal(b))
	})

	t.Run("length matters", func(t *testing.T) {
		assert.False(t, a.Equal(a[:2]))
	})

	t.Run("numbers compare by value", func(t *testing.T) {
		parsed, err := ParseContent([]byte(`[{"id": "imp", "firstNight": 3}]`))
		require.NoError(t, err)
		assert.True(t, parsed.Equal(Content{{"id": "imp", "firstNight": 3}}))
	})
}

func TestContent_Clone(t *testing.T) {
	a := Content{{"id": "imp"}}
	b := a.Clone()
	b[0]["id"] = "baron"

	assert.Equal(t, "imp", a[0].ID())
	assert.Nil(t, Content(nil).Clone())
}

func TestContent_CloneIsDeep(t *testing.T) {
	a := Content{{
		"id":        "fortuneteller",
		"reminders": []interface{}{"Red herring"},
		"jinxes":    map[string]interface{}{"spy": []interface{}{"x"}},
	}}
	b := a.Clone()

	b[0]["reminders"].([]interface{})[0] = "changed"
	b[0]["jinxes"].(map[string]interface{})["spy"].([]interface{})[0] = "changed"
	b[0]["jinxes"].(map[string]interface{})["vortox"] = "added"

	assert.Equal(t, []interface{}{"Red herring"}, a[0]["reminders"])
	assert.Equal(t, map[string]interface{}{"spy": []interface{}{"x"}}, a[0]["jinxes"])
}

func TestEntry_ValuesJSONCannotEncode(t *testing.T) {
	c := Content{{"id": "x", "v": math.NaN()}}
	other := Content{{"id": "x", "v": math.Inf(1)}}

	require.NotPanics(t, func() {
		assert.True(t, c.Equal(c))
		assert.True(t, Diff(c, c).Empty())
	})

	assert.False(t, c.Equal(other))
	assert.Equal(t, c.Hash(), c.Clone().Hash())

	cs := Diff(c, other)
	assert.Equal(t, []string{"x"}, cs.Additions.Characters())
	assert.Equal(t, []string{"x"}, cs.Deletions.Characters())
}

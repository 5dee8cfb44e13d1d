package scripts

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// MetaID is the id of the pseudo entry that carries script name, author and logo.
const MetaID = "_meta"

// Entry is a single character definition of a script, or the metadata entry.
type Entry map[string]interface{}

func (e Entry) ID() string {
	id, _ := e["id"].(string)
	return id
}

func (e Entry) IsMeta() bool {
	return e.ID() == MetaID
}

func (e Entry) String(k string) string {
	v, ok := e[k].(string)
	if !ok {
		return ""
	}
	return v
}

// canonical encodes the entry as JSON with sorted keys. Two entries are the
// same record iff their canonical encodings are equal. Values JSON cannot
// hold, such as NaN, fall back to a Go syntax encoding of the sorted keys.
func (e Entry) canonical() []byte {
	b, err := json.Marshal(map[string]interface{}(e))
	if err == nil {
		return b
	}

	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// a leading NUL keeps fallback encodings apart from JSON ones
	buf := bytes.NewBuffer([]byte{0})
	for _, k := range keys {
		fmt.Fprintf(buf, "%q:%#v;", k, e[k])
	}
	return buf.Bytes()
}

func (e Entry) Equal(other Entry) bool {
	return bytes.Equal(e.canonical(), other.canonical())
}

func (e Entry) Hash() uint64 {
	return hashBytes(e.canonical())
}

func hashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

func (e Entry) clone() Entry {
	if e == nil {
		return nil
	}

	cp := make(Entry, len(e))
	for k, v := range e {
		cp[k] = cloneValue(v)
	}
	return cp
}

// cloneValue copies the containers a decoded JSON value can nest.
func cloneValue(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[string]interface{}:
		cp := make(map[string]interface{}, len(typed))
		for k, nested := range typed {
			cp[k] = cloneValue(nested)
		}
		return cp
	case Entry:
		return typed.clone()
	case []interface{}:
		cp := make([]interface{}, len(typed))
		for i, nested := range typed {
			cp[i] = cloneValue(nested)
		}
		return cp
	case []string:
		cp := make([]string, len(typed))
		copy(cp, typed)
		return cp
	default:
		return v
	}
}

// Content is the ordered roster of a script as it was uploaded.
type Content []Entry

// ParseContent reads an uploaded script document. The document must be a
// JSON array of objects, each carrying a non-empty string id.
func ParseContent(b []byte) (Content, error) {
	if !gjson.ValidBytes(b) {
		return nil, errors.Wrap(ErrMalformedContent, "invalid json")
	}

	doc := gjson.ParseBytes(b)
	if !doc.IsArray() {
		return nil, errors.Wrap(ErrMalformedContent, "script must be a json array")
	}

	var content Content
	var parseErr error
	doc.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			parseErr = errors.Wrapf(ErrMalformedContent, "entry %d is not an object", len(content))
			return false
		}

		id := item.Get("id")
		if id.Type != gjson.String || id.Str == "" {
			parseErr = errors.Wrapf(ErrMalformedContent, "entry %d has no id", len(content))
			return false
		}

		m, ok := item.Value().(map[string]interface{})
		if !ok {
			parseErr = errors.Wrapf(ErrMalformedContent, "entry %d could not be decoded", len(content))
			return false
		}

		content = append(content, Entry(m))
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	return content, nil
}

// Equal is ordered sequence equality. It decides whether an upload is an
// edit of the latest version, unlike Diff which ignores order.
func (c Content) Equal(other Content) bool {
	if len(c) != len(other) {
		return false
	}

	for i := range c {
		if !c[i].Equal(other[i]) {
			return false
		}
	}

	return true
}

func (c Content) Meta() (Entry, bool) {
	for _, e := range c {
		if e.IsMeta() {
			return e, true
		}
	}
	return nil, false
}

func (c Content) Name() string {
	meta, ok := c.Meta()
	if !ok {
		return ""
	}
	return meta.String("name")
}

func (c Content) Author() string {
	meta, ok := c.Meta()
	if !ok {
		return ""
	}
	return meta.String("author")
}

// Characters returns the ids of all non meta entries in upload order.
func (c Content) Characters() []string {
	ids := make([]string, 0, len(c))
	for _, e := range c {
		if e.IsMeta() {
			continue
		}
		ids = append(ids, e.ID())
	}
	return ids
}

func (c Content) Contains(id string) bool {
	for _, e := range c {
		if !e.IsMeta() && e.ID() == id {
			return true
		}
	}
	return false
}

// Hash is order sensitive, equal contents hash equally.
func (c Content) Hash() uint64 {
	d := xxhash.New()
	sep := make([]byte, 8)
	for _, e := range c {
		b := e.canonical()
		binary.LittleEndian.PutUint64(sep, uint64(len(b)))
		_, _ = d.Write(sep)
		_, _ = d.Write(b)
	}
	return d.Sum64()
}

func (c Content) Clone() Content {
	if c == nil {
		return nil
	}

	cp := make(Content, len(c))
	for i, e := range c {
		cp[i] = e.clone()
	}
	return cp
}

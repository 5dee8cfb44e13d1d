package memstore

import (
	scripts "github.com/bjageman/botc-scripts"
)

// pk orders records by script, then by version, then by record id.
type pk struct {
	scriptID string
	version  scripts.Version
	id       string
}

func (k pk) Less(other pk) bool {
	if k.scriptID != other.scriptID {
		return k.scriptID < other.scriptID
	}

	if c := k.version.Compare(other.version); c != 0 {
		return c < 0
	}

	return k.id < other.id
}

func byPrimaryKeys(a, b interface{}) bool {
	i1, i2 := a.(*entry), b.(*entry)
	return i1.key.Less(i2.key)
}

// scriptPivot sorts before every record of the script.
func scriptPivot(scriptID string) *entry {
	return &entry{key: pk{scriptID: scriptID}}
}

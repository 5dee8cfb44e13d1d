package memstore

import (
	scripts "github.com/bjageman/botc-scripts"
	"github.com/jinzhu/copier"
)

type entry struct {
	key pk
	rec *scripts.Record
}

func newEntry(rec *scripts.Record) *entry {
	return &entry{
		key: pk{scriptID: rec.ScriptID, version: rec.Version, id: rec.ID},
		rec: rec,
	}
}

// cloneRecord detaches a record from the store, nothing the caller does to
// the copy reaches the stored one.
func cloneRecord(rec *scripts.Record) *scripts.Record {
	var cp scripts.Record
	if err := copier.Copy(&cp, rec); err != nil {
		panic("could not copy record " + rec.ID + ": " + err.Error())
	}

	cp.Content = rec.Content.Clone()
	cp.Metadata = rec.Metadata.Clone()
	return &cp
}

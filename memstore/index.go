package memstore

import (
	"sort"

	"github.com/tidwall/btree"
)

const charTagPanic = "how could character index item not be of type *charTag"

// charTag holds every record whose content lists the character.
type charTag struct {
	value   string
	entries map[string]*entry
}

func byCharacters(a, b interface{}) bool {
	i1, i2 := a.(*charTag), b.(*charTag)
	return i1.value < i2.value
}

// characterIndex maps character ids to the records that use them.
// Content never changes after insert, so entries are indexed once.
type characterIndex struct {
	btr *btree.BTree
}

func newCharacterIndex() *characterIndex {
	return &characterIndex{btr: btree.NewNonConcurrent(byCharacters)}
}

func (ci *characterIndex) add(ent *entry) {
	for _, id := range ent.rec.Content.Characters() {
		var tag *charTag
		if item := ci.btr.Get(&charTag{value: id}); item != nil {
			var ok bool
			if tag, ok = item.(*charTag); !ok {
				panic(charTagPanic)
			}
		} else {
			tag = &charTag{value: id, entries: make(map[string]*entry)}
			ci.btr.Set(tag)
		}

		tag.entries[ent.rec.ID] = ent
	}
}

func (ci *characterIndex) remove(ent *entry) {
	for _, id := range ent.rec.Content.Characters() {
		item := ci.btr.Get(&charTag{value: id})
		if item == nil {
			continue
		}

		tag, ok := item.(*charTag)
		if !ok {
			panic(charTagPanic)
		}

		delete(tag.entries, ent.rec.ID)
		if len(tag.entries) == 0 {
			ci.btr.Delete(tag)
		}
	}
}

// lookup returns the records using the character in primary key order.
func (ci *characterIndex) lookup(character string) []*entry {
	item := ci.btr.Get(&charTag{value: character})
	if item == nil {
		return nil
	}

	tag, ok := item.(*charTag)
	if !ok {
		panic(charTagPanic)
	}

	result := make([]*entry, 0, len(tag.entries))
	for _, ent := range tag.entries {
		result = append(result, ent)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].key.Less(result[j].key)
	})

	return result
}

func (ci *characterIndex) characters() int {
	return ci.btr.Len()
}

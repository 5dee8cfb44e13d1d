package scripts

import "bytes"

// ChangeSet holds the entries added and removed between two contents.
type ChangeSet struct {
	Additions Content `json:"additions"`
	Deletions Content `json:"deletions"`
}

func (cs ChangeSet) Empty() bool {
	return len(cs.Additions) == 0 && len(cs.Deletions) == 0
}

// Diff computes the symmetric difference of two contents. Membership is
// decided on the full record, so an entry whose fields changed shows up as
// a deletion of the old record and an addition of the updated one. The meta
// entry never takes part. Results keep the order of their input.
func Diff(old, updated Content) ChangeSet {
	adds, dels := diffPositions(old, updated)
	return changeSetFromPositions(old, updated, adds, dels)
}

func diffPositions(old, updated Content) (adds, dels []int) {
	oldSet := newRecordSet(old)
	newSet := newRecordSet(updated)

	for i, e := range updated {
		if e.IsMeta() {
			continue
		}
		if !oldSet.contains(e) {
			adds = append(adds, i)
		}
	}

	for i, e := range old {
		if e.IsMeta() {
			continue
		}
		if !newSet.contains(e) {
			dels = append(dels, i)
		}
	}

	return adds, dels
}

func changeSetFromPositions(old, updated Content, adds, dels []int) ChangeSet {
	cs := ChangeSet{
		Additions: make(Content, 0, len(adds)),
		Deletions: make(Content, 0, len(dels)),
	}

	for _, i := range adds {
		cs.Additions = append(cs.Additions, updated[i])
	}

	for _, i := range dels {
		cs.Deletions = append(cs.Deletions, old[i])
	}

	return cs
}

// recordSet buckets canonical encodings by hash, collisions are resolved
// by comparing the encodings themselves.
type recordSet map[uint64][][]byte

func newRecordSet(c Content) recordSet {
	rs := make(recordSet, len(c))
	for _, e := range c {
		if e.IsMeta() {
			continue
		}
		b := e.canonical()
		h := hashBytes(b)
		rs[h] = append(rs[h], b)
	}
	return rs
}

func (rs recordSet) contains(e Entry) bool {
	b := e.canonical()
	for _, candidate := range rs[hashBytes(b)] {
		if bytes.Equal(candidate, b) {
			return true
		}
	}
	return false
}

package lru

import (
	"container/list"
	"sync"
)

// lruShard is a byte bounded least recently used list. Sizes count value
// bytes only.
type lruShard struct {
	mu         sync.Mutex
	totalBytes uint64
	maxBytes   uint64
	evictList  *list.List
	elems      map[uint64]*list.Element
	onEvict    OnEvict
}

func newLruShard(maxBytes uint64, onEvict OnEvict) *lruShard {
	return &lruShard{
		maxBytes:  maxBytes,
		evictList: list.New(),
		elems:     make(map[uint64]*list.Element),
		onEvict:   onEvict,
	}
}

type entry struct {
	key   uint64
	value []byte
}

func (ls *lruShard) get(key uint64) ([]byte, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	elem, ok := ls.elems[key]
	if !ok {
		return nil, false
	}

	ls.evictList.MoveToFront(elem)
	return elem.Value.(*entry).value, true
}

// add stores value under key and reports whether anything was evicted.
// A value larger than the shard itself is not stored.
func (ls *lruShard) add(key uint64, value []byte) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if uint64(len(value)) > ls.maxBytes {
		return false
	}

	if elem, ok := ls.elems[key]; ok {
		ls.removeElementUnderLock(elem)
	}

	var evicted bool
	for ls.totalBytes+uint64(len(value)) > ls.maxBytes {
		k, v, ok := ls.removeOldestUnderLock()
		if !ok {
			break
		}

		evicted = true
		if ls.onEvict != nil {
			ls.onEvict(k, v)
		}
	}

	elem := ls.evictList.PushFront(&entry{key: key, value: value})
	ls.elems[key] = elem
	ls.totalBytes += uint64(len(value))

	return evicted
}

func (ls *lruShard) remove(key uint64) ([]byte, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	elem, ok := ls.elems[key]
	if !ok {
		return nil, false
	}

	_, value := ls.removeElementUnderLock(elem)
	return value, true
}

func (ls *lruShard) purge() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.elems = make(map[uint64]*list.Element)
	ls.evictList.Init()
	ls.totalBytes = 0
}

func (ls *lruShard) len() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.elems)
}

func (ls *lruShard) removeOldestUnderLock() (uint64, []byte, bool) {
	elem := ls.evictList.Back()
	if elem == nil {
		return 0, nil, false
	}

	k, v := ls.removeElementUnderLock(elem)
	return k, v, true
}

func (ls *lruShard) removeElementUnderLock(elem *list.Element) (uint64, []byte) {
	ls.evictList.Remove(elem)

	kv := elem.Value.(*entry)
	delete(ls.elems, kv.key)
	ls.totalBytes -= uint64(len(kv.value))
	return kv.key, kv.value
}

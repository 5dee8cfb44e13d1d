package scripts

import (
	"encoding/binary"

	"github.com/bjageman/botc-scripts/internal/lru"
	"github.com/pkg/errors"
)

var errCorruptCacheValue = errors.New("corrupt diff cache value")

// diffCache remembers which positions of two contents differ, keyed by the
// pair of content hashes. Positions rather than entries are cached so a hit
// returns the caller's own entries.
type diffCache struct {
	c lru.Cache
}

func newDiffCache(cfg *Config) (*diffCache, error) {
	if cfg.DisableDiffCache {
		return &diffCache{c: lru.NullCache{}}, nil
	}

	c, err := lru.NewShardedCache(cfg.DiffCacheShards, cfg.DiffCacheBytes, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not create diff cache")
	}

	return &diffCache{c: c}, nil
}

func (dc *diffCache) diff(old, updated Content) (ChangeSet, bool) {
	key := pairKey(old.Hash(), updated.Hash())

	if b, ok := dc.c.Get(key); ok {
		adds, dels, err := decodePositions(b, len(old), len(updated))
		if err == nil {
			return changeSetFromPositions(old, updated, adds, dels), true
		}
		dc.c.Remove(key)
	}

	adds, dels := diffPositions(old, updated)
	dc.c.Add(key, encodePositions(adds, dels))

	return changeSetFromPositions(old, updated, adds, dels), false
}

func pairKey(a, b uint64) uint64 {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf, a)
	binary.LittleEndian.PutUint64(buf[8:], b)
	return hashBytes(buf)
}

func encodePositions(adds, dels []int) []byte {
	buf := make([]byte, 0, (len(adds)+len(dels)+2)*binary.MaxVarintLen32)
	buf = binary.AppendUvarint(buf, uint64(len(adds)))
	for _, p := range adds {
		buf = binary.AppendUvarint(buf, uint64(p))
	}

	buf = binary.AppendUvarint(buf, uint64(len(dels)))
	for _, p := range dels {
		buf = binary.AppendUvarint(buf, uint64(p))
	}

	return buf
}

func decodePositions(b []byte, oldLen, newLen int) (adds, dels []int, err error) {
	adds, b, err = readPositions(b, newLen)
	if err != nil {
		return nil, nil, err
	}

	dels, b, err = readPositions(b, oldLen)
	if err != nil {
		return nil, nil, err
	}

	if len(b) != 0 {
		return nil, nil, errors.Wrapf(errCorruptCacheValue, "%d trailing bytes", len(b))
	}

	return adds, dels, nil
}

func readPositions(b []byte, limit int) ([]int, []byte, error) {
	n, read := binary.Uvarint(b)
	if read <= 0 || n > uint64(limit) {
		return nil, nil, errors.Wrap(errCorruptCacheValue, "bad position count")
	}
	b = b[read:]

	positions := make([]int, 0, n)
	for i := uint64(0); i < n; i++ {
		p, read := binary.Uvarint(b)
		if read <= 0 || p >= uint64(limit) {
			return nil, nil, errors.Wrap(errCorruptCacheValue, "bad position")
		}
		positions = append(positions, int(p))
		b = b[read:]
	}

	return positions, b, nil
}

package lru

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

var ErrIllegalCapacity = errors.New("illegal lru cache capacity")
var ErrInvalidSharding = errors.New("invalid sharding")

type OnEvict func(k uint64, v []byte)

type Cache interface {
	Add(key uint64, value []byte) bool
	Get(key uint64) ([]byte, bool)
	Remove(key uint64)
}

// ShardedCache spreads keys over independently locked shards, each shard
// holding an equal part of the byte budget.
type ShardedCache struct {
	maxBytes uint64
	shards   []*lruShard
}

func NewShardedCache(shards int, maxTotalBytes uint64, onEvict OnEvict) (*ShardedCache, error) {
	if shards < 1 {
		return nil, errors.Wrapf(ErrInvalidSharding, "%d shards", shards)
	}

	if maxTotalBytes < uint64(shards) {
		return nil, errors.Wrapf(ErrIllegalCapacity, "%d bytes for %d shards", maxTotalBytes, shards)
	}

	c := ShardedCache{
		maxBytes: maxTotalBytes,
		shards:   make([]*lruShard, shards),
	}

	shardMaxBytes := maxTotalBytes / uint64(shards)
	for i := range c.shards {
		c.shards[i] = newLruShard(shardMaxBytes, onEvict)
	}

	return &c, nil
}

// Add stores value under key and reports whether an eviction happened
func (c *ShardedCache) Add(key uint64, value []byte) bool {
	return c.getShard(key).add(key, value)
}

func (c *ShardedCache) Get(key uint64) ([]byte, bool) {
	return c.getShard(key).get(key)
}

func (c *ShardedCache) Remove(key uint64) {
	c.getShard(key).remove(key)
}

func (c *ShardedCache) Purge() {
	for _, s := range c.shards {
		s.purge()
	}
}

func (c *ShardedCache) Count() int {
	var n int
	for _, s := range c.shards {
		n += s.len()
	}
	return n
}

func (c *ShardedCache) getShard(key uint64) *lruShard {
	bs := make([]byte, 8)
	binary.LittleEndian.PutUint64(bs, key)
	return c.shards[xxhash.Sum64(bs)%uint64(len(c.shards))]
}

package database

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/docbreaker-games/docbreaker/internal/cache"
	"github.com/docbreaker-games/docbreaker/internal/database"
	"github.com/docbreaker-games/docbreaker/internal/database/score/model"
	bolt "go.etcd.io/bbolt"
)

const (
	bucket   = "scores"
	cacheKey = "scores:ordered"
)

// Buckets lists the buckets owned by this store.
var Buckets = []string{bucket}

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
	// gen counts committed writes; a read only fills the cache when no
	// write landed since it started
	mtx sync.Mutex
	gen uint64
}

func decodeAll(b *bolt.Bucket) ([]model.Score, error) {
	var list []model.Score
	if err := b.ForEach(func(k, v []byte) error {
		var s model.Score
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("json unmarshal error, %w", err)
		}
		list = append(list, s)
		return nil
	}); err != nil {
		return nil, err
	}

	return list, nil
}

// Top returns at most limit records ordered best first.
func (db *DB) Top(limit int) ([]model.Score, error) {
	ordered, err := db.ordered()
	if err != nil {
		return nil, err
	}

	if limit > 0 && limit < len(ordered) {
		ordered = ordered[:limit]
	}

	out := make([]model.Score, len(ordered))
	copy(out, ordered)
	return out, nil
}

func (db *DB) ordered() ([]model.Score, error) {
	if db.cache != nil {
		if v, ok := db.cache.Get(cacheKey); ok {
			return v.([]model.Score), nil
		}
	}

	gen := db.generation()
	list, err := db.load()
	if err != nil {
		return nil, err
	}
	db.remember(gen, list)

	return list, nil
}

func (db *DB) load() ([]model.Score, error) {
	var list []model.Score
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}

		var err error
		list, err = decodeAll(b)
		return err
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	sort.Slice(list, func(i, j int) bool {
		return model.Less(list[i], list[j])
	})

	return list, nil
}

func (db *DB) generation() uint64 {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	return db.gen
}

// remember caches list read at generation gen unless a write has been
// committed since.
func (db *DB) remember(gen uint64, list []model.Score) {
	if db.cache == nil {
		return
	}
	db.mtx.Lock()
	defer db.mtx.Unlock()
	if gen == db.gen {
		db.cache.Add(cacheKey, list)
	}
}

func (db *DB) invalidate() {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	db.gen++
	if db.cache != nil {
		db.cache.Delete(cacheKey)
	}
}

// Submit inserts s while keeping at most capacity records. When the
// collection is full the lowest record is replaced only if s beats it.
// The read of the lowest record and the replacement share one write
// transaction, so concurrent submissions cannot evict the same record.
func (db *DB) Submit(s model.Score, capacity int) (model.Outcome, error) {
	var outcome model.Outcome

	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return outcome, fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() //nolint

	b, err := tx.CreateBucketIfNotExists([]byte(bucket))
	if err != nil {
		return outcome, fmt.Errorf("can not create bucket %s: %w", bucket, err)
	}

	stored, err := decodeAll(b)
	if err != nil {
		return outcome, fmt.Errorf("decode stored scores: %w", err)
	}

	outcome.Count = len(stored)
	var lowest *model.Score
	for i := range stored {
		if lowest == nil || model.Less(*lowest, stored[i]) {
			lowest = &stored[i]
		}
	}
	if lowest != nil {
		outcome.Lowest = lowest.Score
	}

	if len(stored) >= capacity {
		if lowest == nil || s.Score <= lowest.Score {
			return outcome, nil
		}

		binaryID, err := lowest.ID.MarshalBinary()
		if err != nil {
			return outcome, fmt.Errorf("uuid binary: %w", err)
		}
		if err := b.Delete(binaryID); err != nil {
			return outcome, fmt.Errorf("delete lowest: %w", err)
		}

		evicted := *lowest
		outcome.Evicted = &evicted
		outcome.Count--
	}

	binaryID, err := s.ID.MarshalBinary()
	if err != nil {
		return outcome, fmt.Errorf("uuid binary: %w", err)
	}

	bytes, err := json.Marshal(s)
	if err != nil {
		return outcome, fmt.Errorf("marshal: %w", err)
	}

	if err := b.Put(binaryID, bytes); err != nil {
		return outcome, fmt.Errorf("put to bucket error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return outcome, fmt.Errorf("committing transaction: %w", err)
	}

	db.invalidate()

	outcome.Saved = true
	outcome.Count++
	outcome.Rank = 1
	for i := range stored {
		if outcome.Evicted != nil && stored[i].ID == outcome.Evicted.ID {
			continue
		}
		if model.Less(stored[i], s) {
			outcome.Rank++
		}
	}

	return outcome, nil
}

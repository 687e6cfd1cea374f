package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/byteutil"
	"github.com/docbreaker-games/docbreaker/internal/database"
	"github.com/docbreaker-games/docbreaker/internal/database/chat/model"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const (
	bucket      = "chat"
	indexBucket = "chat_index"
)

// Buckets lists the buckets owned by this store.
var Buckets = []string{bucket, indexBucket}

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrDuplicate    = fmt.Errorf("duplicate message")
	ErrAlreadyVoted = fmt.Errorf("already voted")
)

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

// DB keeps messages keyed by an increasing sequence so cursors walk them in
// insertion order. A second bucket maps message IDs to sequence keys.
type DB struct {
	sDB *database.DB
}

func buckets(tx *bolt.Tx) (*bolt.Bucket, *bolt.Bucket, error) {
	b, err := tx.CreateBucketIfNotExists([]byte(bucket))
	if err != nil {
		return nil, nil, fmt.Errorf("can not create bucket %s: %w", bucket, err)
	}
	idx, err := tx.CreateBucketIfNotExists([]byte(indexBucket))
	if err != nil {
		return nil, nil, fmt.Errorf("can not create bucket %s: %w", indexBucket, err)
	}
	return b, idx, nil
}

func decode(v []byte) (model.Message, error) {
	var m model.Message
	if err := json.Unmarshal(v, &m); err != nil {
		return m, fmt.Errorf("json unmarshal error, %w", err)
	}
	return m, nil
}

// Insert appends m unless the duplicate policy rejects it, then prunes the
// collection down to the retention size. Page cursors are whole
// milliseconds, so m.CreatedAt is truncated and moved past the newest
// stored message when needed; every message owns its millisecond.
func (db *DB) Insert(m *model.Message, policy model.InsertPolicy) error {
	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() //nolint

	b, idx, err := buckets(tx)
	if err != nil {
		return err
	}

	if policy.DuplicateLimit > 0 {
		since := m.CreatedAt.Add(-policy.DuplicateWindow)
		same := 0
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			prev, err := decode(v)
			if err != nil {
				return err
			}
			if prev.CreatedAt.Before(since) {
				break
			}
			if prev.Text == m.Text {
				same++
			}
		}
		if same >= policy.DuplicateLimit {
			return ErrDuplicate
		}
	}

	m.CreatedAt = m.CreatedAt.Truncate(time.Millisecond)
	if k, v := b.Cursor().Last(); k != nil {
		last, err := decode(v)
		if err != nil {
			return err
		}
		if !m.CreatedAt.After(last.CreatedAt) {
			m.CreatedAt = last.CreatedAt.Add(time.Millisecond)
		}
	}

	seq, err := b.NextSequence()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	key := byteutil.EncodeUint64(seq)

	bytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := b.Put(key, bytes); err != nil {
		return fmt.Errorf("put to bucket error: %w", err)
	}
	if err := idx.Put(m.ID[:], key); err != nil {
		return fmt.Errorf("put to index error: %w", err)
	}

	if policy.Retention > 0 {
		if err := prune(b, idx, policy.Retention); err != nil {
			return fmt.Errorf("prune: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func prune(b, idx *bolt.Bucket, retention int) error {
	total := 0
	if err := b.ForEach(func(k, v []byte) error {
		total++
		return nil
	}); err != nil {
		return err
	}

	for ; total > retention; total-- {
		c := b.Cursor()
		k, v := c.First()
		if k == nil {
			break
		}
		m, err := decode(v)
		if err != nil {
			return err
		}
		if err := idx.Delete(m.ID[:]); err != nil {
			return err
		}
		if err := c.Delete(); err != nil {
			return err
		}
	}

	return nil
}

// Page returns up to limit messages newest first, strictly older than
// before when before is non-zero.
func (db *DB) Page(before time.Time, limit int) (model.Page, error) {
	var page model.Page
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}

		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			m, err := decode(v)
			if err != nil {
				return err
			}
			if !before.IsZero() && !m.CreatedAt.Before(before) {
				continue
			}
			if len(page.Messages) == limit {
				page.HasMore = true
				return nil
			}
			page.Messages = append(page.Messages, m)
		}

		return nil
	}); err != nil {
		return page, fmt.Errorf("view transaction error: %w", err)
	}

	return page, nil
}

// Vote records a delete request from voter. The author deletes at once;
// anyone else adds one vote and the message goes at quorum. A voter can
// vote on a message once.
func (db *DB) Vote(id uuid.UUID, voter string, quorum int) (model.VoteResult, error) {
	var result model.VoteResult

	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return result, fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() //nolint

	b, idx, err := buckets(tx)
	if err != nil {
		return result, err
	}

	key := idx.Get(id[:])
	if key == nil {
		return result, ErrNotFound
	}
	v := b.Get(key)
	if v == nil {
		return result, ErrNotFound
	}

	m, err := decode(v)
	if err != nil {
		return result, err
	}

	switch {
	case m.Author == voter:
		result.Deleted, result.ByAuthor = true, true
	case m.HasVoted(voter):
		result.Votes = m.DeleteVotes
		return result, ErrAlreadyVoted
	default:
		m.DeleteVotes++
		m.Voters = append(m.Voters, voter)
		result.Deleted = m.DeleteVotes >= quorum
	}
	result.Votes = m.DeleteVotes

	// key is owned by the index bucket page and must be copied before the
	// index entry goes away
	seqKey := append([]byte(nil), key...)
	if result.Deleted {
		if err := b.Delete(seqKey); err != nil {
			return result, fmt.Errorf("delete message: %w", err)
		}
		if err := idx.Delete(id[:]); err != nil {
			return result, fmt.Errorf("delete index: %w", err)
		}
	} else {
		bytes, err := json.Marshal(m)
		if err != nil {
			return result, fmt.Errorf("marshal: %w", err)
		}
		if err := b.Put(seqKey, bytes); err != nil {
			return result, fmt.Errorf("put to bucket error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("committing transaction: %w", err)
	}

	return result, nil
}

/*
Package store persists analysis outputs.

Score maps are cached in a bbolt bucket keyed by a hash of the analysis
request, with an LRU in front of the disk to keep repeated requests
cheap. Result artifacts (colored JSON, GeoJSON) go to flat gzip files
under results/<dataset>/, mirroring the layout analysis consumers
already expect.
*/
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mitchellh/hashstructure/v2"
	bbolt "go.etcd.io/bbolt"

	"github.com/mikkohei13/biotools/diversity"
	"github.com/mikkohei13/biotools/params"
)

var scoresBucket = []byte("scoremaps")

const defaultLRUSize = 128

type Store struct {
	DB    *bbolt.DB
	cache *lru.Cache[string, CachedScores]
}

// CachedScores is one persisted analysis output. The record count
// travels with the score map so a cache hit reports the same count
// the scores were computed from.
type CachedScores struct {
	Scores  diversity.ScoreMap `json:"scores"`
	Records int                `json:"records"`
}

// Open opens (creating if needed) the score database under dataDir.
func Open(dataDir string) (*Store, error) {
	path := filepath.Join(dataDir, params.ScoreDBName)
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0660, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(scoresBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	cache, err := lru.New[string, CachedScores](defaultLRUSize)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{DB: db, cache: cache}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// RequestKey hashes any request-shaped value into a stable cache key.
func RequestKey(request any) (string, error) {
	hash, err := hashstructure.Hash(request, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", hash), nil
}

// GetScores returns the cached output for the key, or ok=false.
func (s *Store) GetScores(key string) (CachedScores, bool) {
	if cached, ok := s.cache.Get(key); ok {
		return cached, true
	}
	var cached CachedScores
	err := s.DB.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(scoresBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &cached)
	})
	if err != nil || cached.Scores == nil {
		return CachedScores{}, false
	}
	s.cache.Add(key, cached)
	return cached, true
}

// PutScores persists an analysis output under the key.
func (s *Store) PutScores(key string, cached CachedScores) error {
	v, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	err = s.DB.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(scoresBucket).Put([]byte(key), v)
	})
	if err != nil {
		return err
	}
	s.cache.Add(key, cached)
	return nil
}

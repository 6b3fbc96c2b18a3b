package badger

import (
	"context"
	"strings"
	"sync"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/interfaces"
)

const fileKeyPrefix = "file:"

// FileStorage keeps raw document blobs directly in badger under
// "file:<key>", outside badgerhold's typed records. When a sealer is set
// and enabled, blobs are sealed on write; reads always pass through Open
// so plain blobs written earlier stay readable.
type FileStorage struct {
	db     *BadgerDB
	logger arbor.ILogger

	mu     sync.RWMutex
	sealer interfaces.Sealer
}

// NewFileStorage creates a new FileStorage instance
func NewFileStorage(db *BadgerDB, logger arbor.ILogger) *FileStorage {
	return &FileStorage{
		db:     db,
		logger: logger,
	}
}

// SetSealer installs the at-rest encryption layer
func (s *FileStorage) SetSealer(sealer interfaces.Sealer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sealer = sealer
}

func (s *FileStorage) currentSealer() interfaces.Sealer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sealer
}

func (s *FileStorage) SaveFile(ctx context.Context, key string, data []byte) error {
	value := data
	if sealer := s.currentSealer(); sealer != nil && sealer.Enabled() {
		sealed, err := sealer.Seal(data)
		if err != nil {
			return err
		}
		value = sealed
	}

	err := s.db.Store().Badger().Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(fileKeyPrefix+key), value)
	})
	if err != nil {
		return storageErr("save file", key, err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Stored file blob")
	return nil
}

func (s *FileStorage) GetFile(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.Store().Badger().View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(fileKeyPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badgerdb.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get file", key, err)
	}

	if sealer := s.currentSealer(); sealer != nil {
		return sealer.Open(value)
	}
	return value, nil
}

func (s *FileStorage) DeleteFile(ctx context.Context, key string) error {
	err := s.db.Store().Badger().Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(fileKeyPrefix + key))
	})
	return storageErr("delete file", key, err)
}

func (s *FileStorage) ListFileKeys(ctx context.Context) ([]string, error) {
	keys := []string{}
	err := s.db.Store().Badger().View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(fileKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, strings.TrimPrefix(string(it.Item().Key()), fileKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("list files", "", err)
	}
	return keys, nil
}

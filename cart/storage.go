package cart

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/CorporateGuuu/nexustechhub-sub003/pricing"
)

// StorageKey is the fixed key the cart snapshot is stored under.
const StorageKey = "nexus_cart"

// Store is the durable snapshot boundary for the cart aggregate. It is
// injected explicitly; the aggregate itself never touches storage.
type Store interface {
	Save(c *Cart) error
	// Load returns (snapshot, true, nil) when a snapshot exists,
	// (zero, false, nil) when none has been saved yet.
	Load() (Cart, bool, error)
}

// FileStore persists the whole aggregate as a single JSON document under
// the fixed storage key inside dir.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, StorageKey+".json")
}

func (s *FileStore) Save(c *Cart) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	// write-then-rename so a crash mid-write never corrupts the snapshot
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path())
}

func (s *FileStore) Load() (Cart, bool, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Cart{}, false, nil
		}
		return Cart{}, false, err
	}
	var snapshot Cart
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Cart{}, false, err
	}
	return snapshot, true, nil
}

// Restore builds a cart from whatever the store holds, running the
// snapshot through Load so totals are always re-derived rather than
// trusted from disk.
func Restore(store Store, tier string) (*Cart, error) {
	c := New(pricing.ParseTier(tier))
	snapshot, ok, err := store.Load()
	if err != nil {
		return nil, err
	}
	if ok {
		c.Load(snapshot)
	}
	return c, nil
}

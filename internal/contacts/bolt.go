package contacts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketContacts = []byte("contacts")

// BoltStore persists contacts in a bbolt file, one JSON value per contact.
// Pass a path via the CLI's --db flag to keep the address book across runs.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database at path and ensures the
// contacts bucket exists.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening contacts db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketContacts)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing contacts db: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close releases the underlying database file.
func (s *BoltStore) Close() error { return s.db.Close() }

func (s *BoltStore) List(ctx context.Context, query string) ([]Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []Contact
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketContacts).ForEach(func(_, v []byte) error {
			var c Contact
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("decoding contact: %w", err)
			}
			list = append(list, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortContacts(list)
	return Filter(list, query), nil
}

func (s *BoltStore) Get(ctx context.Context, id string) (Contact, error) {
	if err := ctx.Err(); err != nil {
		return Contact{}, err
	}
	var c Contact
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketContacts).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &c)
	})
	if err != nil {
		return Contact{}, err
	}
	return c, nil
}

func (s *BoltStore) Create(ctx context.Context, fields Fields) (Contact, error) {
	if err := ctx.Err(); err != nil {
		return Contact{}, err
	}
	c := Contact{ID: newID(), CreatedAt: time.Now()}
	c.apply(fields)
	if err := s.put(c); err != nil {
		return Contact{}, err
	}
	return c, nil
}

func (s *BoltStore) Update(ctx context.Context, id string, fields Fields) (Contact, error) {
	if err := ctx.Err(); err != nil {
		return Contact{}, err
	}
	var c Contact
	err := s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketContacts)
		v := bkt.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(v, &c); err != nil {
			return err
		}
		c.apply(fields)
		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(id), data)
	})
	if err != nil {
		return Contact{}, err
	}
	return c, nil
}

func (s *BoltStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketContacts)
		if bkt.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return bkt.Delete([]byte(id))
	})
}

func (s *BoltStore) put(c Contact) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketContacts).Put([]byte(c.ID), data)
	})
}

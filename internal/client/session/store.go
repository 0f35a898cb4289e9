// Package session хранит сессионный токен CLI клиента между запусками.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	bucketSession = []byte("session")
	sessionKey    = []byte("current")

	// ErrSessionNotFound возвращается, когда сохраненной сессии нет
	ErrSessionNotFound = errors.New("session not found")
)

// Session представляет сохраненную сессию пользователя.
type Session struct {
	UsernameOrEmail string `json:"username_or_email"`
	Token           string `json:"token"`
	SavedAt         int64  `json:"saved_at"` // unix секунды
}

// Store хранит сессию в BoltDB файле.
type Store struct {
	db *bbolt.DB
}

// Open открывает (или создает) файл сессии.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close закрывает файл сессии.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save сохраняет сессию, заменяя предыдущую.
func (s *Store) Save(session *Session) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		if err := bucket.Put(sessionKey, data); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		return nil
	})
}

// Get возвращает сохраненную сессию.
func (s *Store) Get() (*Session, error) {
	var session *Session

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		data := bucket.Get(sessionKey)
		if data == nil {
			return ErrSessionNotFound
		}

		session = &Session{}
		if err := json.Unmarshal(data, session); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Delete удаляет сохраненную сессию (logout).
func (s *Store) Delete() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		if bucket.Get(sessionKey) == nil {
			return ErrSessionNotFound
		}

		return bucket.Delete(sessionKey)
	})
}

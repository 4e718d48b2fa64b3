package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/parlorchat/parlor/internal/domain"
)

// userRepository persists accounts in BadgerDB under "user:{id}" with a
// "username:{name}" pointer key acting as a unique index.
type userRepository struct {
	db *badger.DB
}

// userRecord is the stored form. domain.User hides the password hash from
// JSON responses, so the record re-declares it for persistence.
type userRecord struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}

func newUserRecord(u *domain.User) userRecord {
	return userRecord{User: *u, PasswordHash: u.PasswordHash}
}

func (rec userRecord) toUser() *domain.User {
	u := rec.User
	u.PasswordHash = rec.PasswordHash
	return &u
}

func NewUserRepository(db *badger.DB) domain.UserRepository {
	return &userRepository{db: db}
}

func userKey(id string) []byte {
	return []byte("user:" + id)
}

func usernameKey(username string) []byte {
	return []byte("username:" + username)
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" || user.Username == "" {
		return domain.ErrInvalidInput
	}

	value, err := json.Marshal(newUserRecord(user))
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(usernameKey(user.Username))
		if err == nil {
			return domain.ErrUsernameTaken
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(userKey(user.ID), value); err != nil {
			return err
		}
		return txn.Set(usernameKey(user.Username), []byte(user.ID))
	})
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrUserNotFound
	}

	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return rec.toUser(), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, domain.ErrUserNotFound
	}

	var id string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameKey(username))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			id = string(value)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Update overwrites a user's record. The username is immutable, so the
// unique index never needs rewriting here.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidInput
	}

	value, err := json.Marshal(newUserRecord(user))
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(userKey(user.ID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		return txn.Set(userKey(user.ID), value)
	})
}

//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"nestchat/codec"
	"nestchat/domain"
	"nestchat/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	Create(user domain.User) (domain.User, error)
	GetByEmail(email string) (domain.User, error)
	GetByID(id uuid.UUID) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

type diskUser struct {
	ID           string `cbor:"id"`
	Email        string `cbor:"email"`
	Name         string `cbor:"name"`
	AvatarURL    string `cbor:"avatar_url,omitempty"`
	Role         string `cbor:"role"`
	PasswordHash string `cbor:"password_hash"`
	CreatedAt    int64  `cbor:"created_at"`
}

// Create persists the user and claims the useremail row in one
// transaction. A taken email fails with ErrUserAlreadyExists, including
// the case where two registrations race on the same address and one
// commit is rejected by conflict detection.
func (u *UserRepository) Create(user domain.User) (domain.User, error) {
	data, err := codec.Marshal(fromUser(user))
	if err != nil {
		return domain.User{}, err
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		emailKey := userEmailKey(user.Email)
		if _, err := txn.Get(emailKey); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(emailKey, []byte(user.ID.String())); err != nil {
			return err
		}
		return txn.Set(userKey(user.ID), data)
	})
	if stderrors.Is(err, badger.ErrConflict) {
		return domain.User{}, errors.ErrUserAlreadyExists
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u *UserRepository) GetByEmail(email string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		id, err := uuid.Parse(string(value))
		if err != nil {
			return err
		}
		user, err = readUser(txn, id)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u *UserRepository) GetByID(id uuid.UUID) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = readUser(txn, id)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func readUser(txn *badger.Txn, id uuid.UUID) (domain.User, error) {
	item, err := txn.Get(userKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return domain.User{}, err
	}

	var disk diskUser
	if err := codec.Unmarshal(value, &disk); err != nil {
		return domain.User{}, err
	}
	return toUser(disk)
}

func fromUser(user domain.User) diskUser {
	return diskUser{
		ID:           user.ID.String(),
		Email:        user.Email,
		Name:         user.Name,
		AvatarURL:    user.AvatarURL,
		Role:         string(user.Role),
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.UnixNano(),
	}
}

func toUser(disk diskUser) (domain.User, error) {
	id, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:           id,
		Email:        disk.Email,
		Name:         disk.Name,
		AvatarURL:    disk.AvatarURL,
		Role:         domain.Role(disk.Role),
		PasswordHash: disk.PasswordHash,
		CreatedAt:    time.Unix(0, disk.CreatedAt).UTC(),
	}, nil
}

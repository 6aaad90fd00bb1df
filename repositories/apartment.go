//go:generate go run go.uber.org/mock/mockgen -source=apartment.go -destination=../mocks/mock_apartment_repository.go -package=mocks
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

type IApartmentRepository interface {
	Create(apartment domain.Apartment) (domain.Apartment, error)
	GetByID(id uuid.UUID) (domain.Apartment, error)
}

type ApartmentRepository struct {
	db *badger.DB
}

func NewApartmentRepository(db *badger.DB) *ApartmentRepository {
	return &ApartmentRepository{db: db}
}

type diskApartment struct {
	ID        string `cbor:"id"`
	OwnerID   string `cbor:"owner_id"`
	Title     string `cbor:"title"`
	Address   string `cbor:"address"`
	RentCents int64  `cbor:"rent_cents"`
	CreatedAt int64  `cbor:"created_at"`
}

func (a *ApartmentRepository) Create(apartment domain.Apartment) (domain.Apartment, error) {
	data, err := codec.Marshal(fromApartment(apartment))
	if err != nil {
		return domain.Apartment{}, err
	}
	err = a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(apartmentKey(apartment.ID), data)
	})
	if err != nil {
		return domain.Apartment{}, err
	}
	return apartment, nil
}

func (a *ApartmentRepository) GetByID(id uuid.UUID) (domain.Apartment, error) {
	var apartment domain.Apartment
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(apartmentKey(id))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrApartmentNotFound
		}
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		var disk diskApartment
		if err := codec.Unmarshal(value, &disk); err != nil {
			return err
		}
		apartment, err = toApartment(disk)
		return err
	})
	if err != nil {
		return domain.Apartment{}, err
	}
	return apartment, nil
}

func fromApartment(apartment domain.Apartment) diskApartment {
	return diskApartment{
		ID:        apartment.ID.String(),
		OwnerID:   apartment.OwnerID.String(),
		Title:     apartment.Title,
		Address:   apartment.Address,
		RentCents: apartment.RentCents,
		CreatedAt: apartment.CreatedAt.UnixNano(),
	}
}

func toApartment(disk diskApartment) (domain.Apartment, error) {
	id, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Apartment{}, err
	}
	ownerID, err := uuid.Parse(disk.OwnerID)
	if err != nil {
		return domain.Apartment{}, err
	}
	return domain.Apartment{
		ID:        id,
		OwnerID:   ownerID,
		Title:     disk.Title,
		Address:   disk.Address,
		RentCents: disk.RentCents,
		CreatedAt: time.Unix(0, disk.CreatedAt).UTC(),
	}, nil
}

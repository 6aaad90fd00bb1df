package services

import (
	"fmt"
	"nestchat/domain"
	"nestchat/errors"
	"nestchat/repositories"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxTitleLength   = 140
	maxAddressLength = 200
)

type IApartmentService interface {
	Create(cmd domain.CreateApartmentCommand) (domain.Apartment, error)
	GetByID(id uuid.UUID) (domain.Apartment, error)
}

type ApartmentService struct {
	apartments repositories.IApartmentRepository
	users      repositories.IUserRepository
}

func NewApartmentService(apartments repositories.IApartmentRepository, users repositories.IUserRepository) IApartmentService {
	return &ApartmentService{apartments: apartments, users: users}
}

func (s *ApartmentService) Create(cmd domain.CreateApartmentCommand) (domain.Apartment, error) {
	// 1. Validate the listing fields.
	title := strings.TrimSpace(cmd.Title)
	address := strings.TrimSpace(cmd.Address)
	switch {
	case title == "":
		return domain.Apartment{}, fmt.Errorf("%w: title is empty", errors.ErrValidation)
	case utf8.RuneCountInString(title) > maxTitleLength:
		return domain.Apartment{}, fmt.Errorf("%w: title exceeds %d characters", errors.ErrValidation, maxTitleLength)
	case address == "":
		return domain.Apartment{}, fmt.Errorf("%w: address is empty", errors.ErrValidation)
	case utf8.RuneCountInString(address) > maxAddressLength:
		return domain.Apartment{}, fmt.Errorf("%w: address exceeds %d characters", errors.ErrValidation, maxAddressLength)
	case cmd.RentCents <= 0:
		return domain.Apartment{}, fmt.Errorf("%w: rent must be positive", errors.ErrValidation)
	}

	// 2. Only listers publish apartments.
	owner, err := s.users.GetByID(cmd.OwnerID)
	if err != nil {
		return domain.Apartment{}, err
	}
	if owner.Role != domain.RoleLister {
		return domain.Apartment{}, fmt.Errorf("%w: only listers can publish apartments", errors.ErrForbidden)
	}

	// 3. Persist.
	return s.apartments.Create(domain.Apartment{
		ID:        uuid.New(),
		OwnerID:   owner.ID,
		Title:     title,
		Address:   address,
		RentCents: cmd.RentCents,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *ApartmentService) GetByID(id uuid.UUID) (domain.Apartment, error) {
	return s.apartments.GetByID(id)
}

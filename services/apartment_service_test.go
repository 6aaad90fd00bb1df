package services

import (
	"strings"
	"testing"

	"nestchat/domain"
	"nestchat/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestApartmentService_Create(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	lister := env.seedUser(t, "Omar", domain.RoleLister)
	seeker := env.seedUser(t, "Prisca", domain.RoleSeeker)

	apartment, err := env.apartmentService.Create(domain.CreateApartmentCommand{
		OwnerID:   lister.ID,
		Title:     "  Two rooms near the station  ",
		Address:   "12 Rue de la Gare, Lyon",
		RentCents: 95_000,
	})
	req.NoError(err)
	req.Equal(lister.ID, apartment.OwnerID)
	req.Equal("Two rooms near the station", apartment.Title)

	fetched, err := env.apartmentService.GetByID(apartment.ID)
	req.NoError(err)
	req.Equal(apartment.ID, fetched.ID)

	// Seekers cannot publish.
	_, err = env.apartmentService.Create(domain.CreateApartmentCommand{
		OwnerID:   seeker.ID,
		Title:     "Sublet",
		Address:   "Somewhere",
		RentCents: 10_000,
	})
	req.ErrorIs(err, errors.ErrForbidden)

	_, err = env.apartmentService.Create(domain.CreateApartmentCommand{
		OwnerID:   uuid.New(),
		Title:     "Ghost listing",
		Address:   "Nowhere",
		RentCents: 10_000,
	})
	req.ErrorIs(err, errors.ErrUserNotFound)

	_, err = env.apartmentService.GetByID(uuid.New())
	req.ErrorIs(err, errors.ErrApartmentNotFound)
}

func TestApartmentService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	lister := env.seedUser(t, "Omar", domain.RoleLister)

	tests := []struct {
		name string
		cmd  domain.CreateApartmentCommand
	}{
		{"empty title", domain.CreateApartmentCommand{OwnerID: lister.ID, Title: "  ", Address: "12 Rue de la Gare", RentCents: 1}},
		{"oversized title", domain.CreateApartmentCommand{OwnerID: lister.ID, Title: strings.Repeat("t", 141), Address: "12 Rue de la Gare", RentCents: 1}},
		{"empty address", domain.CreateApartmentCommand{OwnerID: lister.ID, Title: "Fine", Address: "", RentCents: 1}},
		{"oversized address", domain.CreateApartmentCommand{OwnerID: lister.ID, Title: "Fine", Address: strings.Repeat("a", 201), RentCents: 1}},
		{"zero rent", domain.CreateApartmentCommand{OwnerID: lister.ID, Title: "Fine", Address: "12 Rue de la Gare", RentCents: 0}},
		{"negative rent", domain.CreateApartmentCommand{OwnerID: lister.ID, Title: "Fine", Address: "12 Rue de la Gare", RentCents: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.apartmentService.Create(tt.cmd)
			require.ErrorIs(t, err, errors.ErrValidation)
		})
	}
}

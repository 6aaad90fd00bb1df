package services

import (
	stderrors "errors"
	"fmt"
	"nestchat/auth"
	"nestchat/domain"
	"nestchat/errors"
	"nestchat/repositories"
	"strings"
	"time"

	"github.com/google/uuid"
)

type IAuthService interface {
	Register(email, password, name string, role domain.Role) (Token, error)
	Login(email, password string) (Token, error)
}

type Token string

type AuthService struct {
	userRepository repositories.IUserRepository
	tokenDuration  time.Duration
}

func NewAuthService(repo repositories.IUserRepository, tokenDuration time.Duration) IAuthService {
	return &AuthService{userRepository: repo, tokenDuration: tokenDuration}
}

func (s *AuthService) Register(email, password, name string, role domain.Role) (Token, error) {
	// Emails are case-insensitive identifiers. Normalize once, here, so
	// storage and login always agree.
	email = strings.ToLower(strings.TrimSpace(email))

	// 1. Validate business rules (email format, password complexity)
	// before any expensive cryptographic operation.
	valReq := auth.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     strings.TrimSpace(name),
		Role:     string(role),
	}
	if err := auth.ValidateRegister(valReq); err != nil {
		if stderrors.Is(err, errors.ErrInvalidPassword) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	// 2. Hash the password using Argon2id
	// Done in the service layer to keep the repository unaware of plain passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Persist the user with the generated hash
	user, err := s.userRepository.Create(domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         valReq.Name,
		Role:         role,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return "", err // Will propagate ErrUserAlreadyExists if email is taken
	}

	// 4. Generate the initial session token
	token, err := auth.GenerateToken(user.ID.String(), []string{string(user.Role)}, s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}

	return Token(token), nil
}

func (s *AuthService) Login(email, password string) (Token, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// 1. Retrieve user by email from storage
	user, err := s.userRepository.GetByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration attacks
		return "", errors.ErrInvalidCredentials
	}

	// 2. Compare the provided password with the stored hash
	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	// 3. Issue the JWT token
	token, err := auth.GenerateToken(user.ID.String(), []string{string(user.Role)}, s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}

	return Token(token), nil
}

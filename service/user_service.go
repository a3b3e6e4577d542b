package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"gamewin/events"
	"gamewin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	maxUserListLimit  = 100
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
	policy     TxPolicy
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory, policy TxPolicy, bcryptCost int) UserService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		uowFactory: uowFactory,
		policy:     policy,
		bcryptCost: bcryptCost,
	}
}

// Register creates an account with zero balances
func (s *userService) Register(ctx context.Context, params models.RegisterParams) (*models.User, error) {
	username := strings.TrimSpace(params.Username)
	email := strings.ToLower(strings.TrimSpace(params.Email))

	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: username must be 3-32 letters, digits or underscores", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if len(params.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	role := params.Role
	if role == "" {
		role = models.UserRoleUser
	}

	// Hash outside the transaction, bcrypt is slow on purpose
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:            uuid.New(),
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          role,
		Balance:       decimal.Zero,
		TotalEarnings: decimal.Zero,
		IsActive:      true,
	}
	err = runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		uow.EventBus().Publish(events.UserRegisteredEvent{
			UserID:   user.ID,
			Username: user.Username,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":   user.ID,
		"username": user.Username,
		"role":     user.Role,
	}).Info("User registered")

	return user, nil
}

// Authenticate checks a username and password pair
func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user *models.User
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		user, err = uow.UserRepository().GetByUsername(ctx, strings.TrimSpace(username))
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user *models.User
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		user, err = uow.UserRepository().GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 || limit > maxUserListLimit {
		limit = maxUserListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var users []*models.User
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		users, err = uow.UserRepository().List(ctx, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SetUserActive bans or unbans a user
func (s *userService) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (*models.User, error) {
	var user *models.User
	err := runInUnitOfWork(ctx, s.uowFactory, s.policy, func(ctx context.Context, uow UnitOfWork) error {
		var err error
		user, err = uow.UserRepository().GetByIDForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return ErrUserNotFound
		}
		if err := uow.UserRepository().SetActive(ctx, userID, active); err != nil {
			return fmt.Errorf("failed to update user status: %w", err)
		}
		user.IsActive = active
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"active": active,
	}).Info("User status changed")

	return user, nil
}

// Package services contains server-side business logic: UserService for
// registration and login, and StorageService for the folder/file tree.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/dbx"
	"github.com/dmitrijs2005/gophdrive/internal/server/auth"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint an access token
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	hashCost    int

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hashCost:    bcrypt.DefaultCost,
	}
}

// Register creates a user with a bcrypt digest of password. An email that is
// already taken yields common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorInvalidInput)
	}

	digest, err := auth.HashPasswordCost(password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		repo := s.repomanager.Users(tx)

		exists, err := repo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("error checking user: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("email already registered: %w", common.ErrorConflict)
		}

		u, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: digest})
		if err != nil {
			return nil, fmt.Errorf("error creating user: %w", err)
		}
		return u, nil
	})
}

// Login checks the credentials and returns an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", common.ErrorInvalidInput)
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckPassword(s.dummyDigest(), password)
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// fallbackDummyDigest is a well-formed cost-10 digest that no password
// matches. bcrypt still runs in full before the comparison fails.
const fallbackDummyDigest = "$2a$10$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

var makeDummyPassword = common.MakeRandHexString

// dummyDigest is compared against when the email is unknown so that both
// failure paths cost one bcrypt run.
func (s *UserService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		s.dummyHash = fallbackDummyDigest

		pw, err := makeDummyPassword(16)
		if err != nil {
			return
		}
		if h, err := auth.HashPasswordCost(pw, s.hashCost); err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

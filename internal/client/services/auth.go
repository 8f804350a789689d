// Package services contains application services for the gophdrive CLI:
// the login session (auth.go) and file/folder operations (drive.go).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/client/repositories/session"
	"github.com/dmitrijs2005/gophdrive/internal/dbx"
)

// ErrNotLoggedIn is returned when a storage call is made without a usable session.
var ErrNotLoggedIn = errors.New("not logged in")

const (
	keyEmail     = "email"
	keyToken     = "access_token"
	keyExpiresAt = "expires_at"
)

// AuthService handles register/login/logout and keeps the session in the
// local database.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Logout(ctx context.Context) error
	// Session returns the stored session, or ErrNotLoggedIn when there is
	// none or it has expired.
	Session(ctx context.Context) (*models.Session, error)
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
	now    func() time.Time
}

func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db, now: time.Now}
}

func (a *authService) getSessionRepo(db dbx.DBTX) session.Repository {
	return session.NewSQLiteRepository(db)
}

func (a *authService) Register(ctx context.Context, email string, password []byte) error {
	if _, err := a.client.Register(ctx, email, string(password)); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Login authenticates online and replaces whatever session was stored.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	tok, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	s := &models.Session{Email: email, AccessToken: tok.AccessToken}
	if tok.ExpiresIn > 0 {
		s.ExpiresAt = a.now().Add(time.Duration(tok.ExpiresIn) * time.Second).UTC()
	}

	if err := a.saveSession(ctx, s); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}

func (a *authService) saveSession(ctx context.Context, s *models.Session) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getSessionRepo(tx)

		if err := repo.Clear(ctx); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyEmail, []byte(s.Email)); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyToken, []byte(s.AccessToken)); err != nil {
			return err
		}
		if !s.ExpiresAt.IsZero() {
			exp := strconv.FormatInt(s.ExpiresAt.Unix(), 10)
			if err := repo.Set(ctx, keyExpiresAt, []byte(exp)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *authService) Logout(ctx context.Context) error {
	return a.getSessionRepo(a.db).Clear(ctx)
}

func (a *authService) Session(ctx context.Context) (*models.Session, error) {
	repo := a.getSessionRepo(a.db)

	token, err := repo.Get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, ErrNotLoggedIn
	}

	email, err := repo.Get(ctx, keyEmail)
	if err != nil {
		return nil, err
	}

	s := &models.Session{Email: string(email), AccessToken: string(token)}

	exp, err := repo.Get(ctx, keyExpiresAt)
	if err != nil {
		return nil, err
	}
	if len(exp) > 0 {
		sec, err := strconv.ParseInt(string(exp), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt session expiry: %w", err)
		}
		s.ExpiresAt = time.Unix(sec, 0).UTC()
	}

	if s.Expired(a.now()) {
		return nil, ErrNotLoggedIn
	}
	return s, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

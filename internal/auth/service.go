package auth

import (
	"context"
	"errors"
	"time"

	"backend-trailblazer/internal/apperr"
	"backend-trailblazer/internal/db"
	"backend-trailblazer/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

const (
	MsgEmailInUse      = "The email address is already in use by another account."
	MsgWrongPassword   = "The password is invalid or the user does not have a password."
	MsgUserNotFound    = "There is no user record corresponding to this identifier. The user may have been deleted."
	MsgRefreshRejected = "refresh token invalid"
)

// ErrNoBackend is returned when the service was built without a database.
var ErrNoBackend = errors.New("auth backend unavailable")

var (
	signTokenFn       = (*Service).signToken
	hashPasswordFn    = bcrypt.GenerateFromPassword
	parseWithClaimsFn = jwt.ParseWithClaims
)

// Service is the email/password identity provider. Accounts live in
// Postgres; live sessions are tracked in the session store so sign-out takes
// effect before the access token expires.
type Service struct {
	secret   []byte
	db       db.Querier
	sessions *session.Store
}

func NewService(secret string, db db.Querier, sessions *session.Store) *Service {
	return &Service{
		secret:   []byte(secret),
		db:       db,
		sessions: sessions,
	}
}

func (s *Service) SignUp(ctx context.Context, email, password string) (Session, error) {
	if err := s.ready(); err != nil {
		return Session{}, err
	}
	hash, err := hashPasswordFn([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	userID := uuid.NewString()
	_, err = s.db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1,$2,$3)
	`, userID, email, string(hash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Session{}, authError(MsgEmailInUse, err)
		}
		return Session{}, apperr.Network(err)
	}

	return s.openSession(ctx, userID)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	if err := s.ready(); err != nil {
		return Session{}, err
	}
	row := s.db.QueryRow(ctx, `
		SELECT id, password_hash
		FROM users WHERE email = $1
	`, email)

	var userID, hash string
	if err := row.Scan(&userID, &hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, authError(MsgUserNotFound, err)
		}
		return Session{}, apperr.Network(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Session{}, authError(MsgWrongPassword, err)
	}
	return s.openSession(ctx, userID)
}

// SignOut revokes the session and every refresh token issued for it.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE session_id = $1 AND revoked_at IS NULL
	`, sessionID); err != nil {
		return authError("Sign out failed", err)
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return authError("Sign out failed", err)
	}
	return nil
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return authError("Account deletion failed", err)
	}
	if tag.RowsAffected() == 0 {
		return authError(MsgUserNotFound, nil)
	}
	if err := s.sessions.RevokeUser(ctx, userID); err != nil {
		return authError("Account deletion failed", err)
	}
	return nil
}

func (s *Service) GenerateTokens(ctx context.Context, id session.Identity) (TokenResponse, error) {
	access, err := signTokenFn(s, id, kindAccess, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := signTokenFn(s, id, kindRefresh, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, id, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (session.Identity, error) {
	claims, err := s.parseToken(token, kindRefresh)
	if err != nil {
		return session.Identity{}, err
	}

	userID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || userID != claims.UserID || time.Now().After(expiresAt) {
		return session.Identity{}, errors.New(MsgRefreshRejected)
	}

	id := session.Identity{UserID: claims.UserID, SessionID: claims.ID}
	live, err := s.sessions.Active(ctx, id.SessionID)
	if err != nil || !live {
		return session.Identity{}, errors.New(MsgRefreshRejected)
	}
	return id, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	id, err := s.ParseSession(token)
	if err != nil {
		return "", err
	}
	return id.UserID, nil
}

// ParseSession implements session.TokenValidator.
func (s *Service) ParseSession(token string) (session.Identity, error) {
	claims, err := s.parseToken(token, kindAccess)
	if err != nil {
		return session.Identity{}, err
	}
	return session.Identity{UserID: claims.UserID, SessionID: claims.ID}, nil
}

func (s *Service) openSession(ctx context.Context, userID string) (Session, error) {
	id := session.Identity{UserID: userID, SessionID: uuid.NewString()}
	tokens, err := s.GenerateTokens(ctx, id)
	if err != nil {
		return Session{}, apperr.Network(err)
	}
	if err := s.sessions.Open(ctx, id.SessionID, userID, refreshTokenTTL); err != nil {
		return Session{}, apperr.Network(err)
	}
	return Session{UserID: userID, SessionID: id.SessionID, Tokens: tokens}, nil
}

func (s *Service) signToken(id session.Identity, kind string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: id.UserID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.SessionID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token, kind string) (*Claims, error) {
	parsed, err := parseWithClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Kind != kind {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token string, id session.Identity, ttl time.Duration) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, session_id, token, expires_at)
		VALUES ($1,$2,$3,$4,$5)
	`, uuid.NewString(), id.UserID, id.SessionID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	if err := s.ready(); err != nil {
		return "", time.Time{}, err
	}
	row := s.db.QueryRow(ctx, `
		SELECT user_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var userID string
	var expiresAt time.Time
	if err := row.Scan(&userID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return userID, expiresAt, nil
}

func (s *Service) ready() error {
	if s.db == nil {
		return apperr.Network(ErrNoBackend)
	}
	return nil
}

func authError(message string, err error) *apperr.Error {
	if message == "" && err != nil {
		message = err.Error()
	}
	return &apperr.Error{Kind: apperr.ErrAuth, Title: "Authentication Error", Message: message, Err: err}
}

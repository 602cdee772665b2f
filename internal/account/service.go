package account

import (
	"context"
	"errors"
	"time"

	"backend-trailblazer/internal/apperr"
	"backend-trailblazer/internal/auth"
	"backend-trailblazer/internal/docstore"
	"backend-trailblazer/internal/navigation"
	"backend-trailblazer/internal/record"
	"backend-trailblazer/internal/session"
	"backend-trailblazer/internal/storage"

	"go.uber.org/zap"
)

// Provider is the identity backend accounts are created in.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (auth.Session, error)
	SignIn(ctx context.Context, email, password string) (auth.Session, error)
	SignOut(ctx context.Context, sessionID string) error
	DeleteUser(ctx context.Context, userID string) error
}

type Image struct {
	Data        []byte
	ContentType string
}

type SignUpResult struct {
	Profile record.Person     `json:"profile"`
	Session auth.Session      `json:"session"`
	Next    navigation.Screen `json:"next"`
}

type SignInResult struct {
	Session auth.Session      `json:"session"`
	Next    navigation.Screen `json:"next"`
}

var nowFn = time.Now

type Service struct {
	provider Provider
	docs     docstore.Store
	images   storage.Store
	gate     session.Gate
	nav      *navigation.Registry
	logger   *zap.Logger
}

func NewService(provider Provider, docs docstore.Store, images storage.Store, gate session.Gate, nav *navigation.Registry, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		docs:     docs,
		images:   images,
		gate:     gate,
		nav:      nav,
		logger:   logger,
	}
}

// SignUp creates the auth account, uploads the optional image, then writes
// the profile. The steps are not transactional: an image or profile failure
// leaves the auth account in place.
func (s *Service) SignUp(ctx context.Context, in SignUpInput, image *Image) (SignUpResult, error) {
	if err := IsDetailValid(in); err != nil {
		return SignUpResult{}, err
	}

	sess, err := s.provider.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return SignUpResult{}, retitle(err, "Sign-up Error")
	}

	person := record.Person{
		ID:        sess.UserID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Age:       in.Age,
		Email:     in.Email,
	}

	if image != nil && len(image.Data) > 0 {
		key := storage.ImageKey(nowFn())
		contentType := image.ContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}
		url, err := s.images.Put(ctx, key, image.Data, contentType)
		if err != nil {
			s.logger.Error("profile image upload failed", zap.String("user_id", sess.UserID), zap.Error(err))
			return SignUpResult{}, apperr.Wrap(apperr.ErrImageUpload, "Image Upload Error", err)
		}
		person.ImageRef = key
		person.ImageURL = url
	}

	if err := s.docs.Set(ctx, docstore.UserInfoDoc(sess.UserID), record.EncodePerson(person)); err != nil {
		s.logger.Error("profile write failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return SignUpResult{}, apperr.Network(err)
	}

	next := s.nav.For(sess.UserID).Dispatch(navigation.SignedUp)
	return SignUpResult{Profile: person, Session: sess, Next: next}, nil
}

func (s *Service) SignIn(ctx context.Context, in LoginInput) (SignInResult, error) {
	if err := IsLoginValid(in); err != nil {
		return SignInResult{}, err
	}

	sess, err := s.provider.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		return SignInResult{}, retitle(err, "Login Error")
	}
	return SignInResult{Session: sess, Next: s.nav.For(sess.UserID).Dispatch(navigation.LoggedIn)}, nil
}

func (s *Service) SignOut(ctx context.Context) (navigation.Screen, error) {
	userID, err := session.Require(ctx, s.gate)
	if err != nil {
		return "", err
	}
	id, _ := session.FromContext(ctx)

	if err := s.provider.SignOut(ctx, id.SessionID); err != nil {
		return "", retitle(err, "Sign-out Error")
	}

	next := s.nav.For(userID).Dispatch(navigation.SignedOut)
	s.nav.Forget(userID)
	return next, nil
}

func (s *Service) Profile(ctx context.Context) (record.Person, error) {
	userID, err := session.Require(ctx, s.gate)
	if err != nil {
		return record.Person{}, err
	}

	data, err := s.docs.Get(ctx, docstore.UserInfoDoc(userID))
	if errors.Is(err, docstore.ErrNotFound) {
		return record.Person{}, apperr.Malformed("no profile stored for user %s", userID)
	}
	if err != nil {
		return record.Person{}, apperr.Network(err)
	}
	p, err := record.DecodePerson(userID, data)
	if err != nil {
		return record.Person{}, err
	}

	// Stored download URLs expire; the key does not.
	if p.ImageRef != "" {
		url, err := s.images.URL(ctx, p.ImageRef)
		if err != nil {
			s.logger.Warn("profile image url not refreshed", zap.String("key", p.ImageRef), zap.Error(err))
		} else {
			p.ImageURL = url
		}
	}
	return p, nil
}

// DeleteAccount removes the profile, the favorites and finally the auth
// account. A failure part way through does not restore what was already
// deleted.
func (s *Service) DeleteAccount(ctx context.Context) (navigation.Screen, error) {
	userID, err := session.Require(ctx, s.gate)
	if err != nil {
		return "", err
	}

	var imageRef string
	if data, err := s.docs.Get(ctx, docstore.UserInfoDoc(userID)); err == nil {
		if p, err := record.DecodePerson(userID, data); err == nil {
			imageRef = p.ImageRef
		}
	}

	if err := s.docs.Delete(ctx, docstore.UserInfoDoc(userID)); err != nil {
		return "", apperr.Network(err)
	}
	if err := s.docs.Delete(ctx, docstore.TrailsDoc(userID)); err != nil {
		return "", apperr.Network(err)
	}

	if imageRef != "" {
		if err := s.images.Delete(ctx, imageRef); err != nil {
			s.logger.Warn("profile image not deleted", zap.String("key", imageRef), zap.Error(err))
		}
	}

	if err := s.provider.DeleteUser(ctx, userID); err != nil {
		s.logger.Error("auth account deletion failed", zap.String("user_id", userID), zap.Error(err))
		return "", retitle(err, "Account Deletion Error")
	}

	next := s.nav.For(userID).Dispatch(navigation.AccountDeleted)
	s.nav.Forget(userID)
	return next, nil
}

// retitle keeps auth failures as auth errors under the given dialog title.
func retitle(err error, title string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && errors.Is(err, apperr.ErrAuth) {
		return &apperr.Error{Kind: apperr.ErrAuth, Title: title, Message: appErr.Message, Err: appErr.Err}
	}
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Wrap(apperr.ErrAuth, title, err)
}

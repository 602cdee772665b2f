package account

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"backend-trailblazer/internal/apperr"
	"backend-trailblazer/internal/auth"
	"backend-trailblazer/internal/docstore"
	"backend-trailblazer/internal/navigation"
	"backend-trailblazer/internal/record"
	"backend-trailblazer/internal/session"
	"backend-trailblazer/internal/storage"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	signUpErr  error
	signInErr  error
	deleteErr  error
	signUps    int
	signedOut  []string
	deletedIDs []string
}

func (f *fakeProvider) SignUp(_ context.Context, email, _ string) (auth.Session, error) {
	f.signUps++
	if f.signUpErr != nil {
		return auth.Session{}, f.signUpErr
	}
	return auth.Session{UserID: "user-1", SessionID: "sess-1"}, nil
}

func (f *fakeProvider) SignIn(context.Context, string, string) (auth.Session, error) {
	if f.signInErr != nil {
		return auth.Session{}, f.signInErr
	}
	return auth.Session{UserID: "user-1", SessionID: "sess-2"}, nil
}

func (f *fakeProvider) SignOut(_ context.Context, sessionID string) error {
	f.signedOut = append(f.signedOut, sessionID)
	return nil
}

func (f *fakeProvider) DeleteUser(_ context.Context, userID string) error {
	f.deletedIDs = append(f.deletedIDs, userID)
	return f.deleteErr
}

type failingImages struct{ storage.Store }

func (failingImages) Put(context.Context, string, []byte, string) (string, error) {
	return "", errors.New("bucket unavailable")
}

// rotatingImages hands out a new URL on every call, like a presigner.
type rotatingImages struct {
	*storage.MemoryStore
	issued int
}

func (r *rotatingImages) URL(_ context.Context, key string) (string, error) {
	r.issued++
	return fmt.Sprintf("https://cdn.example/%s?v=%d", key, r.issued), nil
}

type harness struct {
	svc      *Service
	provider *fakeProvider
	docs     *docstore.MemoryStore
	images   *storage.MemoryStore
	nav      *navigation.Registry
}

func newHarness(userID string) *harness {
	h := &harness{
		provider: &fakeProvider{},
		docs:     docstore.NewMemoryStore(),
		images:   storage.NewMemoryStore(),
		nav:      navigation.NewRegistry(),
	}
	h.svc = NewService(h.provider, h.docs, h.images, session.StaticGate{UserID: userID}, h.nav, zap.NewNop())
	return h
}

func TestSignUpWritesProfileWithImage(t *testing.T) {
	h := newHarness("")
	nowFn = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { nowFn = time.Now })

	res, err := h.svc.SignUp(context.Background(), validSignUp(), &Image{Data: []byte("jpeg")})
	require.NoError(t, err)
	require.Equal(t, navigation.Profile, res.Next)
	require.Equal(t, "user-1", res.Profile.ID)
	require.Contains(t, res.Profile.ImageRef, "-2024-05-01T12:00:00Z.jpg")
	require.Equal(t, "mem://"+res.Profile.ImageRef, res.Profile.ImageURL)

	data, ok := h.images.Get(res.Profile.ImageRef)
	require.True(t, ok)
	require.Equal(t, []byte("jpeg"), data)

	stored, err := h.docs.Get(context.Background(), docstore.UserInfoDoc("user-1"))
	require.NoError(t, err)
	p, err := record.DecodePerson("user-1", stored)
	require.NoError(t, err)
	require.Equal(t, res.Profile, p)
}

func TestSignUpWithoutImageLeavesImageFieldsEmpty(t *testing.T) {
	h := newHarness("")
	res, err := h.svc.SignUp(context.Background(), validSignUp(), nil)
	require.NoError(t, err)
	require.Empty(t, res.Profile.ImageRef)
	require.Empty(t, res.Profile.ImageURL)
	require.Equal(t, 1, h.docs.Len())
}

func TestSignUpValidationSkipsProvider(t *testing.T) {
	h := newHarness("")
	in := validSignUp()
	in.Password = "short"
	_, err := h.svc.SignUp(context.Background(), in, nil)
	require.ErrorIs(t, err, apperr.ErrValidation)
	require.Zero(t, h.provider.signUps)
}

func TestSignUpAuthFailureIsRetitled(t *testing.T) {
	h := newHarness("")
	h.provider.signUpErr = apperr.New(apperr.ErrAuth, "Authentication Error", auth.MsgEmailInUse)

	_, err := h.svc.SignUp(context.Background(), validSignUp(), nil)
	require.ErrorIs(t, err, apperr.ErrAuth)
	d := apperr.DialogFor(err)
	require.Equal(t, "Sign-up Error", d.Title)
	require.Equal(t, auth.MsgEmailInUse, d.Message)
	require.Zero(t, h.docs.Len())
}

func TestSignUpImageFailureSkipsProfile(t *testing.T) {
	h := newHarness("")
	h.svc.images = failingImages{}

	_, err := h.svc.SignUp(context.Background(), validSignUp(), &Image{Data: []byte("jpeg")})
	require.ErrorIs(t, err, apperr.ErrImageUpload)
	require.Equal(t, "Image Upload Error", apperr.DialogFor(err).Title)
	require.Zero(t, h.docs.Len())
	// the auth account is not rolled back
	require.Equal(t, 1, h.provider.signUps)
	require.Empty(t, h.provider.deletedIDs)
}

func TestSignInNavigatesToProfile(t *testing.T) {
	h := newHarness("")
	res, err := h.svc.SignIn(context.Background(), LoginInput{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, navigation.Profile, res.Next)
	require.Equal(t, "sess-2", res.Session.SessionID)

	h.provider.signInErr = errors.New("no such user")
	_, err = h.svc.SignIn(context.Background(), LoginInput{Email: "ada@example.com", Password: "secret1"})
	require.ErrorIs(t, err, apperr.ErrAuth)
	require.Equal(t, "Login Error", apperr.DialogFor(err).Title)
}

func TestSignOutUsesContextSession(t *testing.T) {
	h := newHarness("user-1")
	h.nav.For("user-1").Dispatch(navigation.LoggedIn)

	ctx := session.WithIdentity(context.Background(), session.Identity{UserID: "user-1", SessionID: "sess-9"})
	next, err := h.svc.SignOut(ctx)
	require.NoError(t, err)
	require.Equal(t, navigation.LogIn, next)
	require.Equal(t, []string{"sess-9"}, h.provider.signedOut)
	require.Equal(t, navigation.LogIn, h.nav.For("user-1").Current())
}

func TestSignedOutCallsRequireSession(t *testing.T) {
	h := newHarness("")
	_, err := h.svc.SignOut(context.Background())
	require.ErrorIs(t, err, apperr.ErrSessionExpired)
	_, err = h.svc.DeleteAccount(context.Background())
	require.ErrorIs(t, err, apperr.ErrSessionExpired)
	_, err = h.svc.Profile(context.Background())
	require.ErrorIs(t, err, apperr.ErrSessionExpired)
	require.Empty(t, h.provider.deletedIDs)
}

func seedAccount(t *testing.T, h *harness) {
	t.Helper()
	ctx := context.Background()
	_, err := h.svc.SignUp(ctx, validSignUp(), &Image{Data: []byte("jpeg")})
	require.NoError(t, err)
	_, err = h.docs.Add(ctx, docstore.TrailDataCollection("user-1"), record.EncodeTrail(record.Trail{ID: "42", Name: "Ridge"}))
	require.NoError(t, err)
}

func TestDeleteAccountRemovesEverything(t *testing.T) {
	h := newHarness("user-1")
	seedAccount(t, h)

	next, err := h.svc.DeleteAccount(context.Background())
	require.NoError(t, err)
	require.Equal(t, navigation.LogIn, next)
	require.Zero(t, h.docs.Len())
	require.Equal(t, []string{"user-1"}, h.provider.deletedIDs)
}

func TestDeleteAccountRemovesDocsEvenIfAuthDeleteFails(t *testing.T) {
	h := newHarness("user-1")
	seedAccount(t, h)
	h.provider.deleteErr = errors.New("requires recent login")

	_, err := h.svc.DeleteAccount(context.Background())
	require.ErrorIs(t, err, apperr.ErrAuth)
	require.Equal(t, "Account Deletion Error", apperr.DialogFor(err).Title)

	_, err = h.docs.Get(context.Background(), docstore.UserInfoDoc("user-1"))
	require.ErrorIs(t, err, docstore.ErrNotFound)
	docs, err := h.docs.List(context.Background(), docstore.TrailDataCollection("user-1"))
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestProfile(t *testing.T) {
	h := newHarness("user-1")
	_, err := h.svc.Profile(context.Background())
	require.Error(t, err)

	seedAccount(t, h)
	p, err := h.svc.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Ada", p.FirstName)

	require.NoError(t, h.docs.Set(context.Background(), docstore.UserInfoDoc("user-1"), record.Record{"lastName": "x"}))
	_, err = h.svc.Profile(context.Background())
	require.ErrorIs(t, err, apperr.ErrMalformedRecord)
}

func TestProfileIssuesFreshImageURL(t *testing.T) {
	h := newHarness("user-1")
	images := &rotatingImages{MemoryStore: h.images}
	h.svc.images = images

	res, err := h.svc.SignUp(context.Background(), validSignUp(), &Image{Data: []byte("jpeg")})
	require.NoError(t, err)
	require.Equal(t, "mem://"+res.Profile.ImageRef, res.Profile.ImageURL)

	p, err := h.svc.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/"+res.Profile.ImageRef+"?v=1", p.ImageURL)

	p, err = h.svc.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/"+res.Profile.ImageRef+"?v=2", p.ImageURL)
}

func TestProfileKeepsStoredURLWhenRefreshFails(t *testing.T) {
	h := newHarness("user-1")
	seedAccount(t, h)
	stored, err := h.docs.Get(context.Background(), docstore.UserInfoDoc("user-1"))
	require.NoError(t, err)
	ref := stored["imageRef"].(string)
	require.NoError(t, h.images.Delete(context.Background(), ref))

	p, err := h.svc.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "mem://"+ref, p.ImageURL)
}

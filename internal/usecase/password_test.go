package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teerapatc/storefront-auth/internal/model"
	"github.com/teerapatc/storefront-auth/shared/auth"
	"github.com/teerapatc/storefront-auth/shared/security"
)

type passwordFixture struct {
	users    *fakeUserRepo
	notifier *recordingNotifier
	jwtAuth  auth.JWTAuthenticator

	password PasswordUsecase
}

func newPasswordFixture(t *testing.T) *passwordFixture {
	t.Helper()

	users := newFakeUserRepo()
	notifier := &recordingNotifier{}
	jwtAuth := auth.NewJWTAuthenticator("storefront-auth", "storefront-auth")
	logger := zerolog.Nop()

	return &passwordFixture{
		users:    users,
		notifier: notifier,
		jwtAuth:  jwtAuth,
		password: NewPasswordUsecase(users, jwtAuth, notifier, testTokenConfig(), &logger),
	}
}

func (f *passwordFixture) seedLocalUser(t *testing.T, password string) *model.User {
	t.Helper()

	hash, err := security.HashPassword(password)
	require.NoError(t, err)

	return f.users.seed(&model.User{
		FirstName:     "Nina",
		LastName:      "Srisuk",
		Username:      "nina",
		Email:         "nina@example.com",
		PasswordHash:  hash,
		Role:          "buyer",
		RegisteredVia: model.RegisteredViaLocal,
		Verified:      true,
	})
}

func TestRequestResetUnknownIdentifier(t *testing.T) {
	f := newPasswordFixture(t)

	err := f.password.RequestReset(context.Background(), "ghost@example.com")
	requireAppError(t, err, http.StatusNotFound, "User not found!")
	assert.Empty(t, f.notifier.resetTokens)
}

func TestResetPasswordFlow(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.seedLocalUser(t, "Sup3rSecret")

	require.NoError(t, f.password.RequestReset(context.Background(), "nina"))
	require.Len(t, f.notifier.resetTokens, 1)
	token := f.notifier.resetTokens[0]

	claims, err := f.jwtAuth.VerifyUserToken(token, testTokenConfig().PasswordResetTokenSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)

	require.NoError(t, f.password.ResetPassword(context.Background(), token, "N3wSecret", "N3wSecret"))

	stored, err := f.users.GetUser(context.Background(), user.ID.Hex())
	require.NoError(t, err)

	ok, err := security.VerifyPassword("N3wSecret", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResetPasswordMismatchBeforeTokenCheck(t *testing.T) {
	f := newPasswordFixture(t)

	// A garbage token with mismatched passwords reports the mismatch, proving
	// the confirmation runs first.
	err := f.password.ResetPassword(context.Background(), "garbage", "N3wSecret", "Different")
	requireAppError(t, err, http.StatusNotFound, "Passwords do not match!")
}

func TestResetPasswordInvalidToken(t *testing.T) {
	f := newPasswordFixture(t)

	err := f.password.ResetPassword(context.Background(), "garbage", "N3wSecret", "N3wSecret")
	requireAppError(t, err, http.StatusUnauthorized, "Invalid or expired token!")
}

func TestResetPasswordWrongTokenKind(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.seedLocalUser(t, "Sup3rSecret")

	accessToken, err := f.jwtAuth.SignUserToken(
		user.ID.Hex(),
		testTokenConfig().AccessTokenSecret,
		testTokenConfig().AccessTokenExpiresIn,
	)
	require.NoError(t, err)

	err = f.password.ResetPassword(context.Background(), accessToken, "N3wSecret", "N3wSecret")
	requireAppError(t, err, http.StatusUnauthorized, "Invalid or expired token!")
}

func TestResetPasswordDeletedUser(t *testing.T) {
	f := newPasswordFixture(t)

	token, err := f.jwtAuth.SignUserToken(
		"64f000000000000000000001",
		testTokenConfig().PasswordResetTokenSecret,
		testTokenConfig().PasswordResetTokenExpiresIn,
	)
	require.NoError(t, err)

	err = f.password.ResetPassword(context.Background(), token, "N3wSecret", "N3wSecret")
	requireAppError(t, err, http.StatusNotFound, "User not found!")
}

func TestChangePassword(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.seedLocalUser(t, "Sup3rSecret")

	err := f.password.ChangePassword(context.Background(), user.ID.Hex(), "Sup3rSecret", "N3wSecret", "N3wSecret")
	require.NoError(t, err)

	stored, err := f.users.GetUser(context.Background(), user.ID.Hex())
	require.NoError(t, err)

	ok, err := security.VerifyPassword("N3wSecret", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChangePasswordMismatch(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.seedLocalUser(t, "Sup3rSecret")

	err := f.password.ChangePassword(context.Background(), user.ID.Hex(), "Sup3rSecret", "N3wSecret", "Different")
	requireAppError(t, err, http.StatusBadRequest, "Passwords do not match!")
}

func TestChangePasswordSameAsOld(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.seedLocalUser(t, "Sup3rSecret")

	err := f.password.ChangePassword(context.Background(), user.ID.Hex(), "Sup3rSecret", "Sup3rSecret", "Sup3rSecret")
	requireAppError(t, err, http.StatusBadRequest, "New password must be different from the old one!")
}

func TestChangePasswordWrongOld(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.seedLocalUser(t, "Sup3rSecret")

	err := f.password.ChangePassword(context.Background(), user.ID.Hex(), "wrong", "N3wSecret", "N3wSecret")
	requireAppError(t, err, http.StatusUnauthorized, "Invalid old password!")
}

func TestChangePasswordFederatedAccountSkipsOldCheck(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.users.seed(&model.User{
		Username:      "fed",
		Email:         "fed@example.com",
		RegisteredVia: model.RegisteredViaGoogle,
		Verified:      true,
	})

	// No local password yet, so whatever is supplied as the old password is
	// ignored.
	err := f.password.ChangePassword(context.Background(), user.ID.Hex(), "ignored", "N3wSecret", "N3wSecret")
	require.NoError(t, err)

	stored, err := f.users.GetUser(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, stored.HasLocalPassword())
}

func TestHasNoPassword(t *testing.T) {
	f := newPasswordFixture(t)
	local := f.seedLocalUser(t, "Sup3rSecret")
	federated := f.users.seed(&model.User{
		Username:      "fed",
		Email:         "fed@example.com",
		RegisteredVia: model.RegisteredViaGoogle,
	})

	hasNone, err := f.password.HasNoPassword(context.Background(), local.ID.Hex())
	require.NoError(t, err)
	assert.False(t, hasNone)

	hasNone, err = f.password.HasNoPassword(context.Background(), federated.ID.Hex())
	require.NoError(t, err)
	assert.True(t, hasNone)

	_, err = f.password.HasNoPassword(context.Background(), "64f000000000000000000001")
	requireAppError(t, err, http.StatusNotFound, "User not found!")
}

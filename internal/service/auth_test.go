package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zh-Andrew/foodgram-project-react/internal/apperr"
	"github.com/Zh-Andrew/foodgram-project-react/internal/service"
	"github.com/Zh-Andrew/foodgram-project-react/internal/testhelpers"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")

	user, token, err := auth.Register("ann@example.com", "ann", "Ann", "Smith", "password123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ann", user.Username)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "password123", user.PasswordHash)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ann", claims.Username)

	loginToken, err := auth.Login("ann@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)

	_, err = auth.Login("ann@example.com", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = auth.Login("nobody@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")

	tests := []struct {
		name                                          string
		email, username, firstName, lastName, passwd string
		field                                         string
	}{
		{"missing email", "", "ann", "Ann", "Smith", "password123", "email"},
		{"missing username", "ann@example.com", "", "Ann", "Smith", "password123", "username"},
		{"reserved username", "ann@example.com", "me", "Ann", "Smith", "password123", "username"},
		{"reserved username uppercase", "ann@example.com", "Me", "Ann", "Smith", "password123", "username"},
		{"missing first name", "ann@example.com", "ann", "", "Smith", "password123", "first_name"},
		{"missing last name", "ann@example.com", "ann", "Ann", "", "password123", "last_name"},
		{"short password", "ann@example.com", "ann", "Ann", "Smith", "short", "password"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := auth.Register(tc.email, tc.username, tc.firstName, tc.lastName, tc.passwd)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Fields, tc.field)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")

	_, _, err := auth.Register("ann@example.com", "ann", "Ann", "Smith", "password123")
	require.NoError(t, err)

	_, _, err = auth.Register("ann@example.com", "other", "Ann", "Smith", "password123")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, _, err = auth.Register("other@example.com", "ann", "Ann", "Smith", "password123")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestValidateTokenRejectsForged(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")
	forger := service.NewAuthService(db, "other-secret")

	_, token, err := forger.Register("eve@example.com", "eve", "Eve", "Adams", "password123")
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)

	_, err = auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestGetUser(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")

	user, _, err := auth.Register("ann@example.com", "ann", "Ann", "Smith", "password123")
	require.NoError(t, err)

	got, err := auth.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann", got.Username)

	_, err = auth.GetUser(user.ID + 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gopher0727/InviteShare/internal/utils"
	jwtutils "github.com/Gopher0727/InviteShare/pkg/utils"
)

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-admin")
	require.NoError(t, err)
	svc := NewAuthService(hash)

	token, err := svc.Login("s3cret-admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtutils.ParseAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin", claims.Subject)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-admin")
	require.NoError(t, err)
	svc := NewAuthService(hash)

	_, err = svc.Login("guess")
	assert.ErrorIs(t, err, ErrPasswordIncorrect)
}

func TestLogin_NotConfigured(t *testing.T) {
	svc := NewAuthService("")

	_, err := svc.Login("anything")
	assert.ErrorIs(t, err, ErrAdminNotConfigured)
}

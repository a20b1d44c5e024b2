package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	user := &User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, user.SetPassword("correct horse battery"))
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("correct horse battery"))
	assert.Error(t, user.CheckPassword("wrong password"))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
}

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yatube/internal/auth"
	"yatube/internal/model"
)

func TestSetPassword_CheckPassword(t *testing.T) {
	user := &model.User{Username: "auth"}
	auth.SetPassword(user, "s3cret")

	assert.NotEmpty(t, user.PassSalt)
	assert.NotEmpty(t, user.PasswordHash)
	assert.True(t, auth.CheckPassword(user, "s3cret"))
	assert.False(t, auth.CheckPassword(user, "wrong"))
}

func TestSetPassword_FreshSaltPerUser(t *testing.T) {
	first := &model.User{Username: "first"}
	second := &model.User{Username: "second"}

	auth.SetPassword(first, "same-password")
	auth.SetPassword(second, "same-password")

	assert.NotEqual(t, first.PassSalt, second.PassSalt)
	assert.NotEqual(t, first.PasswordHash, second.PasswordHash)
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	user := &model.User{Username: "auth"}

	assert.False(t, auth.CheckPassword(user, ""))
}

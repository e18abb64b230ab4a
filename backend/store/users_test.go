package store

import (
	"testing"

	"classroom/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	users := NewUsers(openTestDB(t))

	user, err := users.Create("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	users := NewUsers(openTestDB(t))

	_, err := users.Create("alice", "password123")
	require.NoError(t, err)

	_, err = users.Create("alice", "otherpass")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// The failed signup must not have mutated the store.
	var count int64
	users.DB.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateUserValidation(t *testing.T) {
	users := NewUsers(openTestDB(t))

	_, err := users.Create("", "password123")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = users.Create("alice", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEnsureTeacher(t *testing.T) {
	users := NewUsers(openTestDB(t))

	require.NoError(t, users.EnsureTeacher("teacher", "teacherpass"))

	teacher, err := users.FindByUsername("teacher")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, teacher.Role)

	// Idempotent: a second bootstrap does not duplicate or overwrite.
	require.NoError(t, users.EnsureTeacher("teacher", "differentpass"))

	var count int64
	users.DB.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)

	same, err := users.FindByUsername("teacher")
	require.NoError(t, err)
	assert.Equal(t, teacher.PasswordHash, same.PasswordHash)
}

func TestFindByUsernameMissing(t *testing.T) {
	users := NewUsers(openTestDB(t))

	_, err := users.FindByUsername("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

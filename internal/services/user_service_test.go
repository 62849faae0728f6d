package services_test

import (
	"strings"
	"testing"

	"kasir/internal/models"
	"kasir/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_AddUser(t *testing.T) {
	term := newTerminal(t)
	service := services.NewUserService(term.users, adminSession(), services.PlainHasher{})

	created, err := service.AddUser(models.User{Username: " siti ", Password: "secret1", Name: "Siti"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "USR"))
	assert.Equal(t, "siti", created.Username)
	assert.Equal(t, models.RoleCashier, created.Role)
	assert.Empty(t, created.Password)
	assert.False(t, created.CreatedAt.IsZero())

	stored, err := term.users.GetByUsername("siti")
	require.NoError(t, err)
	assert.Equal(t, "secret1", stored.Password)

	_, err = service.AddUser(models.User{Username: "siti", Password: "another", Name: "Siti Two"})
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)
	assert.ErrorIs(t, err, models.ErrDuplicateKey)

	users, err := service.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserService_AddUser_Validation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, adminSession(), services.PlainHasher{})

	cases := map[string]models.User{
		"short username": {Username: "ab", Password: "secret1", Name: "Ab"},
		"short password": {Username: "abc", Password: "12345", Name: "Abc"},
		"missing name":   {Username: "abc", Password: "secret1"},
		"unknown role":   {Username: "abc", Password: "secret1", Name: "Abc", Role: "owner"},
	}
	for name, user := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := service.AddUser(user)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUserService_RequiresAdmin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, cashierSession(), services.PlainHasher{})

	_, err := service.AddUser(models.User{Username: "siti", Password: "secret1", Name: "Siti"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = service.ListUsers()
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	err = service.DeleteUser("USR1")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	noSession := services.NewUserService(mockRepo, stubSessions{}, services.PlainHasher{})
	_, err = noSession.ListUsers()
	assert.ErrorIs(t, err, models.ErrNoSession)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestUserService_DeleteUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, adminSession(), services.PlainHasher{})

	mockRepo.On("Delete", "USR1").Return(nil).Once()
	assert.NoError(t, service.DeleteUser("USR1"))

	err := service.DeleteUser(models.BootstrapAdminID)
	assert.ErrorIs(t, err, models.ErrProtected)

	cashierOnly := services.NewUserService(mockRepo, cashierSession(), services.PlainHasher{})
	err = cashierOnly.DeleteUser(models.BootstrapAdminID)
	assert.ErrorIs(t, err, models.ErrProtected, "protection is checked before the role")
	mockRepo.AssertExpectations(t)
}

func TestUserService_EnsureBootstrapAdmin(t *testing.T) {
	term := newTerminal(t)
	service := services.NewUserService(term.users, stubSessions{}, services.PlainHasher{})
	admin := models.User{Username: "admin", Password: "admin1234", Name: "Administrator"}

	require.NoError(t, service.EnsureBootstrapAdmin(admin))
	require.NoError(t, service.EnsureBootstrapAdmin(admin))

	stored, err := term.users.GetByID(models.BootstrapAdminID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, stored.Role)
	all, err := term.users.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

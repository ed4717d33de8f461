package application

import (
	"errors"
	"testing"
	"time"

	"github.com/safelive/backend/internal/api/middleware"
	"github.com/safelive/backend/internal/domain/user"
	"github.com/safelive/backend/pkg/apperr"
	"github.com/stretchr/testify/assert"
)

func stubGenerateToken(t *testing.T) {
	t.Helper()
	oldGen := middleware.GenerateToken
	middleware.GenerateToken = func(u user.User, _ time.Duration) (string, error) {
		return "token123", nil
	}
	t.Cleanup(func() { middleware.GenerateToken = oldGen })
}

// --------------------- Register ---------------------

func TestRegister_CitizenSuccess(t *testing.T) {
	svc, _ := setupServices(t)
	stubGenerateToken(t)

	result, err := svc.Auth.Register(user.RegisterInput{
		Name:     "Asha",
		Email:    ptrString("asha@example.com"),
		Password: "secret123",
	})
	assert.NoError(t, err)
	assert.Equal(t, "token123", result.Token)
	assert.Equal(t, string(user.TypeCitizen), result.User.UserType)
}

func TestRegister_RequiresEmailOrPhone(t *testing.T) {
	svc, _ := setupServices(t)

	_, err := svc.Auth.Register(user.RegisterInput{Name: "Asha", Password: "secret123"})
	assert.Contains(t, apperr.FieldsOf(err), "email")
}

func TestRegister_OfficialRequiresDepartment(t *testing.T) {
	svc, _ := setupServices(t)

	_, err := svc.Auth.Register(user.RegisterInput{
		Name:     "Rao",
		Email:    ptrString("rao@example.com"),
		Password: "secret123",
		UserType: "official",
	})
	assert.Contains(t, apperr.FieldsOf(err), "department")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := setupServices(t)
	stubGenerateToken(t)

	input := user.RegisterInput{
		Name:     "Asha",
		Email:    ptrString("asha@example.com"),
		Password: "secret123",
	}
	_, err := svc.Auth.Register(input)
	assert.NoError(t, err)

	_, err = svc.Auth.Register(input)
	assert.Equal(t, ErrUserExists, err)
}

// --------------------- Login ---------------------

func TestLogin_SuccessAndBadPassword(t *testing.T) {
	svc, _ := setupServices(t)
	stubGenerateToken(t)

	_, err := svc.Auth.Register(user.RegisterInput{
		Name:     "Asha",
		Email:    ptrString("asha@example.com"),
		Password: "secret123",
	})
	assert.NoError(t, err)

	result, err := svc.Auth.Login(user.LoginInput{Email: ptrString("asha@example.com"), Password: "secret123"})
	assert.NoError(t, err)
	assert.Equal(t, "token123", result.Token)

	_, err = svc.Auth.Login(user.LoginInput{Email: ptrString("asha@example.com"), Password: "wrong"})
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := setupServices(t)

	_, err := svc.Auth.Login(user.LoginInput{Email: ptrString("nobody@example.com"), Password: "x"})
	assert.Equal(t, ErrInvalidCredentials, err)
}

// --------------------- Password reset ---------------------

func TestPasswordReset_RoundTrip(t *testing.T) {
	svc, _ := setupServices(t)
	stubGenerateToken(t)

	_, err := svc.Auth.Register(user.RegisterInput{
		Name:     "Asha",
		Email:    ptrString("asha@example.com"),
		Password: "secret123",
	})
	assert.NoError(t, err)

	token, err := svc.Auth.ForgotPassword(user.ForgotPasswordInput{Email: ptrString("asha@example.com")})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	err = svc.Auth.ResetPassword(user.ResetPasswordInput{Token: token, Password: "newsecret456"})
	assert.NoError(t, err)

	_, err = svc.Auth.Login(user.LoginInput{Email: ptrString("asha@example.com"), Password: "newsecret456"})
	assert.NoError(t, err)
	_, err = svc.Auth.Login(user.LoginInput{Email: ptrString("asha@example.com"), Password: "secret123"})
	assert.Equal(t, ErrInvalidCredentials, err)

	// Single use.
	err = svc.Auth.ResetPassword(user.ResetPasswordInput{Token: token, Password: "another789"})
	assert.NotNil(t, apperr.FieldsOf(err))
}

func TestForgotPassword_UnknownAccountIsOpaque(t *testing.T) {
	svc, _ := setupServices(t)

	token, err := svc.Auth.ForgotPassword(user.ForgotPasswordInput{Email: ptrString("ghost@example.com")})
	assert.NoError(t, err)
	assert.Empty(t, token)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	svc, _ := setupServices(t)

	err := svc.Auth.ResetPassword(user.ResetPasswordInput{Token: "bogus", Password: "whatever123"})
	assert.True(t, errors.As(err, new(*apperr.ValidationError)))
}

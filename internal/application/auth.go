package application

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/safelive/backend/internal/api/middleware"
	"github.com/safelive/backend/internal/config"
	"github.com/safelive/backend/internal/domain/user"
	"github.com/safelive/backend/internal/repository"
	"github.com/safelive/backend/pkg/apperr"
	"github.com/safelive/backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

var (
	phonePattern   = regexp.MustCompile(`^[0-9]{10,15}$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
)

const tokenLifetime = 24 * time.Hour

type AuthService struct {
	Repos *repository.Repos
}

func NewAuthService(repos *repository.Repos) *AuthService {
	return &AuthService{Repos: repos}
}

// AuthResult is the login/register payload: token plus sanitized user.
type AuthResult struct {
	Token string   `json:"token"`
	User  user.DTO `json:"user"`
}

func (s *AuthService) Register(input user.RegisterInput) (AuthResult, error) {
	verr := apperr.NewValidation()
	if input.Email == nil && input.Phone == nil {
		verr.Add("email", "email or phone required")
	}
	if input.Phone != nil && !phonePattern.MatchString(*input.Phone) {
		verr.Add("phone", "phone must be 10-15 digits")
	}
	if input.Pincode != nil && !pincodePattern.MatchString(*input.Pincode) {
		verr.Add("pincode", "pincode must be 6 digits")
	}

	role := user.UserType(input.UserType)
	if role == "" {
		role = user.TypeCitizen
	}
	if role == user.TypeOfficial || role == user.TypeHeadSupervisor {
		if input.Department == nil || *input.Department == "" {
			verr.Add("department", "department is required for officials")
		}
	}
	if err := verr.OrNil(); err != nil {
		return AuthResult{}, err
	}

	if input.Email != nil {
		if _, err := s.Repos.User.GetUserByEmail(*input.Email); err == nil {
			return AuthResult{}, ErrUserExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResult{}, err
		}
	}
	if input.Phone != nil {
		if _, err := s.Repos.User.GetUserByPhone(*input.Phone); err == nil {
			return AuthResult{}, ErrUserExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResult{}, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	u := user.User{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Password:   string(hashed),
		UserType:   role,
		Department: input.Department,
		Address:    input.Address,
		Pincode:    input.Pincode,
	}
	if err := s.Repos.User.SaveUser(&u); err != nil {
		return AuthResult{}, err
	}

	token, err := middleware.GenerateToken(u, tokenLifetime)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: user.ToDTO(u)}, nil
}

func (s *AuthService) Login(input user.LoginInput) (AuthResult, error) {
	var u user.User
	var err error
	switch {
	case input.Email != nil:
		u, err = s.Repos.User.GetUserByEmail(*input.Email)
	case input.Phone != nil:
		u, err = s.Repos.User.GetUserByPhone(*input.Phone)
	default:
		return AuthResult{}, apperr.NewValidation().Add("email", "email or phone required")
	}
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(input.Password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := middleware.GenerateToken(u, tokenLifetime)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: user.ToDTO(u)}, nil
}

// ForgotPassword creates a reset token. The response is deliberately
// opaque: it never reveals whether the account exists.
func (s *AuthService) ForgotPassword(input user.ForgotPasswordInput) (string, error) {
	if input.Email == nil && input.Phone == nil {
		return "", apperr.NewValidation().Add("email", "email or phone required")
	}

	var u user.User
	var err error
	if input.Email != nil {
		u, err = s.Repos.User.GetUserByEmail(*input.Email)
	} else {
		u, err = s.Repos.User.GetUserByPhone(*input.Phone)
	}
	if err != nil || u.Email == nil {
		// Same message as the success path.
		return "", nil
	}

	reset := user.PasswordReset{
		Email:     *u.Email,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().UTC().Add(time.Duration(config.ResetTokenTTLMinute) * time.Minute),
	}
	if err := s.Repos.User.CreatePasswordReset(&reset); err != nil {
		return "", err
	}

	// Delivery (email/SMS) is an external collaborator; the link is logged
	// for operators until one is wired up.
	logger.WithComponent("auth").Infof("password reset link issued: %s/reset-password?token=%s",
		config.PublicBaseURL, reset.Token)
	return reset.Token, nil
}

func (s *AuthService) ResetPassword(input user.ResetPasswordInput) error {
	reset, err := s.Repos.User.GetActivePasswordReset(input.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewValidation().Add("token", "invalid or expired token")
		}
		return err
	}

	u, err := s.Repos.User.GetUserByEmail(reset.Email)
	if err != nil {
		return apperr.ErrNotFound
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)

	return s.Repos.ExecTx(func(tx *repository.Repos) error {
		if err := tx.User.SaveUser(&u); err != nil {
			return err
		}
		return tx.User.MarkPasswordResetUsed(reset.ID)
	})
}

// VerifyEmail flags the address as confirmed. Unknown addresses are a
// no-op so the endpoint does not leak which accounts exist.
func (s *AuthService) VerifyEmail(input user.VerifyEmailInput) error {
	return s.Repos.User.MarkEmailVerified(input.Email)
}

package application

import (
	"errors"

	"github.com/safelive/backend/internal/domain/user"
	"github.com/safelive/backend/internal/repository"
	"github.com/safelive/backend/pkg/apperr"
	"gorm.io/gorm"
)

// UserService covers the self-service account surface. Role and
// department are deliberately not editable here.
type UserService struct {
	Repos *repository.Repos
}

func NewUserService(repos *repository.Repos) *UserService {
	return &UserService{Repos: repos}
}

func (s *UserService) Profile(session Session) (user.DTO, error) {
	u, err := s.Repos.User.GetUserByID(session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.DTO{}, apperr.ErrNotFound
		}
		return user.DTO{}, err
	}
	return user.ToDTO(u), nil
}

func (s *UserService) UpdateProfile(session Session, input user.UpdateProfileInput) (user.DTO, error) {
	verr := apperr.NewValidation()
	if input.Phone != nil && !phonePattern.MatchString(*input.Phone) {
		verr.Add("phone", "phone must be 10-15 digits")
	}
	if input.Pincode != nil && !pincodePattern.MatchString(*input.Pincode) {
		verr.Add("pincode", "pincode must be 6 digits")
	}
	if err := verr.OrNil(); err != nil {
		return user.DTO{}, err
	}

	u, err := s.Repos.User.GetUserByID(session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.DTO{}, apperr.ErrNotFound
		}
		return user.DTO{}, err
	}

	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Email != nil && (u.Email == nil || *input.Email != *u.Email) {
		u.Email = input.Email
		// A new address needs verifying again.
		u.EmailVerified = false
	}
	if input.Phone != nil {
		u.Phone = input.Phone
	}
	if input.Address != nil {
		u.Address = input.Address
	}
	if input.Pincode != nil {
		u.Pincode = input.Pincode
	}

	if err := s.Repos.User.SaveUser(&u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.DTO{}, ErrUserExists
		}
		return user.DTO{}, err
	}
	return user.ToDTO(u), nil
}

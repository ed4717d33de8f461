package application

import "github.com/safelive/backend/internal/domain/user"

// Session is the authenticated-caller capability handed to every service
// operation. Services never read request context or global auth state.
type Session struct {
	UserID     uint
	Name       string
	Role       user.UserType
	Department *string
	Email      *string
	Phone      *string
}

func (s Session) IsOfficial() bool {
	return s.Role.IsOfficial()
}

func (s Session) IsCitizen() bool {
	return s.Role == user.TypeCitizen
}

package user

import "time"

type UserType string

const (
	TypeCitizen        UserType = "citizen"
	TypeOfficial       UserType = "official"
	TypeHeadSupervisor UserType = "head_supervisor"
	TypeAdmin          UserType = "admin"
)

// IsOfficial reports whether the role can triage incidents and work
// tickets. Head supervisors are officials with the extra reopen privilege.
func (t UserType) IsOfficial() bool {
	return t == TypeOfficial || t == TypeHeadSupervisor || t == TypeAdmin
}

func (t UserType) CanReopen() bool {
	return t == TypeHeadSupervisor
}

type User struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	Name       string   `gorm:"size:100;not null" json:"name"`
	Email      *string  `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Phone      *string  `gorm:"size:20;uniqueIndex" json:"phone,omitempty"`
	Password   string   `gorm:"size:255;not null" json:"-"`
	UserType   UserType `gorm:"size:20;not null;default:'citizen';index" json:"userType"`
	Department *string  `gorm:"size:30" json:"department,omitempty"`
	Address    *string  `gorm:"size:500" json:"address,omitempty"`
	Pincode    *string  `gorm:"size:6" json:"pincode,omitempty"`

	EmailVerified bool `gorm:"not null;default:false" json:"emailVerified"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// PasswordReset is a single-use, expiring token row backing the
// forgot-password flow.
type PasswordReset struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Email     string     `gorm:"size:255;not null;index" json:"email"`
	Token     string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	Used      bool       `gorm:"not null;default:false" json:"used"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}

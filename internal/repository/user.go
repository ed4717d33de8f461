package repository

import (
	"time"

	"github.com/safelive/backend/internal/domain/user"
	"gorm.io/gorm"
)

type UserRepo interface {
	GetUserByID(id uint) (user.User, error)
	GetUserByEmail(email string) (user.User, error)
	GetUserByPhone(phone string) (user.User, error)
	SaveUser(u *user.User) error
	MarkEmailVerified(email string) error
	ListOfficialsByDepartment(department string) ([]user.User, error)

	CreatePasswordReset(reset *user.PasswordReset) error
	GetActivePasswordReset(token string) (user.PasswordReset, error)
	MarkPasswordResetUsed(id uint) error

	WithTx(tx *gorm.DB) UserRepo
}

type DBUserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *DBUserRepo {
	return &DBUserRepo{db: db}
}

func (r *DBUserRepo) GetUserByID(id uint) (user.User, error) {
	var u user.User
	err := r.db.First(&u, id).Error
	return u, err
}

func (r *DBUserRepo) GetUserByEmail(email string) (user.User, error) {
	var u user.User
	err := r.db.Where("email = ?", email).First(&u).Error
	return u, err
}

func (r *DBUserRepo) GetUserByPhone(phone string) (user.User, error) {
	var u user.User
	err := r.db.Where("phone = ?", phone).First(&u).Error
	return u, err
}

func (r *DBUserRepo) SaveUser(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *DBUserRepo) MarkEmailVerified(email string) error {
	return r.db.Model(&user.User{}).
		Where("email = ?", email).
		Update("email_verified", true).Error
}

// ListOfficialsByDepartment returns the officials (head supervisors
// included) notified when an incident lands in their department.
func (r *DBUserRepo) ListOfficialsByDepartment(department string) ([]user.User, error) {
	var users []user.User
	err := r.db.
		Where("user_type IN ?", []string{string(user.TypeOfficial), string(user.TypeHeadSupervisor)}).
		Where("department = ?", department).
		Find(&users).Error
	return users, err
}

func (r *DBUserRepo) CreatePasswordReset(reset *user.PasswordReset) error {
	return r.db.Create(reset).Error
}

func (r *DBUserRepo) GetActivePasswordReset(token string) (user.PasswordReset, error) {
	var reset user.PasswordReset
	err := r.db.
		Where("token = ? AND used = ? AND expires_at >= ?", token, false, time.Now().UTC()).
		First(&reset).Error
	return reset, err
}

func (r *DBUserRepo) MarkPasswordResetUsed(id uint) error {
	now := time.Now().UTC()
	return r.db.Model(&user.PasswordReset{}).
		Where("id = ?", id).
		Updates(map[string]any{"used": true, "used_at": now}).Error
}

func (r *DBUserRepo) WithTx(tx *gorm.DB) UserRepo {
	if tx == nil {
		return r
	}
	return &DBUserRepo{db: tx}
}

package db

import (
	"fmt"

	"github.com/safelive/backend/internal/config"
	"github.com/safelive/backend/internal/domain/incident"
	"github.com/safelive/backend/internal/domain/message"
	"github.com/safelive/backend/internal/domain/notification"
	"github.com/safelive/backend/internal/domain/ticket"
	"github.com/safelive/backend/internal/domain/user"
	"github.com/safelive/backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DbHost,
		config.DbPort,
		config.DbUser,
		config.DbPassword,
		config.DbName,
	)

	var err error
	// TranslateError turns driver duplicate-key errors into
	// gorm.ErrDuplicatedKey, which ticket derivation relies on for
	// idempotence.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.WithComponent("db").Fatalf("failed to connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		logger.WithComponent("db").Fatalf("failed to migrate database: %v", err)
	}

	logger.WithComponent("db").Info("database connected and migrated")
}

func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&user.User{},
		&user.PasswordReset{},
		&incident.Incident{},
		&ticket.Ticket{},
		&notification.Notification{},
		&message.Message{},
	)
}

// InitWithGormDB swaps in an externally created connection (tests).
func InitWithGormDB(gormDB *gorm.DB) {
	DB = gormDB
}

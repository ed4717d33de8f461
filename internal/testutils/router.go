package testutils

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/safelive/backend/internal/api/handlers"
	"github.com/safelive/backend/internal/api/routes"
	"github.com/safelive/backend/internal/application"
	"github.com/safelive/backend/internal/config/db"
	"github.com/safelive/backend/internal/feed"
	"github.com/safelive/backend/internal/repository"
	"gorm.io/gorm"
)

// FakePhotoStore satisfies storage.PhotoStore without an object store.
type FakePhotoStore struct {
	uploads int
}

func (f *FakePhotoStore) StorePhoto(_ context.Context, data string) (string, error) {
	if data == "" {
		return "", fmt.Errorf("bad image data")
	}
	f.uploads++
	return fmt.Sprintf("http://photos.test/object-%d", f.uploads), nil
}

// SetupRouter wires the full HTTP surface against a throwaway sqlite
// database.
func SetupRouter(t *testing.T) (*gin.Engine, *repository.Repos) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "safelive.sqlite")
	gdb, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	repos := repository.NewRepositories(gdb)
	services := application.New(repos, &FakePhotoStore{}, feed.NewHub())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	routes.RegisterRoutes(r, handlers.New(services))
	return r, repos
}

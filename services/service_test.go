package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"p9e.in/cqms/config"
	"p9e.in/cqms/filestore"
	"p9e.in/cqms/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrations(db))

	t.Cleanup(func() { config.Close(db) })
	return db
}

func newTestStore(t *testing.T) *filestore.Local {
	t.Helper()
	return filestore.NewLocal(t.TempDir())
}

func seedProject(t *testing.T, db *gorm.DB, store filestore.Store) *models.Project {
	t.Helper()

	svc := NewProjectService(db, store)
	project, err := svc.Create(context.Background(), ProjectInput{
		Name:           "Riverside Bridge Rehabilitation",
		ContractNumber: "CT-2024-001",
		Contractor:     "Evergreen Engineering",
		Location:       "Riverside District",
	})
	require.NoError(t, err)
	return project
}

func seedContractItem(t *testing.T, db *gorm.DB, projectID uint) *models.ContractItem {
	t.Helper()

	svc := NewContractItemService(db)
	item, err := svc.Create(context.Background(), ContractItemInput{
		ProjectID:  projectID,
		PccesCode:  "03210-001",
		Name:       "Reinforcing steel",
		Unit:       "t",
		Quantity:   120,
		UnitPrice:  25000,
		TotalPrice: 3000000,
	})
	require.NoError(t, err)
	return item
}

func nowJSONTime() models.JSONTime {
	return models.JSONTime(time.Now().UTC().Truncate(time.Second))
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

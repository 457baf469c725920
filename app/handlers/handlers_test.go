package handlers

import (
	"testing"

	"github.com/shopshap/shopshap/app/models/migrations"
	"github.com/stretchr/testify/require"
	"github.com/unrolled/render"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

// newTestRender builds a renderer for JSON endpoints; no template directory
// is needed for those.
func newTestRender() *render.Render {
	return render.New(render.Options{
		Extensions: []string{".html"},
	})
}

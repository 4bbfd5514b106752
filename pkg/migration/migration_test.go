package migration

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestRunStatusRollback(t *testing.T) {
	saved := registry
	t.Cleanup(func() { registry = saved })
	registry = nil
	Register("20240101000000_create_widgets", createWidgets{})

	db := openDB(t)
	var out bytes.Buffer
	r := New(db, &out)

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"20240101000000_create_widgets"}, pending)

	require.NoError(t, r.Run())
	assert.True(t, db.Migrator().HasTable(&widget{}))
	assert.Contains(t, out.String(), "Migrated: 20240101000000_create_widgets")

	out.Reset()
	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "Nothing to migrate.")

	out.Reset()
	require.NoError(t, r.Status())
	assert.Contains(t, out.String(), "Ran")

	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable(&widget{}))

	pending, err = r.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

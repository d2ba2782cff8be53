package endpoint_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"datasync/core/database"
	"datasync/core/endpoint"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type widget struct {
	ID   int `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name string
}

func widgetKey(w widget) (int, bool) {
	return w.ID, w.ID != 0
}

func setupWidgetStore(t *testing.T) *endpoint.GormStore[widget, int] {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))

	return endpoint.NewGormStore[widget, int](db, "id", widgetKey)
}

func TestGormStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := setupWidgetStore(t)

	var kinds []endpoint.ChangeKind
	store.Subscribe(func(c endpoint.Change[widget]) { kinds = append(kinds, c.Kind) })

	_, err := store.Create(ctx, widget{ID: 2, Name: "two"})
	require.NoError(t, err)
	_, err = store.Create(ctx, widget{ID: 1, Name: "one"})
	require.NoError(t, err)

	_, err = store.Create(ctx, widget{ID: 1, Name: "again"})
	assert.ErrorIs(t, err, endpoint.ErrAlreadyExists)

	got, ok, err := store.Read(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one", got.Name)

	_, ok, err = store.Read(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []widget{{1, "one"}, {2, "two"}}, all)

	many, err := store.ReadMany(ctx, []int{2, 7})
	require.NoError(t, err)
	assert.Equal(t, []widget{{2, "two"}}, many)

	empty, err := store.ReadMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	previous, err := store.Update(ctx, widget{ID: 1, Name: "uno"})
	require.NoError(t, err)
	assert.Equal(t, "one", previous.Name)

	_, err = store.Update(ctx, widget{ID: 9, Name: "ghost"})
	assert.ErrorIs(t, err, endpoint.ErrNotFound)

	removed, ok, err := store.Delete(ctx, widget{ID: 2})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", removed.Name)

	_, ok, err = store.Delete(ctx, widget{ID: 2})
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []endpoint.ChangeKind{
		endpoint.ChangeCreate,
		endpoint.ChangeCreate,
		endpoint.ChangeUpdate,
		endpoint.ChangeDelete,
	}, kinds)
}

func TestGormStore_ReadError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `widgets`")).
		WillReturnError(errors.New("connection reset"))

	store := endpoint.NewGormStore[widget, int](db, "id", widgetKey)
	_, ok, err := store.Read(context.Background(), 1)

	assert.False(t, ok)
	assert.ErrorContains(t, err, "failed to read item 1")
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

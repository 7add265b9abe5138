package db

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/products_api/internal/config"
	"github.com/Skotchmaster/products_api/internal/models"
)

func TestSQLiteDSN(t *testing.T) {
	require.Equal(t, ":memory:?_pragma=foreign_keys(1)", SQLiteDSN(":memory:"))
	require.Equal(t, "app.db?_pragma=busy_timeout(500)&_pragma=foreign_keys(1)", SQLiteDSN("app.db?_pragma=busy_timeout(500)"))
	require.Equal(t, "app.db?_pragma=foreign_keys(0)", SQLiteDSN("app.db?_pragma=foreign_keys(0)"))
}

func TestOpenRejectsBadInput(t *testing.T) {
	_, err := Open(context.Background(), config.DriverSQLite, "")
	require.Error(t, err)

	_, err = Open(context.Background(), "mysql", "dsn")
	require.ErrorContains(t, err, "unsupported driver")
}

func TestMigrateCreatesCascadingForeignKey(t *testing.T) {
	gdb, err := Open(context.Background(), config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })
	require.NoError(t, Migrate(gdb))

	require.True(t, gdb.Migrator().HasTable(&models.User{}))
	require.True(t, gdb.Migrator().HasTable(&models.Product{}))

	user := models.User{UserName: "owner"}
	require.NoError(t, gdb.Create(&user).Error)
	owned := models.Product{Name: "pen", Description: "blue ink", Price: decimal.RequireFromString("1.50"), UserID: &user.ID}
	free := models.Product{Name: "cup", Description: "ceramic", Price: decimal.NewFromInt(3)}
	require.NoError(t, gdb.Create(&owned).Error)
	require.NoError(t, gdb.Create(&free).Error)

	require.NoError(t, gdb.Delete(&models.User{}, user.ID).Error)

	var left []models.Product
	require.NoError(t, gdb.Order("id").Find(&left).Error)
	require.Len(t, left, 1)
	require.Equal(t, free.ID, left[0].ID)
}

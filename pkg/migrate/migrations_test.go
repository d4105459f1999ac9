package migrate

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/angelmondragon/storefront-admin/pkg/config"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/stretchr/testify/require"
)

func readAllMigrations(t *testing.T) string {
	t.Helper()
	names, err := fs.Glob(FS(), "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	var b strings.Builder
	for _, name := range names {
		data, err := fs.ReadFile(FS(), name)
		require.NoError(t, err)
		b.Write(data)
	}
	return b.String()
}

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestMigrationsCreateEveryTable(t *testing.T) {
	content := readAllMigrations(t)
	for _, table := range []string{
		"users", "categories", "attributes", "products", "product_variants", "product_reviews",
		"banners", "banner_images", "carts", "wishlists", "support_tickets", "address_book",
	} {
		require.Contains(t, content, "CREATE TABLE IF NOT EXISTS "+table+" (", "missing table %s", table)
		require.Contains(t, content, "DROP TABLE IF EXISTS "+table+";", "missing rollback for %s", table)
	}
}

func TestMigrationsKeyConstraints(t *testing.T) {
	content := readAllMigrations(t)
	for _, sub := range []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email)",
		"banner_id BIGINT NOT NULL REFERENCES banners (id) ON DELETE CASCADE",
		"CHECK (rating BETWEEN 1 AND 5)",
		"CHECK (status IN ('open', 'in_progress', 'resolved', 'closed'))",
		"price           NUMERIC(12, 2)",
	} {
		require.Contains(t, content, sub)
	}

	wishlists := strings.SplitN(content, "CREATE TABLE IF NOT EXISTS wishlists", 2)[1]
	wishlists = wishlists[:strings.Index(wishlists, ");")]
	require.NotContains(t, wishlists, "deleted_at")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Coupons Table!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(filepath.Base(path), "_add_coupons_table.sql"))
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestCreateSQLMigrationOrdersWithinOneSecond(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	dir := t.TempDir()
	first, err := CreateSQLMigration(dir, "add coupons")
	require.NoError(t, err)
	second, err := CreateSQLMigration(dir, "add coupon codes")
	require.NoError(t, err)
	require.Equal(t, "20260301090000_add_coupons.sql", filepath.Base(first))
	require.Equal(t, "20260301090001_add_coupon_codes.sql", filepath.Base(second))
	require.NoError(t, ValidateDir(dir))
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateFS(FS(), "migrations"))
}

func TestValidateFSRejectsBrokenFiles(t *testing.T) {
	cases := map[string]string{
		"20260301090000_no_down.sql":    "-- +goose Up\nSELECT 1;\n",
		"20260301090000_unbalanced.sql": "-- +goose Up\n-- +goose StatementBegin\n-- +goose Down\n",
		"bad-name.sql":                  "-- +goose Up\n-- +goose Down\n",
	}
	for name, body := range cases {
		fsys := fstest.MapFS{"m/" + name: &fstest.MapFile{Data: []byte(body)}}
		require.Error(t, ValidateFS(fsys, "m"), name)
	}
}

func TestMaybeRunDevAutoMigratesSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvDev},
		DB:           config.DBConfig{Driver: db.DriverSQLite, SQLitePath: "file:migrate_autorun?mode=memory&cache=shared"},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}
	client, err := db.New(ctx, cfg.DB, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, MaybeRunDev(ctx, cfg, logger.Nop(), client))
	require.True(t, client.DB().Migrator().HasTable("banner_images"))
	require.True(t, client.DB().Migrator().HasTable("address_book"))
}

func TestMaybeRunDevSkipsInProduction(t *testing.T) {
	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvProd},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}
	require.NoError(t, MaybeRunDev(context.Background(), cfg, logger.Nop(), nil))
}

package database

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemaCoversTables(t *testing.T) {
	for _, table := range []string{
		"users", "restaurant_tables", "items", "staff", "orders",
		"order_items", "order_staff", "order_number_counters",
	} {
		assert.Contains(t, embeddedSchema, "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}

func TestEmbeddedSchemaKeepsOrderMoneyUnscaled(t *testing.T) {
	columns := map[string][]string{
		"orders":      {"subtotal", "tax", "tax_rate", "total"},
		"order_items": {"subtotal"},
		"order_staff": {"subtotal"},
	}
	for table, cols := range columns {
		body := tableDefinition(t, table)
		for _, col := range cols {
			re := regexp.MustCompile(`(?m)^\s*` + col + `\s+NUMERIC\s+NOT NULL`)
			assert.Regexp(t, re, body, "%s.%s must be NUMERIC without precision or scale", table, col)
		}
	}
}

func tableDefinition(t *testing.T, table string) string {
	t.Helper()
	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + table + ` \((.*?)\n\);`)
	m := re.FindStringSubmatch(embeddedSchema)
	require.Len(t, m, 2, "table %s not found", table)
	return m[1]
}

func TestApplySchema_Embedded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, applySchema(context.Background(), db, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySchema_FromFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	path := filepath.Join(t.TempDir(), "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE custom (id INT);"), 0o600))

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE custom (id INT);")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, applySchema(context.Background(), db, path))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySchema_MissingFile(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = applySchema(context.Background(), db, filepath.Join(t.TempDir(), "missing.sql"))
	assert.ErrorContains(t, err, "could not read schema file")
}

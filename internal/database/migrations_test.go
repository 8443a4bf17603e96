package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_FreshDatabaseAppliesAllMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "nested", "pdv.db"))
	require.NoError(t, err)
	defer db.Close()

	applied, err := AppliedVersions(ctx, db)
	require.NoError(t, err)
	assert.Len(t, applied, len(Migrations))
	for _, m := range Migrations {
		assert.True(t, applied[m.Version], "version %d", m.Version)
	}

	for _, col := range [][2]string{{"usuarios", "foto"}, {"usuarios", "nome_comercio"}, {"produtos", "foto"}, {"vendas", "cliente_id"}} {
		ok, err := columnExists(ctx, db, false, col[0], col[1])
		require.NoError(t, err)
		assert.True(t, ok, "%s.%s", col[0], col[1])
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "pdv.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(ctx, db))

	var n int
	require.NoError(t, db.GetContext(ctx, &n, "SELECT COUNT(*) FROM schema_migrations"))
	assert.Equal(t, len(Migrations), n)
}

func TestMigrate_AdoptsUnversionedDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.db")

	legacy, err := openSQLite(path)
	require.NoError(t, err)
	_, err = legacy.ExecContext(ctx, `CREATE TABLE usuarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		senha TEXT NOT NULL,
		tipo TEXT DEFAULT 'operador',
		criado_em DATETIME DEFAULT CURRENT_TIMESTAMP,
		foto TEXT
	)`)
	require.NoError(t, err)
	_, err = legacy.ExecContext(ctx, `INSERT INTO usuarios (nome, email, senha) VALUES ('Ana', 'ana@loja.com', 'x')`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	db, err := Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	var email string
	require.NoError(t, db.GetContext(ctx, &email, "SELECT email FROM usuarios WHERE nome = 'Ana'"))
	assert.Equal(t, "ana@loja.com", email)

	ok, err := columnExists(ctx, db, false, "usuarios", "nome_comercio")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tableExists(ctx, db, "clientes")
	require.NoError(t, err)
	assert.True(t, ok)

	applied, err := AppliedVersions(ctx, db)
	require.NoError(t, err)
	assert.Len(t, applied, len(Migrations))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	assert.Error(t, err)
}

func TestOpen_SQLiteToleratesOrphanedRows(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "pdv.db"))
	require.NoError(t, err)
	defer db.Close()

	var enabled int
	require.NoError(t, db.GetContext(ctx, &enabled, "PRAGMA foreign_keys"))
	assert.Equal(t, 0, enabled)

	_, err = db.ExecContext(ctx, "INSERT INTO sessoes (usuario_id, email) VALUES (42, 'ghost@pdv.local')")
	assert.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO venda_itens (venda_id, produto_id, quantidade, preco_unitario) VALUES (7, 999, 1, 2.5)")
	assert.NoError(t, err)
}

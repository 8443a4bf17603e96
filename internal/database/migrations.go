package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"pdv_desk/internal/models"
	"pdv_desk/pkg/utils"
)

// Migration is one ordered schema step. Steps are idempotent so that a database created
// before versioning existed can be adopted by simply running all of them.
type Migration struct {
	Version     int
	Description string
	SQLite      string
	Postgres    string
	// AddColumn steps check column presence before altering the table.
	AddColumn *columnSpec
}

type columnSpec struct {
	Table, Column, SQLiteType, PostgresType string
}

const sqliteNow = "CURRENT_TIMESTAMP"
const postgresNow = "to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD HH24:MI:SS')"

// Migrations lists the schema history in order.
var Migrations = []Migration{
	{
		Version:     1,
		Description: "create usuarios",
		SQLite: `CREATE TABLE IF NOT EXISTS usuarios (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nome TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			senha TEXT NOT NULL,
			tipo TEXT DEFAULT 'operador',
			criado_em DATETIME DEFAULT ` + sqliteNow + `
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS usuarios (
			id BIGSERIAL PRIMARY KEY,
			nome TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			senha TEXT NOT NULL,
			tipo TEXT DEFAULT 'operador',
			criado_em TEXT DEFAULT ` + postgresNow + `
		)`,
	},
	{
		Version:     2,
		Description: "create produtos",
		SQLite: `CREATE TABLE IF NOT EXISTS produtos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			codigo TEXT NOT NULL,
			nome TEXT NOT NULL,
			categoria TEXT,
			preco REAL NOT NULL,
			estoque INTEGER NOT NULL,
			usuario_id INTEGER,
			criado_em DATETIME DEFAULT ` + sqliteNow + `,
			UNIQUE(codigo, usuario_id)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS produtos (
			id BIGSERIAL PRIMARY KEY,
			codigo TEXT NOT NULL,
			nome TEXT NOT NULL,
			categoria TEXT,
			preco NUMERIC(14,2) NOT NULL,
			estoque INTEGER NOT NULL,
			usuario_id BIGINT REFERENCES usuarios(id),
			criado_em TEXT DEFAULT ` + postgresNow + `,
			UNIQUE(codigo, usuario_id)
		)`,
	},
	{
		Version:     3,
		Description: "create vendas",
		SQLite: `CREATE TABLE IF NOT EXISTS vendas (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			usuario_id INTEGER,
			total REAL NOT NULL,
			desconto REAL DEFAULT 0,
			forma_pagamento TEXT NOT NULL,
			data DATETIME DEFAULT ` + sqliteNow + `,
			FOREIGN KEY (usuario_id) REFERENCES usuarios(id)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS vendas (
			id BIGSERIAL PRIMARY KEY,
			usuario_id BIGINT REFERENCES usuarios(id),
			total NUMERIC(14,2) NOT NULL,
			desconto NUMERIC(14,2) DEFAULT 0,
			forma_pagamento TEXT NOT NULL,
			data TEXT DEFAULT ` + postgresNow + `
		)`,
	},
	{
		Version:     4,
		Description: "create venda_itens",
		SQLite: `CREATE TABLE IF NOT EXISTS venda_itens (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			venda_id INTEGER,
			produto_id INTEGER,
			quantidade INTEGER NOT NULL,
			preco_unitario REAL NOT NULL,
			FOREIGN KEY (venda_id) REFERENCES vendas(id)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS venda_itens (
			id BIGSERIAL PRIMARY KEY,
			venda_id BIGINT REFERENCES vendas(id),
			produto_id BIGINT,
			quantidade INTEGER NOT NULL,
			preco_unitario NUMERIC(14,2) NOT NULL
		)`,
	},
	{
		Version:     5,
		Description: "create sessoes",
		SQLite: `CREATE TABLE IF NOT EXISTS sessoes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			usuario_id INTEGER NOT NULL,
			email TEXT NOT NULL,
			criado_em DATETIME DEFAULT ` + sqliteNow + `,
			FOREIGN KEY (usuario_id) REFERENCES usuarios(id)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS sessoes (
			id BIGSERIAL PRIMARY KEY,
			usuario_id BIGINT NOT NULL,
			email TEXT NOT NULL,
			criado_em TEXT DEFAULT ` + postgresNow + `
		)`,
	},
	{
		Version:     6,
		Description: "create clientes",
		SQLite: `CREATE TABLE IF NOT EXISTS clientes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			usuario_id INTEGER,
			nome TEXT NOT NULL,
			cpf TEXT NOT NULL,
			status REAL NOT NULL DEFAULT 0,
			dia_cadastro INTEGER,
			mes_cadastro INTEGER,
			criado_em DATETIME DEFAULT ` + sqliteNow + `,
			FOREIGN KEY (usuario_id) REFERENCES usuarios(id),
			UNIQUE(cpf, usuario_id)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS clientes (
			id BIGSERIAL PRIMARY KEY,
			usuario_id BIGINT REFERENCES usuarios(id),
			nome TEXT NOT NULL,
			cpf TEXT NOT NULL,
			status DOUBLE PRECISION NOT NULL DEFAULT 0,
			dia_cadastro INTEGER,
			mes_cadastro INTEGER,
			criado_em TEXT DEFAULT ` + postgresNow + `,
			UNIQUE(cpf, usuario_id)
		)`,
	},
	{Version: 7, Description: "add usuarios.foto", AddColumn: &columnSpec{"usuarios", "foto", "TEXT", "TEXT"}},
	{Version: 8, Description: "add usuarios.nome_comercio", AddColumn: &columnSpec{"usuarios", "nome_comercio", "TEXT", "TEXT"}},
	{Version: 9, Description: "add produtos.foto", AddColumn: &columnSpec{"produtos", "foto", "TEXT", "TEXT"}},
	{Version: 10, Description: "add vendas.cliente_id", AddColumn: &columnSpec{"vendas", "cliente_id", "INTEGER", "BIGINT"}},
}

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at TEXT NOT NULL
)`

// Migrate applies every migration not yet recorded in schema_migrations, each in its own
// transaction, recording the version only after the step succeeded.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	applied, err := AppliedVersions(ctx, db)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		legacy, err := tableExists(ctx, db, "usuarios")
		if err != nil {
			return err
		}
		if legacy {
			utils.LogInfo("Adopting unversioned database", nil)
		}
	}

	for _, m := range Migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		utils.LogDebug("Migration applied", map[string]interface{}{"version": m.Version, "description": m.Description})
	}
	return nil
}

// AppliedVersions returns the set of versions recorded in schema_migrations.
func AppliedVersions(ctx context.Context, db *sqlx.DB) (map[int]bool, error) {
	var versions []int
	if err := db.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations"); err != nil {
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, m Migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	pg := IsPostgres(db)
	if m.AddColumn != nil {
		exists, err := columnExists(ctx, tx, pg, m.AddColumn.Table, m.AddColumn.Column)
		if err != nil {
			return err
		}
		if !exists {
			colType := m.AddColumn.SQLiteType
			if pg {
				colType = m.AddColumn.PostgresType
			}
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.AddColumn.Table, m.AddColumn.Column, colType)
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
	} else {
		stmt := m.SQLite
		if pg {
			stmt = m.Postgres
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)"),
		m.Version, m.Description, time.Now().UTC().Format(models.TimestampLayout))
	if err != nil {
		return err
	}
	return tx.Commit()
}

func columnExists(ctx context.Context, q sqlx.QueryerContext, pg bool, table, column string) (bool, error) {
	query := "SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?"
	if pg {
		query = `SELECT COUNT(*) FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`
	}
	var n int
	if err := sqlx.GetContext(ctx, q, &n, query, table, column); err != nil {
		return false, fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}

func tableExists(ctx context.Context, db *sqlx.DB, table string) (bool, error) {
	query := "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?"
	if IsPostgres(db) {
		query = `SELECT COUNT(*) FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = $1`
	}
	var n int
	if err := db.GetContext(ctx, &n, query, table); err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return n > 0, nil
}

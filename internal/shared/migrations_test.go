package shared

import (
	"testing"
	"testing/fstest"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) < 2 {
			t.Fatalf("expected at least two migrations, got %d", len(migrations))
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" || m.Down == "" {
				t.Errorf("migration version %d missing SQL", m.Version)
			}
		}

		if migrations[0].Name != "create_preferences" {
			t.Errorf("expected first migration name create_preferences, got %q", migrations[0].Name)
		}
	})

	t.Run("incomplete migration", func(t *testing.T) {
		fsys := fstest.MapFS{
			"sql/0000_a_up.sql":   {Data: []byte("CREATE TABLE a (id INTEGER);")},
			"sql/0000_a_down.sql": {Data: []byte("DROP TABLE a;")},
			"sql/0001_b_up.sql":   {Data: []byte("CREATE TABLE b (id INTEGER);")},
			"sql/README.md":       {Data: []byte("ignored")},
		}
		if _, err := loadMigrationsFrom(fsys, "sql"); err == nil {
			t.Error("expected error for migration without down file")
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		for _, table := range []string{"preferences", "course_cache", "sync_runs"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM course_cache LIMIT 1"); err == nil {
			t.Error("course_cache should be dropped after rollback")
		}
		if _, err := db.Exec("SELECT 1 FROM preferences LIMIT 1"); err != nil {
			t.Errorf("preferences should survive a single rollback: %v", err)
		}

		statuses, err := Migrations(db)
		if err != nil {
			t.Fatalf("failed to list migrations: %v", err)
		}
		if !statuses[0].Applied || statuses[len(statuses)-1].Applied {
			t.Errorf("unexpected applied state after rollback: %+v", statuses)
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})

	t.Run("splitStatements", func(t *testing.T) {
		stmts := splitStatements("-- header\nCREATE TABLE a (id INTEGER); -- trailing\n\nDROP TABLE b;\n")
		if len(stmts) != 2 {
			t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
		}
		if stmts[1] != "DROP TABLE b" {
			t.Errorf("unexpected statement %q", stmts[1])
		}
	})
}

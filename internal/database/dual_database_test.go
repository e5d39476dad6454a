package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// getDualTestDatabases returns both SQLite and PostgreSQL databases for testing.
// If PostgreSQL is not available, it returns only SQLite.
func getDualTestDatabases(t *testing.T) map[string]*Database {
	dbs := make(map[string]*Database)

	sqliteDB, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open SQLite database: %v", err)
	}
	dbs["sqlite"] = sqliteDB

	if pgConfig := getPostgresTestConfig(); pgConfig != nil {
		pgDB, err := OpenWithConfig(*pgConfig)
		if err != nil {
			t.Logf("PostgreSQL not available: %v", err)
		} else {
			pgDB.db.Exec("DELETE FROM generations")
			dbs["postgres"] = pgDB
		}
	}

	t.Cleanup(func() {
		for name, db := range dbs {
			if name == "postgres" {
				db.db.Exec("DELETE FROM generations")
			}
			db.Close()
		}
	})

	return dbs
}

func TestDual_RecordGeneration(t *testing.T) {
	for name, db := range getDualTestDatabases(t) {
		t.Run(name, func(t *testing.T) {
			rec := &GenerationRecord{Width: 20, Length: 30, Seed: 42, Difficulty: "easy", Source: "cli"}
			if err := db.RecordGeneration(rec); err != nil {
				t.Fatalf("RecordGeneration failed: %v", err)
			}

			if rec.ID == 0 {
				t.Error("ID should not be 0")
			}
			if rec.RunID == "" {
				t.Error("RunID should be generated")
			}
			if rec.CreatedAt.IsZero() {
				t.Error("CreatedAt should be set")
			}

			got, err := db.GetGeneration(rec.RunID)
			if err != nil {
				t.Fatalf("GetGeneration failed: %v", err)
			}
			if got.ID != rec.ID || got.Width != 20 || got.Length != 30 || got.Seed != 42 {
				t.Errorf("GetGeneration = %+v, want %+v", got, rec)
			}
			if got.Difficulty != "easy" || got.Source != "cli" {
				t.Errorf("labels = %q/%q, want easy/cli", got.Difficulty, got.Source)
			}
			if !got.CreatedAt.Equal(rec.CreatedAt) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
			}
		})
	}
}

func TestDual_RecordGenerationKeepsRunID(t *testing.T) {
	for name, db := range getDualTestDatabases(t) {
		t.Run(name, func(t *testing.T) {
			rec := &GenerationRecord{RunID: "fixed-run", Width: 3, Length: 3, Seed: -9}
			if err := db.RecordGeneration(rec); err != nil {
				t.Fatalf("RecordGeneration failed: %v", err)
			}
			if rec.RunID != "fixed-run" {
				t.Errorf("RunID = %q, want fixed-run", rec.RunID)
			}

			got, err := db.GetGeneration("fixed-run")
			if err != nil {
				t.Fatalf("GetGeneration failed: %v", err)
			}
			if got.Seed != -9 {
				t.Errorf("Seed = %d, want -9", got.Seed)
			}

			dup := &GenerationRecord{RunID: "fixed-run", Width: 5, Length: 5, Seed: 1}
			if err := db.RecordGeneration(dup); !errors.Is(err, ErrDuplicateRun) {
				t.Errorf("duplicate RecordGeneration error = %v, want ErrDuplicateRun", err)
			}
		})
	}
}

func TestDual_GetGenerationNotFound(t *testing.T) {
	for name, db := range getDualTestDatabases(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := db.GetGeneration("missing"); !errors.Is(err, ErrGenerationNotFound) {
				t.Errorf("GetGeneration(missing) error = %v, want ErrGenerationNotFound", err)
			}
		})
	}
}

func TestDual_RecentGenerations(t *testing.T) {
	for name, db := range getDualTestDatabases(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Now().Add(-time.Hour)
			for i := 0; i < 5; i++ {
				rec := &GenerationRecord{
					Width:     10,
					Length:    10,
					Seed:      int64(i),
					CreatedAt: base.Add(time.Duration(i) * time.Minute),
				}
				if err := db.RecordGeneration(rec); err != nil {
					t.Fatalf("RecordGeneration %d failed: %v", i, err)
				}
			}

			recent, err := db.RecentGenerations(3)
			if err != nil {
				t.Fatalf("RecentGenerations failed: %v", err)
			}
			if len(recent) != 3 {
				t.Fatalf("got %d generations, want 3", len(recent))
			}
			for i, want := range []int64{4, 3, 2} {
				if recent[i].Seed != want {
					t.Errorf("recent[%d].Seed = %d, want %d", i, recent[i].Seed, want)
				}
			}

			none, err := db.RecentGenerations(0)
			if err != nil || len(none) != 0 {
				t.Errorf("RecentGenerations(0) = %v, %v; want empty", none, err)
			}

			count, err := db.CountGenerations()
			if err != nil {
				t.Fatalf("CountGenerations failed: %v", err)
			}
			if count != 5 {
				t.Errorf("CountGenerations = %d, want 5", count)
			}
		})
	}
}

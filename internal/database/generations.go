package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrGenerationNotFound is returned when no generation has the run ID.
	ErrGenerationNotFound = errors.New("generation not found")

	// ErrDuplicateRun is returned when a run ID is recorded twice.
	ErrDuplicateRun = errors.New("run already recorded")
)

// GenerationRecord is one generated maze. Width, Length and Seed are
// enough to regenerate the exact same grid.
type GenerationRecord struct {
	ID         int64
	RunID      string
	Width      int
	Length     int
	Seed       int64
	Difficulty string
	Source     string
	CreatedAt  time.Time
}

// RecordGeneration stores rec. An empty RunID gets a fresh UUID and a zero
// CreatedAt is set to now; the stored values are written back into rec.
func (d *Database) RecordGeneration(rec *GenerationRecord) error {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	// Stored as unix milliseconds.
	rec.CreatedAt = time.UnixMilli(rec.CreatedAt.UnixMilli())

	query := d.qb.BuildWithReturning(
		`INSERT INTO generations (run_id, width, length, seed, difficulty, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, "id")
	args := []any{rec.RunID, rec.Width, rec.Length, rec.Seed, rec.Difficulty, rec.Source, rec.CreatedAt.UnixMilli()}

	if d.dialect.SupportsLastInsertID() {
		result, err := d.db.Exec(query, args...)
		if err != nil {
			return d.insertError(rec.RunID, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get generation ID: %w", err)
		}
		rec.ID = id
		return nil
	}

	if err := d.db.QueryRow(query, args...).Scan(&rec.ID); err != nil {
		return d.insertError(rec.RunID, err)
	}
	return nil
}

func (d *Database) insertError(runID string, err error) error {
	if d.dialect.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateRun, runID)
	}
	return fmt.Errorf("failed to record generation: %w", err)
}

const generationColumns = `id, run_id, width, length, seed, difficulty, source, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row rowScanner) (*GenerationRecord, error) {
	var rec GenerationRecord
	var createdAt int64
	if err := row.Scan(&rec.ID, &rec.RunID, &rec.Width, &rec.Length, &rec.Seed,
		&rec.Difficulty, &rec.Source, &createdAt); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.UnixMilli(createdAt)
	return &rec, nil
}

// GetGeneration retrieves a generation by run ID.
func (d *Database) GetGeneration(runID string) (*GenerationRecord, error) {
	row := d.db.QueryRow(
		d.qb.Build("SELECT "+generationColumns+" FROM generations WHERE run_id = ?"),
		runID,
	)
	rec, err := scanGeneration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenerationNotFound
		}
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	return rec, nil
}

// RecentGenerations returns up to limit generations, newest first.
func (d *Database) RecentGenerations(limit int) ([]*GenerationRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := d.db.Query(
		d.qb.Build("SELECT "+generationColumns+" FROM generations ORDER BY created_at DESC, id DESC LIMIT ?"),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	var recs []*GenerationRecord
	for rows.Next() {
		rec, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// CountGenerations returns the number of recorded generations.
func (d *Database) CountGenerations() (int, error) {
	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM generations").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}
	return count, nil
}

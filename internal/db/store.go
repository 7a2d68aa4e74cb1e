package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmfonseca/glicolog/internal/model"
	embedsql "github.com/rmfonseca/glicolog/internal/sql"
)

// readingColumns is the COPY column order for glucose_readings.
var readingColumns = []string{
	"record_id", "row_seq", "sheet_row", "slot", "value_mgdl",
	"gest_weeks", "gest_days", "age_source",
}

// Store persists parse outcomes. One record and its readings commit
// atomically; a failed file never leaves a half-written record behind.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// BeginBatch registers a new import batch.
func (s *Store) BeginBatch(ctx context.Context, batchID uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, embedsql.InsertBatch, batchID); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// SaveRecord writes a parsed record and its readings in one transaction
// and returns the new record id. Readings go through the COPY protocol;
// a record routinely carries dozens of slot values.
func (s *Store) SaveRecord(ctx context.Context, batchID uuid.UUID, rec *model.PatientRecord, sha string) (int64, error) {
	var recordID int64
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, embedsql.InsertRecord,
			batchID, rec.SourceFile, nullable(sha), rec.PatientName,
			rec.Age.Weeks, rec.Age.Days, string(rec.Age.Source),
			rec.UsesInsulin, string(rec.Status), rec.Warnings,
		).Scan(&recordID)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}

		rows := make([][]any, 0, len(rec.Readings))
		for seq, r := range rec.Readings {
			for _, slot := range model.AllSlots {
				v, ok := r.Values[slot]
				if !ok {
					continue
				}
				rows = append(rows, []any{
					recordID, seq, r.Row, string(slot), v,
					r.Age.Weeks, r.Age.Days, string(r.Age.Source),
				})
			}
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"glucose_readings"},
			readingColumns,
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("copy readings: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return recordID, nil
}

// SaveFailure records a terminal per-file failure under the batch.
func (s *Store) SaveFailure(ctx context.Context, batchID uuid.UUID, f model.FileFailure) error {
	if _, err := s.pool.Exec(ctx, embedsql.InsertFailure,
		batchID, f.FileName, string(f.Category), f.Message,
	); err != nil {
		return fmt.Errorf("insert failure: %w", err)
	}
	return nil
}

// FinishBatch stamps the batch with its final counters.
func (s *Store) FinishBatch(ctx context.Context, batchID uuid.UUID, sum *model.BatchSummary) error {
	if _, err := s.pool.Exec(ctx, embedsql.FinishBatch,
		batchID, sum.FilesSeen, sum.FilesParsed, sum.FilesFailed,
	); err != nil {
		return fmt.Errorf("finish batch: %w", err)
	}
	return nil
}

// BatchStats reads back per-batch row counts, used by tests and the
// post-ingest report.
func (s *Store) BatchStats(ctx context.Context, batchID uuid.UUID) (records, readings, failures int64, err error) {
	err = s.pool.QueryRow(ctx, embedsql.BatchStats, batchID).Scan(&records, &readings, &failures)
	if err != nil {
		err = fmt.Errorf("batch stats: %w", err)
	}
	return records, readings, failures, err
}

// nullable maps an empty string onto SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

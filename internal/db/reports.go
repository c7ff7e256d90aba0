package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/storekit/sales-reporter/internal/types"
)

// AppendReportMetadata adds one entry to the append-only log of
// generated reports. Entries are never updated or deleted by the
// pipeline.
func (db *DB) AppendReportMetadata(ctx context.Context, meta types.ReportMetadata) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO report_metadata (id, file_path, created_at)
		 VALUES ($1, $2, $3)`,
		uuid.New(), meta.FilePath, meta.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record report metadata: %w", err)
	}
	return nil
}

// RecentReports lists the most recent report-metadata entries, newest
// first. Used by the CLI to show what has been generated.
func (db *DB) RecentReports(ctx context.Context, limit int) ([]types.ReportMetadata, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT file_path, created_at
		 FROM report_metadata
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query report metadata: %w", err)
	}
	defer rows.Close()

	var reports []types.ReportMetadata
	for rows.Next() {
		var m types.ReportMetadata
		if err := rows.Scan(&m.FilePath, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report metadata row: %w", err)
		}
		reports = append(reports, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read report metadata rows: %w", err)
	}
	return reports, nil
}

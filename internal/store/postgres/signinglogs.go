package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/narvanalabs/signing-vault/internal/models"
	"github.com/narvanalabs/signing-vault/internal/store"
)

// SigningLogStore implements store.SigningLogStore using PostgreSQL.
type SigningLogStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

// conn returns the queryable connection (transaction or database).
func (s *SigningLogStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// List retrieves a newest-first page of signing log entries.
func (s *SigningLogStore) List(ctx context.Context, fromID, limit int) ([]*models.SigningLog, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if fromID > 0 {
		query := `
			SELECT id, make, model, serialnumber, fingerprint, revision, created
			FROM signinglog
			WHERE id < $1
			ORDER BY id DESC
			LIMIT $2`
		rows, err = s.conn().QueryContext(ctx, query, fromID, limit)
	} else {
		query := `
			SELECT id, make, model, serialnumber, fingerprint, revision, created
			FROM signinglog
			ORDER BY id DESC
			LIMIT $1`
		rows, err = s.conn().QueryContext(ctx, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("querying signing logs: %w", err)
	}
	defer rows.Close()

	return s.scanSigningLogs(rows)
}

// Get retrieves a single signing log entry.
func (s *SigningLogStore) Get(ctx context.Context, id int) (*models.SigningLog, error) {
	query := `
		SELECT id, make, model, serialnumber, fingerprint, revision, created
		FROM signinglog
		WHERE id = $1`

	entry := &models.SigningLog{}
	err := s.conn().QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.Make,
		&entry.Model,
		&entry.SerialNumber,
		&entry.Fingerprint,
		&entry.Revision,
		&entry.Created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying signing log: %w", err)
	}

	return entry, nil
}

// Create inserts a new signing log entry.
func (s *SigningLogStore) Create(ctx context.Context, entry *models.SigningLog) error {
	query := `
		INSERT INTO signinglog (make, model, serialnumber, fingerprint, revision, created)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if entry.Created.IsZero() {
		entry.Created = time.Now().UTC()
	}
	if entry.Revision == 0 {
		entry.Revision = 1
	}

	err := s.conn().QueryRowContext(ctx, query,
		entry.Make,
		entry.Model,
		entry.SerialNumber,
		entry.Fingerprint,
		entry.Revision,
		entry.Created,
	).Scan(&entry.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateKey
		}
		return fmt.Errorf("inserting signing log: %w", err)
	}

	return nil
}

// Delete removes a signing log entry by ID.
func (s *SigningLogStore) Delete(ctx context.Context, id int) error {
	result, err := s.conn().ExecContext(ctx, `DELETE FROM signinglog WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting signing log: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	s.logger.Debug("signing log deleted", "id", id)
	return nil
}

// scanSigningLogs scans multiple signing log rows.
func (s *SigningLogStore) scanSigningLogs(rows *sql.Rows) ([]*models.SigningLog, error) {
	var entries []*models.SigningLog

	for rows.Next() {
		entry := &models.SigningLog{}

		err := rows.Scan(
			&entry.ID,
			&entry.Make,
			&entry.Model,
			&entry.SerialNumber,
			&entry.Fingerprint,
			&entry.Revision,
			&entry.Created,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning signing log row: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating signing log rows: %w", err)
	}

	return entries, nil
}

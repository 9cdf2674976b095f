package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/embedhub/embedhub/internal/errs"
	"github.com/embedhub/embedhub/internal/objects"
	"github.com/embedhub/embedhub/internal/pkg/xregexp"
	"github.com/embedhub/embedhub/internal/scopes"
)

// SQLite is the database/sql-backed Store. The schema is a single generic
// resources table; type-specific fields live in a JSON attribute bag.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS resources (
	id             TEXT PRIMARY KEY,
	type           TEXT NOT NULL,
	owner_id       TEXT NOT NULL,
	name           TEXT NOT NULL,
	labels         TEXT NOT NULL DEFAULT '{}',
	attrs          TEXT NOT NULL DEFAULT '{}',
	public_read    INTEGER NOT NULL DEFAULT 0,
	status         TEXT NOT NULL DEFAULT '',
	secret_hash    TEXT NOT NULL DEFAULT '',
	display_prefix TEXT NOT NULL DEFAULT '',
	created_at     INTEGER NOT NULL,
	updated_at     INTEGER NOT NULL,
	created_by     TEXT NOT NULL,
	updated_by     TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS resources_type_owner_name
	ON resources(type, owner_id, lower(name));

CREATE INDEX IF NOT EXISTS resources_type_owner ON resources(type, owner_id);

CREATE INDEX IF NOT EXISTS resources_secret_hash
	ON resources(secret_hash) WHERE secret_hash != '';
`

// OpenSQLite opens (and first-run initializes) a sqlite-backed store.
// Use ":memory:" or a file path as dsn.
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// sqlite handles a single writer; avoid SQLITE_BUSY under concurrency.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

const recordColumns = `id, type, owner_id, name, labels, attrs, public_read, status,
	secret_hash, display_prefix, created_at, updated_at, created_by, updated_by`

func (s *SQLite) Create(ctx context.Context, record *Record) error {
	if email, ok := record.Attrs[AttrEmail]; ok {
		if _, err := s.GetByAttr(ctx, record.Type, AttrEmail, email); err == nil {
			return errs.AlreadyExistsf("%s with email %q already exists", record.Type, email)
		} else if !errs.IsKind(err, errs.KindNotFound) {
			return err
		}
	}

	labels, attrs, err := encodeMaps(record)
	if err != nil {
		return errs.Internal("failed to encode record", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO resources (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID.String(), string(record.Type), record.OwnerID.String(), record.Name,
		labels, attrs, boolToInt(record.PublicRead), record.Status,
		record.SecretHash, record.DisplayPrefix,
		record.CreatedAt.UnixNano(), record.UpdatedAt.UnixNano(),
		record.CreatedBy.String(), record.UpdatedBy.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.AlreadyExistsf("%s named %q already exists for owner %s", record.Type, record.Name, record.OwnerID)
		}

		return errs.Internal("failed to create record", err)
	}

	return nil
}

func (s *SQLite) Get(ctx context.Context, typ scopes.Resource, id uuid.UUID) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM resources WHERE type = ? AND id = ?
	`, string(typ), id.String())

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFoundf("%s %s not found", typ, id)
	}

	if err != nil {
		return nil, errs.Internal("failed to load record", err)
	}

	return record, nil
}

func (s *SQLite) GetByAttr(ctx context.Context, typ scopes.Resource, key, value string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM resources
		WHERE type = ? AND lower(json_extract(attrs, ?)) = lower(?)
	`, string(typ), "$."+key, value)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFoundf("%s with %s %q not found", typ, key, value)
	}

	if err != nil {
		return nil, errs.Internal("failed to load record", err)
	}

	return record, nil
}

func (s *SQLite) GetBySecretHash(ctx context.Context, typ scopes.Resource, hash string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM resources
		WHERE type = ? AND secret_hash != '' AND secret_hash = ?
	`, string(typ), hash)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFoundf("%s credential not found", typ)
	}

	if err != nil {
		return nil, errs.Internal("failed to load record", err)
	}

	return record, nil
}

func (s *SQLite) Update(ctx context.Context, record *Record) error {
	labels, attrs, err := encodeMaps(record)
	if err != nil {
		return errs.Internal("failed to encode record", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE resources
		SET name = ?, labels = ?, attrs = ?, public_read = ?, status = ?,
			secret_hash = ?, display_prefix = ?, updated_at = ?, updated_by = ?
		WHERE type = ? AND id = ?
	`,
		record.Name, labels, attrs, boolToInt(record.PublicRead), record.Status,
		record.SecretHash, record.DisplayPrefix,
		record.UpdatedAt.UnixNano(), record.UpdatedBy.String(),
		string(record.Type), record.ID.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.AlreadyExistsf("%s named %q already exists for owner %s", record.Type, record.Name, record.OwnerID)
		}

		return errs.Internal("failed to update record", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errs.Internal("failed to update record", err)
	}

	if affected == 0 {
		return errs.NotFoundf("%s %s not found", record.Type, record.ID)
	}

	return nil
}

func (s *SQLite) Delete(ctx context.Context, typ scopes.Resource, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM resources WHERE type = ? AND id = ?
	`, string(typ), id.String())
	if err != nil {
		return errs.Internal("failed to delete record", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errs.Internal("failed to delete record", err)
	}

	if affected == 0 {
		return errs.NotFoundf("%s %s not found", typ, id)
	}

	return nil
}

func (s *SQLite) List(ctx context.Context, typ scopes.Resource, filter Filter, sortBy Sort, page Page) ([]*Record, int, error) {
	where, args := buildWhere(typ, filter)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources `+where, args...).Scan(&total); err != nil {
		return nil, 0, errs.Internal("failed to count records", err)
	}

	query := `SELECT ` + recordColumns + ` FROM resources ` + where + ` ORDER BY ` + orderClause(sortBy)

	pageArgs := args
	if page.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		pageArgs = append(append([]any{}, args...), page.Limit, page.Offset)
	} else if page.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		pageArgs = append(append([]any{}, args...), page.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, errs.Internal("failed to list records", err)
	}
	defer rows.Close()

	records := make([]*Record, 0)

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, 0, errs.Internal("failed to scan record", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errs.Internal("failed to list records", err)
	}

	return records, total, nil
}

// buildWhere renders the filter specification as a parameterized WHERE
// clause. Caller-supplied values only ever travel as bind arguments.
func buildWhere(typ scopes.Resource, filter Filter) (string, []any) {
	clauses := []string{"type = ?"}
	args := []any{string(typ)}

	if filter.OwnerID != nil {
		clauses = append(clauses, "owner_id = ?")
		args = append(args, filter.OwnerID.String())
	}

	if filter.NameGlob != "" {
		clauses = append(clauses, `lower(name) LIKE ? ESCAPE '\'`)
		args = append(args, strings.ToLower(xregexp.GlobToLike(filter.NameGlob)))
	}

	// Label keys are caller data and may contain JSON-path metacharacters,
	// so match via json_each instead of building a path expression.
	for key, value := range filter.Labels {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM json_each(resources.labels) WHERE json_each.key = ? AND json_each.value = ?)")
		args = append(args, key, value)
	}

	if filter.RestrictOwnerID != nil {
		if filter.IncludePublic {
			clauses = append(clauses, "(owner_id = ? OR public_read = 1)")
		} else {
			clauses = append(clauses, "(owner_id = ?)")
		}

		args = append(args, filter.RestrictOwnerID.String())
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// orderClause maps the canonical sort field to a column. The field enum is
// produced by the query engine's allowlist; external names never reach here.
func orderClause(sortBy Sort) string {
	var column string

	switch sortBy.Field {
	case SortByName:
		column = "lower(name)"
	case SortByUpdatedAt:
		column = "updated_at"
	default:
		column = "created_at"
	}

	direction := "DESC"
	if sortBy.Ascending {
		direction = "ASC"
	}

	return column + " " + direction + ", id ASC"
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		record               Record
		id, typ, ownerID     string
		labels, attrs        string
		publicRead           int
		createdAt, updatedAt int64
		createdBy, updatedBy string
	)

	err := row.Scan(
		&id, &typ, &ownerID, &record.Name, &labels, &attrs, &publicRead, &record.Status,
		&record.SecretHash, &record.DisplayPrefix, &createdAt, &updatedAt, &createdBy, &updatedBy,
	)
	if err != nil {
		return nil, err
	}

	record.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt record id %q: %w", id, err)
	}

	record.Type = scopes.Resource(typ)

	record.OwnerID, err = uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("corrupt owner id %q: %w", ownerID, err)
	}

	if err := json.Unmarshal([]byte(labels), &record.Labels); err != nil {
		return nil, fmt.Errorf("corrupt labels: %w", err)
	}

	if err := json.Unmarshal([]byte(attrs), &record.Attrs); err != nil {
		return nil, fmt.Errorf("corrupt attrs: %w", err)
	}

	record.PublicRead = publicRead != 0
	record.CreatedAt = time.Unix(0, createdAt).UTC()
	record.UpdatedAt = time.Unix(0, updatedAt).UTC()

	record.CreatedBy, err = uuid.Parse(createdBy)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_by %q: %w", createdBy, err)
	}

	record.UpdatedBy, err = uuid.Parse(updatedBy)
	if err != nil {
		return nil, fmt.Errorf("corrupt updated_by %q: %w", updatedBy, err)
	}

	return &record, nil
}

func encodeMaps(record *Record) (string, string, error) {
	labels := record.Labels
	if labels == nil {
		labels = objects.Labels{}
	}

	encodedLabels, err := json.Marshal(labels)
	if err != nil {
		return "", "", err
	}

	attrs := record.Attrs
	if attrs == nil {
		attrs = map[string]string{}
	}

	encodedAttrs, err := json.Marshal(attrs)
	if err != nil {
		return "", "", err
	}

	return string(encodedLabels), string(encodedAttrs), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

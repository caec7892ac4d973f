package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"kontak/internal/logger"
	"kontak/internal/models"
)

const (
	defaultContactTableName = "contacts"
	colID                   = "id"
	colDoc                  = "doc"
	exprName                = "doc->>'nama'"
	exprNameLower           = "lower(doc->>'nama')"
	exprStudentID           = "doc->>'npm'"
	castJsonb               = "?::jsonb"
	dialectPostgres         = "postgres"
	uniqueViolationCode     = "23505"

	logMsgBuildQueryFailed = "failed to build store query"
	logMsgQueryFailed      = "store query execution failed"
	logMsgScanRowFailed    = "failed to scan store row"
	logMsgDecodeDocFailed  = "failed to decode contact document"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// schemaDDL creates the collection table and the student id uniqueness index.
// The index is an expression index on the document field, partial so that
// documents without a student id do not collide with each other.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS contacts (
	id  UUID PRIMARY KEY,
	doc JSONB NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS contacts_npm_idx
	ON contacts ((doc->>'npm'))
	WHERE doc->>'npm' <> '';
`

// PostgresStore implements ContactStore on top of a PostgreSQL table holding
// one JSONB document per contact.
type PostgresStore struct {
	db        *sqlx.DB
	dialect   goqu.DialectWrapper
	tableName string
}

// Open connects to PostgreSQL and returns a store bound to the default
// contact table.
func Open(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect(dialectPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	logger.Log.Info("PostgreSQL contact store initialized")
	return NewPostgresStore(db), nil
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		db:        db,
		dialect:   goqu.Dialect(dialectPostgres),
		tableName: defaultContactTableName,
	}
}

// EnsureSchema creates the contact table and its indexes if they are missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to ensure contact schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}

// FindAll returns every contact ordered by name. Ordering compares the
// lowercased name so mixed-case names interleave.
func (p *PostgresStore) FindAll(ctx context.Context, order SortOrder) ([]models.Contact, error) {
	nameOrder := goqu.L(exprNameLower).Asc()
	if order == SortDesc {
		nameOrder = goqu.L(exprNameLower).Desc()
	}

	query := p.dialect.
		From(p.tableName).
		Select(goqu.C(colID), goqu.C(colDoc)).
		Order(nameOrder)

	return p.queryContacts(ctx, query)
}

// FindOne returns the contact with the given id, or ErrNotFound. Values that
// are not UUIDs cannot match any row and resolve to ErrNotFound without a
// round-trip.
func (p *PostgresStore) FindOne(ctx context.Context, id string) (models.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Contact{}, ErrNotFound
	}

	query := p.dialect.
		From(p.tableName).
		Select(goqu.C(colID), goqu.C(colDoc)).
		Where(goqu.C(colID).Eq(id))

	contacts, err := p.queryContacts(ctx, query)
	if err != nil {
		return models.Contact{}, err
	}
	if len(contacts) == 0 {
		return models.Contact{}, ErrNotFound
	}

	return contacts[0], nil
}

// FindByStudentID returns the contact holding the given student id, or ErrNotFound.
func (p *PostgresStore) FindByStudentID(ctx context.Context, npm string) (models.Contact, error) {
	query := p.dialect.
		From(p.tableName).
		Select(goqu.C(colID), goqu.C(colDoc)).
		Where(goqu.L(exprStudentID).Eq(npm))

	contacts, err := p.queryContacts(ctx, query)
	if err != nil {
		return models.Contact{}, err
	}
	if len(contacts) == 0 {
		return models.Contact{}, ErrNotFound
	}

	return contacts[0], nil
}

// Search returns contacts whose name contains the given text, ignoring case,
// ordered by name ascending. An empty or whitespace-only name is ErrEmptyQuery.
func (p *PostgresStore) Search(ctx context.Context, name string) ([]models.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyQuery
	}

	query := p.dialect.
		From(p.tableName).
		Select(goqu.C(colID), goqu.C(colDoc)).
		Where(goqu.L(exprName).ILike("%" + escapeLikePattern(name) + "%")).
		Order(goqu.L(exprNameLower).Asc())

	return p.queryContacts(ctx, query)
}

// Insert stores a new contact document and returns it with the assigned id.
func (p *PostgresStore) Insert(ctx context.Context, contact models.Contact) (models.Contact, error) {
	contact.ID = uuid.NewString()

	doc, err := json.Marshal(contact)
	if err != nil {
		return models.Contact{}, fmt.Errorf("failed to encode contact document: %w", err)
	}

	query := p.dialect.
		Insert(p.tableName).
		Rows(goqu.Record{
			colID:  contact.ID,
			colDoc: goqu.L(castJsonb, string(doc)),
		})

	sqlStr, args, err := query.Prepared(true).ToSQL()
	if err != nil {
		logger.Log.Error(logMsgBuildQueryFailed, zap.Error(err))
		return models.Contact{}, err
	}

	if _, err := p.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return models.Contact{}, mapWriteError(err)
	}

	return contact, nil
}

// Update replaces the document for the given id with the submitted fields.
func (p *PostgresStore) Update(ctx context.Context, id string, contact models.Contact) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	contact.ID = id

	doc, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("failed to encode contact document: %w", err)
	}

	query := p.dialect.
		Update(p.tableName).
		Set(goqu.Record{colDoc: goqu.L(castJsonb, string(doc))}).
		Where(goqu.C(colID).Eq(id))

	sqlStr, args, err := query.Prepared(true).ToSQL()
	if err != nil {
		logger.Log.Error(logMsgBuildQueryFailed, zap.Error(err))
		return err
	}

	if _, err := p.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return mapWriteError(err)
	}

	return nil
}

// Delete removes the contact with the given id. Unknown ids are not an error.
func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}

	query := p.dialect.
		Delete(p.tableName).
		Where(goqu.C(colID).Eq(id))

	sqlStr, args, err := query.Prepared(true).ToSQL()
	if err != nil {
		logger.Log.Error(logMsgBuildQueryFailed, zap.Error(err))
		return err
	}

	_, err = p.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// queryContacts runs a select built by goqu and decodes the resulting rows.
func (p *PostgresStore) queryContacts(ctx context.Context, query *goqu.SelectDataset) ([]models.Contact, error) {
	sqlStr, args, err := query.Prepared(true).ToSQL()
	if err != nil {
		logger.Log.Error(logMsgBuildQueryFailed, zap.Error(err))
		return nil, err
	}

	rows, err := p.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		logger.Log.Error(logMsgQueryFailed, zap.Error(err), zap.String("query", sqlStr))
		return nil, err
	}
	defer rows.Close()

	contacts := make([]models.Contact, 0)
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			logger.Log.Error(logMsgScanRowFailed, zap.Error(err))
			return nil, err
		}

		var contact models.Contact
		if err := json.Unmarshal(doc, &contact); err != nil {
			logger.Log.Error(logMsgDecodeDocFailed, zap.Error(err), zap.String("id", id))
			return nil, err
		}
		contact.ID = id

		contacts = append(contacts, contact)
	}

	return contacts, rows.Err()
}

// mapWriteError converts a unique index violation into ErrDuplicateStudentID.
// The index backs up the pre-write duplicate check, which is not atomic with
// the write itself.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
		return ErrDuplicateStudentID
	}
	return err
}

// escapeLikePattern neutralizes LIKE metacharacters in user input.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

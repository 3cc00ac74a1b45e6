package save

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/vmihailenco/msgpack/v5"
)

// Entity is a bean the SQL saver can store. EntityID returns 0 until the
// bean has been saved; the saver then assigns the generated key.
type Entity interface {
	EntityName() string
	EntityID() int64
	SetEntityID(id int64)
}

// DefaultTable is the table SQL uses unless told otherwise.
const DefaultTable = "beans"

// SQL stores Entity beans as msgpack payloads in a single table keyed by
// (id, entity). Beans that are not entities pass through untouched.
type SQL struct {
	db     *sqlx.DB
	table  string
	logger *log.Logger
}

// SQLOption configures an SQL saver.
type SQLOption func(*SQL)

// WithTable sets the table name.
func WithTable(name string) SQLOption {
	return func(s *SQL) { s.table = name }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) SQLOption {
	return func(s *SQL) { s.logger = l }
}

// NewSQL creates a saver over db.
func NewSQL(db *sqlx.DB, opts ...SQLOption) *SQL {
	s := &SQL{
		db:     db,
		table:  DefaultTable,
		logger: log.Default().With("component", "save"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// OpenSQL connects to dsn with the named driver ("sqlite", "postgres" or
// "mysql"; the driver must be imported by the program).
func OpenSQL(ctx context.Context, driver, dsn string, opts ...SQLOption) (*SQL, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	return NewSQL(db, opts...), nil
}

// DB returns the underlying database handle.
func (s *SQL) DB() *sqlx.DB { return s.db }

// Close closes the database.
func (s *SQL) Close() error { return s.db.Close() }

// Migrate creates the bean table if it does not exist.
func (s *SQL) Migrate(ctx context.Context) error {
	var ddl string

	switch s.db.DriverName() {
	case "postgres", "pgx":
		ddl = `CREATE TABLE IF NOT EXISTS %s (id BIGSERIAL PRIMARY KEY, entity TEXT NOT NULL, payload BYTEA NOT NULL)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS %s (id BIGINT AUTO_INCREMENT PRIMARY KEY, entity VARCHAR(255) NOT NULL, payload LONGBLOB NOT NULL)`
	default:
		ddl = `CREATE TABLE IF NOT EXISTS %s (id INTEGER PRIMARY KEY AUTOINCREMENT, entity TEXT NOT NULL, payload BLOB NOT NULL)`
	}

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(ddl, s.table)); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}

	return nil
}

// Save inserts a new entity or updates a stored one.
func (s *SQL) Save(ctx context.Context, bean any) (any, error) {
	e, ok := bean.(Entity)
	if !ok {
		s.logger.Debug("not an entity, skipping save", "type", fmt.Sprintf("%T", bean))
		return bean, nil
	}

	payload, err := msgpack.Marshal(bean)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.EntityName(), err)
	}

	if e.EntityID() == 0 {
		if err := s.create(ctx, e, payload); err != nil {
			return nil, err
		}
	} else if err := s.update(ctx, s.db, e, payload); err != nil {
		return nil, err
	}

	s.logger.Debug("saved entity", "entity", e.EntityName(), "id", e.EntityID())

	return bean, nil
}

// create inserts e and stores its payload again with the assigned id, in one
// transaction. On failure e keeps id 0 and no row remains.
func (s *SQL) create(ctx context.Context, e Entity, payload []byte) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert %s: begin: %w", e.EntityName(), err)
	}

	defer func() {
		if err != nil {
			e.SetEntityID(0)
			_ = tx.Rollback()
		}
	}()

	id, err := s.insert(ctx, tx, e.EntityName(), payload)
	if err != nil {
		return err
	}

	e.SetEntityID(id)

	if payload, err = msgpack.Marshal(e); err != nil {
		return fmt.Errorf("encode %s: %w", e.EntityName(), err)
	}

	if err = s.update(ctx, tx, e, payload); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("insert %s: commit: %w", e.EntityName(), err)
	}

	return nil
}

func (s *SQL) insert(ctx context.Context, db sqlx.ExtContext, entity string, payload []byte) (int64, error) {
	query := db.Rebind(fmt.Sprintf(`INSERT INTO %s (entity, payload) VALUES (?, ?)`, s.table))

	if db.DriverName() == "postgres" || db.DriverName() == "pgx" {
		var id int64
		if err := db.QueryRowxContext(ctx, query+" RETURNING id", entity, payload).Scan(&id); err != nil {
			return 0, fmt.Errorf("insert %s: %w", entity, err)
		}

		return id, nil
	}

	res, err := db.ExecContext(ctx, query, entity, payload)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", entity, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s: read id: %w", entity, err)
	}

	return id, nil
}

func (s *SQL) update(ctx context.Context, db sqlx.ExtContext, e Entity, payload []byte) error {
	query := db.Rebind(fmt.Sprintf(`UPDATE %s SET payload = ? WHERE id = ? AND entity = ?`, s.table))

	if _, err := db.ExecContext(ctx, query, payload, e.EntityID(), e.EntityName()); err != nil {
		return fmt.Errorf("update %s %d: %w", e.EntityName(), e.EntityID(), err)
	}

	return nil
}

// Delete removes a stored entity. Beans that are not entities, or have not
// been saved, are ignored.
func (s *SQL) Delete(ctx context.Context, bean any) error {
	e, ok := bean.(Entity)
	if !ok || e.EntityID() == 0 {
		return nil
	}

	query := s.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND entity = ?`, s.table))
	if _, err := s.db.ExecContext(ctx, query, e.EntityID(), e.EntityName()); err != nil {
		return fmt.Errorf("delete %s %d: %w", e.EntityName(), e.EntityID(), err)
	}

	return nil
}

// Load decodes the stored payload of entity id into dst.
func (s *SQL) Load(ctx context.Context, entity string, id int64, dst any) error {
	var payload []byte

	query := s.db.Rebind(fmt.Sprintf(`SELECT payload FROM %s WHERE id = ? AND entity = ?`, s.table))
	if err := s.db.GetContext(ctx, &payload, query, id, entity); err != nil {
		return fmt.Errorf("load %s %d: %w", entity, id, err)
	}

	if err := msgpack.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("decode %s %d: %w", entity, id, err)
	}

	return nil
}

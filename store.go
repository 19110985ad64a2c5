package finctrl

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Metadata keys the CLI relies on. A new ledger is seeded with a default
// value for each of them.
const (
	MetaCurrency   = "currency"
	MetaDeposit    = "deposit"
	MetaWithdrawal = "withdrawal"
	MetaTransfer   = "transfer"
)

// Store owns one ledger file. It is designed for a single logical writer:
// there is no internal locking, every multi-step mutation runs inside one
// SQLite transaction with rollback on any error.
type Store struct {
	db   *sql.DB
	path string
	log  zerolog.Logger
}

// Open opens an existing ledger file. It fails if the file does not exist;
// use Create to start a new ledger.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path to the ledger not provided", ErrValidation)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: could not open ledger file at %q", ErrNotFound, path)
	}
	return open(path)
}

// Create opens a ledger file, creating it with the schema, the default
// currency and the metadata defaults if it does not exist yet.
func Create(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path to the ledger not provided", ErrValidation)
	}
	switch _, err := os.Stat(path); {
	case err == nil:
		return open(path)
	case errors.Is(err, fs.ErrNotExist):
		// brand new ledger, created below
	default:
		return nil, fmt.Errorf("%w: could not stat ledger file at %q: %v", ErrStorage, path, err)
	}

	s, err := open(path)
	if err != nil {
		return nil, err
	}
	if err := s.seed(); err != nil {
		s.db.Close()
		// the file did not exist before this call
		os.Remove(path)
		return nil, err
	}
	s.log.Debug().Str("path", path).Msg("created ledger")
	return s, nil
}

// seed initializes a brand new ledger file.
func (s *Store) seed() error {
	if _, err := s.db.Exec(createScript); err != nil {
		return fmt.Errorf("%w: could not initialize ledger at %q: %v", ErrStorage, s.path, err)
	}
	if err := s.AddCurrency(DefaultCurrency()); err != nil {
		return err
	}
	for key, value := range map[string]string{
		MetaCurrency:   DefaultCurrencyName,
		MetaDeposit:    "Deposit",
		MetaWithdrawal: "Withdrawal",
		MetaTransfer:   "Transfer",
	} {
		if err := s.SetMetadata(key, value); err != nil {
			return err
		}
	}
	return nil
}

func open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open ledger file at %q: %v", ErrStorage, path, err)
	}
	return &Store{db: db, path: path, log: zerolog.Nop()}, nil
}

// SetLogger installs a logger for mutation tracing. The default discards
// everything.
func (s *Store) SetLogger(log zerolog.Logger) { s.log = log }

// Path returns the ledger file path.
func (s *Store) Path() string { return s.path }

// Close releases the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: closing %q: %v", ErrStorage, s.path, err)
	}
	return nil
}

// Backup writes a consistent copy of the ledger to another file.
func (s *Store) Backup(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%w: path to the backup not provided", ErrValidation)
	}
	if _, err := s.db.Exec(`vacuum into ?`, path); err != nil {
		return fmt.Errorf("%w: could not create backup file at %q: %v", ErrStorage, path, err)
	}
	s.log.Info().Str("backup", path).Msg("ledger backed up")
	return nil
}

// write runs fn inside one storage transaction: commit on success, rollback
// on any error. All mutating store operations go through it.
func (s *Store) write(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("%w: rollback failed: %v", ErrInvariant, rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// exists reports whether value is present in a table field. Table and field
// are trusted compile-time constants, never user input.
func exists(q queryer, table, field string, value any) (bool, error) {
	var n int
	err := q.QueryRow("select count(*) from "+table+" where "+field+"=?", value).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return n > 0, nil
}

// queryer is the common surface of *sql.DB and *sql.Tx the store reads through.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// SetMetadata inserts or updates a metadata value for the given key.
func (s *Store) SetMetadata(key, value string) error {
	return s.write(func(tx *sql.Tx) error {
		ok, err := exists(tx, "metadata", "key", key)
		if err != nil {
			return err
		}
		var stmt string
		if ok {
			stmt = `update metadata set value=? where key=?`
		} else {
			stmt = `insert into metadata(value, key) values(?,?)`
		}
		if _, err := tx.Exec(stmt, value, key); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return nil
	})
}

// Metadata returns the metadata value for the given key, or "" if unset.
func (s *Store) Metadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`select value from metadata where key=?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return value, nil
}

// RemoveMetadata deletes the metadata value for the given key, if any.
func (s *Store) RemoveMetadata(key string) error {
	return s.write(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`delete from metadata where key=?`, key); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return nil
	})
}

package journal

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteJournal keeps entries in a SQLite database, either a file that can
// be inspected after a test run or ":memory:".
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Every connection to ":memory:" opens its own database.
	if dbPath == ":memory:" || strings.Contains(dbPath, "mode=memory") {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, err
	}

	journal := &SQLiteJournal{
		db: db,
	}

	if err := journal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return journal, nil
}

func (sj *SQLiteJournal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sftp_journal (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		time INTEGER NOT NULL,
		session TEXT NOT NULL DEFAULT '',
		op TEXT NOT NULL,
		path TEXT NOT NULL,
		target TEXT NOT NULL DEFAULT '',
		byte_offset INTEGER NOT NULL DEFAULT 0,
		byte_length INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_sftp_journal_op ON sftp_journal(op);
	CREATE INDEX IF NOT EXISTS idx_sftp_journal_path ON sftp_journal(path);
	`

	_, err := sj.db.Exec(schema)
	return err
}

func (*SQLiteJournal) GetName() string {
	return "sqlite"
}

func (sj *SQLiteJournal) Record(ctx context.Context, entry Entry) error {
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	_, err := sj.db.ExecContext(ctx, `
		INSERT INTO sftp_journal (time, session, op, path, target, byte_offset, byte_length, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Time.UnixNano(), entry.Session, string(entry.Op), entry.Path,
		entry.Target, entry.Offset, entry.Length, entry.Error,
	)
	return err
}

func (sj *SQLiteJournal) Entries(ctx context.Context, filter Filter) ([]Entry, error) {
	query := `SELECT id, time, session, op, path, target, byte_offset, byte_length, error FROM sftp_journal`

	var conditions []string
	var args []any
	if filter.Session != "" {
		conditions = append(conditions, "session = ?")
		args = append(args, filter.Session)
	}
	if filter.Op != "" {
		conditions = append(conditions, "op = ?")
		args = append(args, string(filter.Op))
	}
	if filter.Path != "" {
		conditions = append(conditions, "path = ?")
		args = append(args, filter.Path)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := sj.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var nanos int64
		var op string
		if err := rows.Scan(&e.ID, &nanos, &e.Session, &op, &e.Path, &e.Target, &e.Offset, &e.Length, &e.Error); err != nil {
			return nil, err
		}
		e.Time = time.Unix(0, nanos)
		e.Op = Op(op)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (sj *SQLiteJournal) Reset(ctx context.Context) error {
	_, err := sj.db.ExecContext(ctx, "DELETE FROM sftp_journal")
	return err
}

func (sj *SQLiteJournal) Close() error {
	return sj.db.Close()
}

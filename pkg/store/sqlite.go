package store

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"review-board/pkg/model"
)

// SQLiteLedger persists the transition history to a local SQLite file
// behind the same append/read contract as the memory ledger. Failures
// to reach the database are logged, not surfaced: the ledger contract
// assumes availability, and a review session with a broken local disk
// should keep working against whatever history is readable.
type SQLiteLedger struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteLedger opens (creating if needed) the ledger database at path.
func OpenSQLiteLedger(path string) (*SQLiteLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS history(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id INTEGER NOT NULL,
		prev_status TEXT NOT NULL,
		new_status TEXT NOT NULL,
		comment TEXT,
		user_id TEXT,
		ts INTEGER NOT NULL
	); CREATE INDEX IF NOT EXISTS idx_history_task ON history(task_id);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteLedger{db: db, now: time.Now}, nil
}

func (l *SQLiteLedger) Close() error { return l.db.Close() }

func (l *SQLiteLedger) Append(e model.HistoryEntry) model.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.Timestamp = l.now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO history(task_id, prev_status, new_status, comment, user_id, ts) VALUES(?,?,?,?,?,?)`,
		e.TaskID, string(e.PreviousStatus), string(e.NewStatus), e.Comment, e.UserID, e.Timestamp.UnixNano())
	if err != nil {
		log.Printf("sqlite ledger append failed task=%d: %v", e.TaskID, err)
	}
	return e
}

func (l *SQLiteLedger) ByTask(taskID int) []model.HistoryEntry {
	return l.query(`SELECT task_id, prev_status, new_status, comment, user_id, ts FROM history WHERE task_id=? ORDER BY ts DESC, id DESC`, taskID)
}

func (l *SQLiteLedger) All() []model.HistoryEntry {
	return l.query(`SELECT task_id, prev_status, new_status, comment, user_id, ts FROM history ORDER BY ts DESC, id DESC`)
}

func (l *SQLiteLedger) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		log.Printf("sqlite ledger count failed: %v", err)
		return 0
	}
	return n
}

func (l *SQLiteLedger) query(q string, args ...any) []model.HistoryEntry {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Printf("sqlite ledger query failed: %v", err)
		return []model.HistoryEntry{}
	}
	defer rows.Close()
	out := []model.HistoryEntry{}
	for rows.Next() {
		var e model.HistoryEntry
		var prev, next string
		var comment, userID sql.NullString
		var ts int64
		if err := rows.Scan(&e.TaskID, &prev, &next, &comment, &userID, &ts); err != nil {
			log.Printf("sqlite ledger scan failed: %v", err)
			continue
		}
		e.PreviousStatus = model.TaskStatus(prev)
		e.NewStatus = model.TaskStatus(next)
		e.Comment = comment.String
		e.UserID = userID.String
		e.Timestamp = time.Unix(0, ts)
		out = append(out, e)
	}
	return out
}

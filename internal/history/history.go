// Package history provides SQLite-based persistence for transcript entries.
// The database is opened lazily and created on first use.
// If opening the DB or executing queries fails, the package falls back to in-memory storage.
package history

import (
	"database/sql"
	"encoding/json"
	"sync"

	_ "github.com/glebarez/go-sqlite"

	"github.com/obsidian-exchange/clerk-go/internal/convo"
	"github.com/obsidian-exchange/clerk-go/internal/logger"
	"github.com/obsidian-exchange/clerk-go/internal/market"
)

var (
	mu      sync.Mutex
	entries map[string][]convo.Entry // in-memory fallback

	dbOnce  sync.Once
	db      *sql.DB
	initErr error

	pathMu sync.Mutex
	dbPath = "transcript.db"
)

// SetPath overrides the database location; call it before the first Save or
// List.
func SetPath(path string) {
	if path == "" {
		return
	}
	pathMu.Lock()
	dbPath = path
	pathMu.Unlock()
}

// initDB lazily opens the SQLite database and creates the transcript table if
// it doesn't exist.
func initDB() {
	pathMu.Lock()
	path := dbPath
	pathMu.Unlock()

	var err error
	db, err = sql.Open("sqlite", "file:"+path+"?_busy_timeout=10000")
	if err != nil {
		initErr = err
		logger.L.Warn("sqlite open failed; using in-memory transcript history", "error", err)
		return
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS transcript (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT,
        role TEXT,
        text TEXT,
        items TEXT,
        created_at DATETIME
    );`); err != nil {
		initErr = err
		logger.L.Warn("sqlite table creation failed; using in-memory transcript history", "error", err)
		return
	}
	logger.L.Info("sqlite transcript DB initialized", "path", path)
}

// Save persists one transcript entry for a session when the DB is available
// and always keeps an in-memory copy as fallback.
func Save(sessionID string, e convo.Entry) {
	dbOnce.Do(initDB)

	if initErr == nil && db != nil {
		items, _ := json.Marshal(e.Items)
		if _, err := db.Exec(`INSERT INTO transcript (session_id, role, text, items, created_at) VALUES (?,?,?,?,?);`,
			sessionID, string(e.Role), e.Text, string(items), e.Time); err != nil {
			logger.L.Error("failed to store transcript entry in sqlite; falling back to memory", "error", err)
		}
	}

	mu.Lock()
	if entries == nil {
		entries = make(map[string][]convo.Entry)
	}
	entries[sessionID] = append(entries[sessionID], e)
	mu.Unlock()
}

// List returns a session's transcript in chronological order.
func List(sessionID string) []convo.Entry {
	dbOnce.Do(initDB)
	if initErr == nil && db != nil {
		rows, err := db.Query(`SELECT role, text, items, created_at FROM transcript WHERE session_id = ? ORDER BY id ASC;`, sessionID)
		if err == nil {
			defer rows.Close()
			var out []convo.Entry
			for rows.Next() {
				var e convo.Entry
				var role, items string
				if err := rows.Scan(&role, &e.Text, &items, &e.Time); err != nil {
					continue
				}
				e.Role = convo.Role(role)
				if items != "" && items != "null" {
					var attached []market.Item
					if json.Unmarshal([]byte(items), &attached) == nil {
						e.Items = attached
					}
				}
				out = append(out, e)
			}
			return out
		}
	}
	mu.Lock()
	defer mu.Unlock()
	return append([]convo.Entry(nil), entries[sessionID]...)
}

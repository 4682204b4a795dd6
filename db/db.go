// Package db persists finished tabs in a local sqlite library and enriches
// them with song metadata from the shared DynamoDB table.
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tabscribe/model"
)

// Library is the local store of generated tabs. A video can hold several
// tabs, one per option combination; lookups return the newest match.
type Library struct {
	db *sql.DB
}

// Open opens (or creates) the tab library at path.
func Open(path string) (*Library, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening tab library: %s", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %s", err)
	}
	return &Library{db: db}, nil
}

func (l *Library) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

func createTables(db *sql.DB) error {
	createTabsTable := `
    CREATE TABLE IF NOT EXISTS tabs (
        id TEXT PRIMARY KEY,
        video_id TEXT NOT NULL,
        title TEXT NOT NULL,
        artist TEXT NOT NULL,
        capo_fret INTEGER NOT NULL DEFAULT 0,
        use_capo INTEGER NOT NULL DEFAULT 0,
        is_fingerstyle INTEGER NOT NULL DEFAULT 0,
        strumming_pattern TEXT NOT NULL DEFAULT '',
        content TEXT NOT NULL,
        created_at TEXT NOT NULL
    );
    `
	createVideoIndex := `
    CREATE INDEX IF NOT EXISTS idx_tabs_video_id ON tabs (video_id);
    `

	if _, err := db.Exec(createTabsTable); err != nil {
		return fmt.Errorf("error creating tabs table: %s", err)
	}
	if _, err := db.Exec(createVideoIndex); err != nil {
		return fmt.Errorf("error creating tabs index: %s", err)
	}
	return nil
}

// SaveTab stores a tab and returns it with its assigned ID and timestamp.
func (l *Library) SaveTab(rec model.TabRecord) (model.TabRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := l.db.Exec(`
        INSERT INTO tabs (id, video_id, title, artist, capo_fret, use_capo,
                          is_fingerstyle, strumming_pattern, content, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.VideoID, rec.Title, rec.Artist, rec.CapoFret, rec.UseCapo,
		rec.Fingerstyle, rec.Pattern, rec.Content, rec.CreatedAt)
	if err != nil {
		return model.TabRecord{}, fmt.Errorf("error saving tab: %s", err)
	}
	return rec, nil
}

const tabColumns = `id, video_id, title, artist, capo_fret, use_capo,
                    is_fingerstyle, strumming_pattern, content, created_at`

// GetTabByVideoID returns the newest stored tab for the video generated
// under the same options, or model.ErrNotFound.
func (l *Library) GetTabByVideoID(videoID string, fingerstyle, useCapo bool) (model.TabRecord, error) {
	row := l.db.QueryRow(`
        SELECT `+tabColumns+`
        FROM tabs
        WHERE video_id = ? AND is_fingerstyle = ? AND use_capo = ?
        ORDER BY created_at DESC, id
        LIMIT 1`,
		videoID, fingerstyle, useCapo)

	rec, err := scanTab(row)
	if err == sql.ErrNoRows {
		return model.TabRecord{}, model.ErrNotFound
	}
	if err != nil {
		return model.TabRecord{}, fmt.Errorf("error loading tab: %s", err)
	}
	return rec, nil
}

// ListTabs returns every stored tab, newest first.
func (l *Library) ListTabs() ([]model.TabRecord, error) {
	rows, err := l.db.Query(`
        SELECT ` + tabColumns + `
        FROM tabs
        ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("error listing tabs: %s", err)
	}
	defer rows.Close()

	var recs []model.TabRecord
	for rows.Next() {
		rec, err := scanTab(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning tab: %s", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTab(row scannable) (model.TabRecord, error) {
	var rec model.TabRecord
	err := row.Scan(&rec.ID, &rec.VideoID, &rec.Title, &rec.Artist,
		&rec.CapoFret, &rec.UseCapo, &rec.Fingerstyle, &rec.Pattern,
		&rec.Content, &rec.CreatedAt)
	return rec, err
}

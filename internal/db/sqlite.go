package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/thesavant42/timerange-clipboard/internal/models"

	_ "modernc.org/sqlite"
)

// ErrNoClip is returned when the clipboard is empty.
var ErrNoClip = errors.New("clipboard is empty")

// timestamps are stored fixed-width so they sort as text
const timestampFormat = "2006-01-02T15:04:05.000000000Z"

// currentConfig names the single stored config document.
const currentConfig = "current"

// DB wraps the SQLite database connection
type DB struct {
	conn   *sql.DB
	logger *log.Logger
	now    func() time.Time
}

// New opens the database at dbPath, creating it and its directory if needed.
// A nil logger disables logging.
func New(dbPath string, logger *log.Logger) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, logger: logger, now: time.Now}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) initSchema() error {
	if _, err := db.conn.Exec(createClipsTable); err != nil {
		return fmt.Errorf("failed to create clips schema: %w", err)
	}
	if _, err := db.conn.Exec(createConfigTable); err != nil {
		return fmt.Errorf("failed to create config schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveClip stores r as the newest clip.
func (db *DB) SaveClip(r models.TimeRange, sourceURL, site string) (models.Clip, error) {
	clip := models.Clip{
		ID:        uuid.NewString(),
		Range:     r,
		SourceURL: sourceURL,
		Site:      site,
		CopiedAt:  db.now().UTC(),
	}
	_, err := db.conn.Exec(insertClip,
		clip.ID,
		r.Start,
		r.End,
		sourceURL,
		site,
		clip.CopiedAt.Format(timestampFormat),
	)
	if err != nil {
		return models.Clip{}, fmt.Errorf("failed to save clip: %w", err)
	}
	if db.logger != nil {
		db.logger.Debug("Saved clip", "id", clip.ID, "start", r.Start, "end", r.End, "site", site)
	}
	return clip, nil
}

// LatestClip returns the most recently copied range, or ErrNoClip.
func (db *DB) LatestClip() (models.Clip, error) {
	clips, err := db.ClipHistory(1)
	if err != nil {
		return models.Clip{}, err
	}
	if len(clips) == 0 {
		return models.Clip{}, ErrNoClip
	}
	return clips[0], nil
}

// ClipHistory returns up to limit clips, newest first.
func (db *DB) ClipHistory(limit int) ([]models.Clip, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := db.conn.Query(selectClips, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query clips: %w", err)
	}
	defer rows.Close()

	var clips []models.Clip
	for rows.Next() {
		var c models.Clip
		var copiedAt string
		if err := rows.Scan(&c.ID, &c.Range.Start, &c.Range.End, &c.SourceURL, &c.Site, &copiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if c.CopiedAt, err = parseTimestamp(copiedAt); err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read clips: %w", err)
	}
	return clips, nil
}

// ClearClips removes every clip and returns how many were removed.
func (db *DB) ClearClips() (int64, error) {
	res, err := db.conn.Exec(deleteClips)
	if err != nil {
		return 0, fmt.Errorf("failed to clear clips: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared clips: %w", err)
	}
	return n, nil
}

// SaveConfigDocument stores doc as the configuration.
func (db *DB) SaveConfigDocument(doc, format string) error {
	_, err := db.conn.Exec(upsertConfigDocument, currentConfig, format, doc, db.now().UTC().Format(timestampFormat))
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// LoadConfigDocument returns the stored configuration, or an empty doc if
// none was saved.
func (db *DB) LoadConfigDocument() (string, string, error) {
	var doc, format string
	err := db.conn.QueryRow(selectConfigDocument, currentConfig).Scan(&doc, &format)
	if err == sql.ErrNoRows {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to load config: %w", err)
	}
	return doc, format, nil
}

// DeleteConfigDocument removes the stored configuration.
func (db *DB) DeleteConfigDocument() error {
	if _, err := db.conn.Exec(deleteConfigDocument, currentConfig); err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}
	return nil
}

// parseTimestamp parses SQLite timestamp formats
func parseTimestamp(ts string) (time.Time, error) {
	formats := []string{
		timestampFormat,
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", ts)
}

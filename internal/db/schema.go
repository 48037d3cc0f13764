package db

const createClipsTable = `
CREATE TABLE IF NOT EXISTS clips (
    id TEXT PRIMARY KEY,
    start_ms INTEGER NOT NULL,
    end_ms INTEGER NOT NULL,
    source_url TEXT NOT NULL DEFAULT '',
    site TEXT NOT NULL DEFAULT '',
    copied_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clips_copied_at ON clips(copied_at);
`

const insertClip = `
INSERT INTO clips (id, start_ms, end_ms, source_url, site, copied_at)
VALUES (?, ?, ?, ?, ?, ?)
`

const selectClips = `
SELECT id, start_ms, end_ms, source_url, site, copied_at
FROM clips
ORDER BY copied_at DESC, rowid DESC
LIMIT ?
`

const deleteClips = `DELETE FROM clips`

const createConfigTable = `
CREATE TABLE IF NOT EXISTS config_documents (
    name TEXT PRIMARY KEY,
    format TEXT NOT NULL,
    document TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

const upsertConfigDocument = `
INSERT INTO config_documents (name, format, document, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    format = excluded.format,
    document = excluded.document,
    updated_at = excluded.updated_at
`

const selectConfigDocument = `
SELECT document, format FROM config_documents WHERE name = ?
`

const deleteConfigDocument = `
DELETE FROM config_documents WHERE name = ?
`

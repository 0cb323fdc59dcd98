package index

import "fmt"

// MeetingRow represents a row in the meetings table. Body is the searchable
// text: title, summary, notes, and transcript joined together.
type MeetingRow struct {
	ID        string
	Title     string
	StartTime string
	Folder    string
	Checksum  string
	Body      string
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string
	Title   string
	Snippet string
}

// Upsert inserts or replaces a meeting row and its FTS entry.
func (db *DB) Upsert(row MeetingRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO meetings (id, title, start_time, folder, checksum, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title      = excluded.title,
			start_time = excluded.start_time,
			folder     = excluded.folder,
			checksum   = excluded.checksum,
			body       = excluded.body
	`, row.ID, row.Title, row.StartTime, row.Folder, row.Checksum, row.Body)
	if err != nil {
		return fmt.Errorf("index: upsert meeting: %w", err)
	}

	if err := ftsUpsert(tx, row); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a meeting and its FTS entry.
func (db *DB) Delete(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	_, _ = tx.Exec(`DELETE FROM meetings WHERE id = ?`, id)

	return tx.Commit()
}

// AllChecksums returns every indexed meeting id with its content checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM meetings`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

// Count returns the number of indexed meetings.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM meetings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

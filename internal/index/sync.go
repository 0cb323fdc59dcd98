package index

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/granola-tools/granola/internal/meeting"
)

// Sync brings the index up to date with the reconciled meetings:
//   - new/changed meetings are upserted (change detected by content checksum)
//   - ids no longer present in the cache are removed
//
// Meetings without a resolvable id are skipped; they cannot be addressed.
func Sync(db *DB, views []*meeting.View, logger *slog.Logger) error {
	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	live := make(map[string]struct{}, len(views))
	for _, v := range views {
		id, ok := v.ID()
		if !ok {
			continue
		}
		live[id] = struct{}{}

		row := rowFor(id, v)
		if checksums[id] == row.Checksum {
			continue
		}
		if err := db.Upsert(row); err != nil {
			logger.Warn("sync: upsert failed", slog.String("id", id), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("id", id))
		}
	}

	for id := range checksums {
		if _, ok := live[id]; !ok {
			if err := db.Delete(id); err != nil {
				logger.Warn("sync: delete failed", slog.String("id", id), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("id", id))
			}
		}
	}

	return nil
}

// rowFor flattens a meeting view into its index row.
func rowFor(id string, v *meeting.View) MeetingRow {
	title, _ := v.Title()
	folder, _ := v.FolderName()

	var start string
	if t, ok := v.StartTime(); ok {
		start = t.Format(time.RFC3339)
	}

	var parts []string
	if title != "" {
		parts = append(parts, title)
	}
	if summary, ok := v.Summary(); ok {
		parts = append(parts, summary)
	}
	if notes, ok := v.HumanNotes(); ok {
		parts = append(parts, notes)
	}
	if tr := v.Transcript(); tr != nil {
		parts = append(parts, tr.FullText())
	}
	body := strings.Join(parts, "\n")

	sum := sha256.Sum256([]byte(title + "\x00" + folder + "\x00" + body))

	return MeetingRow{
		ID:        id,
		Title:     title,
		StartTime: start,
		Folder:    folder,
		Checksum:  hex.EncodeToString(sum[:]),
		Body:      body,
	}
}

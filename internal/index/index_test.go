package index

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/granola-tools/granola/internal/cache"
	"github.com/granola-tools/granola/internal/meeting"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "granola-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM meetings`).Scan(&count); err != nil {
		t.Fatalf("meetings table missing: %v", err)
	}
}

func TestUpsertAndCount(t *testing.T) {
	db := testDB(t)
	row := MeetingRow{
		ID:        "m-1",
		Title:     "Planning",
		StartTime: time.Now().Format(time.RFC3339),
		Folder:    "Work",
		Checksum:  "abc",
		Body:      "planning the quarter",
	}
	if err := db.Upsert(row); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if checksums["m-1"] != "abc" {
		t.Errorf("checksum = %q, want abc", checksums["m-1"])
	}
}

func TestUpsertReplaces(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(MeetingRow{ID: "m-1", Title: "Old", Checksum: "1", Body: "old"})
	if err := db.Upsert(MeetingRow{ID: "m-1", Title: "New", Checksum: "2", Body: "new"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	checksums, _ := db.AllChecksums()
	if checksums["m-1"] != "2" {
		t.Errorf("checksum = %q, want 2", checksums["m-1"])
	}
	n, _ := db.Count()
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(MeetingRow{ID: "m-1", Checksum: "1"})
	if err := db.Delete("m-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	n, _ := db.Count()
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(MeetingRow{ID: "m-1", Title: "Search Me", Checksum: "1", Body: "uniqueword appears here"})

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "m-1" {
		t.Errorf("results = %+v, want 1 hit for m-1", results)
	}
}

func TestSync_RoundTrip(t *testing.T) {
	db := testDB(t)
	logger := quietLogger()

	views := []*meeting.View{
		meeting.NewView(cache.Record{"id": "m-1", "title": "Keep"}, time.UTC),
		meeting.NewView(cache.Record{"id": "m-2", "title": "Drop"}, time.UTC),
		meeting.NewView(cache.Record{"title": "No id, skipped"}, time.UTC),
	}
	if err := Sync(db, views, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	n, _ := db.Count()
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}

	// m-2 disappears from the cache: it must be removed from the index.
	if err := Sync(db, views[:1], logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	n, _ = db.Count()
	if n != 1 {
		t.Errorf("count = %d, want 1 after stale removal", n)
	}
	checksums, _ := db.AllChecksums()
	if _, ok := checksums["m-2"]; ok {
		t.Error("m-2 should be gone")
	}
}

func TestSync_ChecksumSkipsUnchanged(t *testing.T) {
	db := testDB(t)
	logger := quietLogger()

	views := []*meeting.View{
		meeting.NewView(cache.Record{"id": "m-1", "title": "Same"}, time.UTC),
	}
	if err := Sync(db, views, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	before, _ := db.AllChecksums()

	// A second sync with identical content leaves the row untouched.
	if err := Sync(db, views, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	after, _ := db.AllChecksums()
	if before["m-1"] != after["m-1"] {
		t.Errorf("checksum changed across no-op sync")
	}
}

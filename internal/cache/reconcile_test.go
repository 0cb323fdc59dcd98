package cache

import (
	"errors"
	"testing"

	"github.com/granola-tools/granola/internal/apperr"
)

func TestReconcile_MissingState(t *testing.T) {
	_, err := Reconcile(StateStore{"other": 1.0})
	if !errors.Is(err, apperr.ErrMissingState) {
		t.Errorf("err = %v, want ErrMissingState", err)
	}
}

func TestReconcile_EmptyState(t *testing.T) {
	records, err := Reconcile(StateStore{"state": map[string]any{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %d, want 0", len(records))
	}
}

func TestReconcile_OneRecordPerDocument(t *testing.T) {
	store := StateStore{"state": map[string]any{
		"documents": map[string]any{
			"b": map[string]any{"title": "Second"},
			"a": map[string]any{"title": "First"},
		},
	}}

	records, err := Reconcile(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	// Records come back in document-id order.
	if records[0]["title"] != "First" || records[1]["title"] != "Second" {
		t.Errorf("order = %v, %v", records[0]["title"], records[1]["title"])
	}
}

func TestReconcile_MetadataNeverClobbers(t *testing.T) {
	store := StateStore{"state": map[string]any{
		"documents": map[string]any{
			"a": map[string]any{
				"title":        "Doc Title",
				"empty_str":    "",
				"zero_num":     0.0,
				"empty_list":   []any{},
				"absent_value": nil,
			},
		},
		"meetingsMetadata": map[string]any{
			"a": map[string]any{
				"title":        "Meta Title",
				"empty_str":    "filled",
				"zero_num":     5.0,
				"empty_list":   []any{"x"},
				"absent_value": "present",
				"extra":        "added",
			},
		},
	}}

	records, err := Reconcile(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := records[0]

	if rec["title"] != "Doc Title" {
		t.Errorf("title = %v, document value must win", rec["title"])
	}
	if rec["empty_str"] != "filled" {
		t.Errorf("empty_str = %v, empty string should be overlaid", rec["empty_str"])
	}
	if rec["zero_num"] != 5.0 {
		t.Errorf("zero_num = %v, zero should be overlaid", rec["zero_num"])
	}
	if list, ok := rec["empty_list"].([]any); !ok || len(list) != 1 {
		t.Errorf("empty_list = %v, empty list should be overlaid", rec["empty_list"])
	}
	if rec["absent_value"] != "present" {
		t.Errorf("absent_value = %v", rec["absent_value"])
	}
	if rec["extra"] != "added" {
		t.Errorf("extra = %v, metadata-only keys should appear", rec["extra"])
	}
}

func TestReconcile_TranscriptAttached(t *testing.T) {
	store := StateStore{"state": map[string]any{
		"documents": map[string]any{
			"a": map[string]any{"title": "With"},
			"b": map[string]any{"title": "Without"},
		},
		"transcripts": map[string]any{
			"a": []any{map[string]any{"text": "hello"}},
		},
	}}

	records, err := Reconcile(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := records[0][KeyTranscript]; !ok {
		t.Error("expected transcript_data on document a")
	}
	if _, ok := records[1][KeyTranscript]; ok {
		t.Error("document b must not have transcript_data")
	}
}

func TestReconcile_Panels(t *testing.T) {
	store := StateStore{"state": map[string]any{
		"documents": map[string]any{
			"a": map[string]any{"title": "T"},
		},
		"documentPanels": map[string]any{
			"a": map[string]any{
				"p1": map[string]any{
					"original_content": "<p>First summary</p>",
					"content":          map[string]any{},
				},
				"p2": map[string]any{
					"original_content": "<hr><a href=x>stub</a>",
					"content":          map[string]any{"type": "doc"},
				},
				"p3": map[string]any{
					"original_content": "<p>Third summary</p>",
				},
			},
		},
	}}

	records, err := Reconcile(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := records[0]

	// Stub panel excluded, real panels joined in panel-id order.
	want := "<p>First summary</p>\n\n<p>Third summary</p>"
	if rec[KeyAISummary] != want {
		t.Errorf("ai_summary_html = %q, want %q", rec[KeyAISummary], want)
	}

	// First non-empty structured content wins; p1's empty dict is skipped.
	content, ok := rec[KeyPanelContent].(map[string]any)
	if !ok || content["type"] != "doc" {
		t.Errorf("panel_content = %v, want p2's content", rec[KeyPanelContent])
	}
}

func TestReconcile_NoPanels(t *testing.T) {
	store := StateStore{"state": map[string]any{
		"documents": map[string]any{"a": map[string]any{}},
	}}

	records, err := Reconcile(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := records[0][KeyAISummary]; ok {
		t.Error("ai_summary_html must be absent without panels")
	}
	if _, ok := records[0][KeyPanelContent]; ok {
		t.Error("panel_content must be absent without panels")
	}
}

func TestReconcile_Folders(t *testing.T) {
	store := StateStore{"state": map[string]any{
		"documents": map[string]any{
			"a": map[string]any{},
			"b": map[string]any{},
		},
		"documentLists": map[string]any{
			"list-1": []any{"a", 42.0},
		},
		"documentListsMetadata": map[string]any{
			"list-1": map[string]any{"title": "Work"},
		},
	}}

	records, err := Reconcile(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Document a is in the list: both folder keys set.
	if records[0][KeyFolderName] != "Work" || records[0][KeyFolderID] != "list-1" {
		t.Errorf("folder = %v / %v, want Work / list-1",
			records[0][KeyFolderName], records[0][KeyFolderID])
	}
	// Document b is in no list: both keys present and nil.
	if name, ok := records[1][KeyFolderName]; !ok || name != nil {
		t.Errorf("folder_name = %v, want explicit nil", name)
	}
	if id, ok := records[1][KeyFolderID]; !ok || id != nil {
		t.Errorf("folder_id = %v, want explicit nil", id)
	}
}

func TestReconcile_FolderWithoutMetadata(t *testing.T) {
	store := StateStore{"state": map[string]any{
		"documents": map[string]any{"a": map[string]any{}},
		"documentLists": map[string]any{
			"list-1": []any{"a"},
		},
	}}

	records, err := Reconcile(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0][KeyFolderName] != "Unknown" {
		t.Errorf("folder_name = %v, want Unknown", records[0][KeyFolderName])
	}
}

func TestReconcile_MalformedListSkipped(t *testing.T) {
	store := StateStore{"state": map[string]any{
		"documents": map[string]any{"a": map[string]any{}},
		"documentLists": map[string]any{
			"list-1": "not a list",
		},
	}}

	records, err := Reconcile(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0][KeyFolderName] != nil {
		t.Errorf("folder_name = %v, want nil", records[0][KeyFolderName])
	}
}

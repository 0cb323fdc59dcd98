package cache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/granola-tools/granola/internal/apperr"
)

// Reserved keys the reconciler attaches to every record. Consumers read them
// through the meeting view, never from raw records.
const (
	KeyTranscript   = "transcript_data"
	KeyAISummary    = "ai_summary_html"
	KeyPanelContent = "panel_content"
	KeyFolderName   = "folder_name"
	KeyFolderID     = "folder_id"
)

// Record is one unified meeting record: the document's own fields, metadata
// overlaid where the document had nothing, plus the reserved keys above.
type Record map[string]any

// summaryMarker marks panels that only hold a horizontal-rule/link stub
// rather than real AI summary content.
const summaryMarker = "<hr>"

// Reconcile joins the state store's sub-collections into one record per
// document. The only structural requirement is the "state" object; each
// sub-collection is independently optional and defaults to empty. Individual
// documents are never validated here: best-effort field extraction belongs to
// the meeting view.
func Reconcile(store StateStore) ([]Record, error) {
	state, ok := store["state"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: no \"state\" object in cache", apperr.ErrMissingState)
	}

	documents := subMap(state, "documents")
	metadata := subMap(state, "meetingsMetadata")
	transcripts := subMap(state, "transcripts")
	panels := subMap(state, "documentPanels")

	folders := reconcileFolders(state)

	ids := make([]string, 0, len(documents))
	for id := range documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		rec := Record{}
		if doc, ok := documents[id].(map[string]any); ok {
			for k, v := range doc {
				rec[k] = v
			}
		}

		// Metadata overlay: never clobber a present document value.
		if meta, ok := metadata[id].(map[string]any); ok {
			for k, v := range meta {
				if falsy(rec[k]) {
					rec[k] = v
				}
			}
		}

		if t, ok := transcripts[id]; ok {
			rec[KeyTranscript] = t
		}

		attachPanels(rec, panels[id])

		if ref, ok := folders[id]; ok {
			rec[KeyFolderName] = ref.name
			rec[KeyFolderID] = ref.id
		} else {
			rec[KeyFolderName] = nil
			rec[KeyFolderID] = nil
		}

		records = append(records, rec)
	}

	return records, nil
}

type folderRef struct {
	id   string
	name string
}

// reconcileFolders builds the document-id → folder reverse index from
// documentLists and documentListsMetadata. A document appearing in more than
// one list keeps whichever list is processed last; with map iteration that
// choice is not deterministic across runs.
func reconcileFolders(state map[string]any) map[string]folderRef {
	lists := subMap(state, "documentLists")
	listMeta := subMap(state, "documentListsMetadata")

	out := make(map[string]folderRef)
	for listID, rawIDs := range lists {
		docIDs, ok := rawIDs.([]any)
		if !ok {
			continue
		}
		name := "Unknown"
		if meta, ok := listMeta[listID].(map[string]any); ok {
			if title, ok := meta["title"].(string); ok && title != "" {
				name = title
			}
		}
		for _, raw := range docIDs {
			docID, ok := raw.(string)
			if !ok {
				continue
			}
			out[docID] = folderRef{id: listID, name: name}
		}
	}
	return out
}

// attachPanels collects AI-summary HTML across every panel and the first
// structured content block. Panels whose stripped HTML starts with the <hr>
// marker are stubs and excluded from the summary.
func attachPanels(rec Record, rawPanels any) {
	docPanels, ok := rawPanels.(map[string]any)
	if !ok || len(docPanels) == 0 {
		return
	}

	panelIDs := make([]string, 0, len(docPanels))
	for pid := range docPanels {
		panelIDs = append(panelIDs, pid)
	}
	sort.Strings(panelIDs)

	var htmlParts []string
	var structured map[string]any
	for _, pid := range panelIDs {
		panel, ok := docPanels[pid].(map[string]any)
		if !ok {
			continue
		}
		if html, ok := panel["original_content"].(string); ok {
			if s := strings.TrimSpace(html); s != "" && !strings.HasPrefix(s, summaryMarker) {
				htmlParts = append(htmlParts, html)
			}
		}
		if structured == nil {
			if content, ok := panel["content"].(map[string]any); ok && len(content) > 0 {
				structured = content
			}
		}
	}

	if len(htmlParts) > 0 {
		rec[KeyAISummary] = strings.Join(htmlParts, "\n\n")
	}
	if structured != nil {
		rec[KeyPanelContent] = structured
	}
}

// subMap returns state[key] as a map, or an empty map when absent or
// differently shaped.
func subMap(state map[string]any, key string) map[string]any {
	if m, ok := state[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// falsy reports whether v is absent or empty in the overlay sense: nil, empty
// string, false, zero number, or an empty collection.
func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

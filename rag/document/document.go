// Package document models the knowledge articles indexed for retrieval.
package document

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Document is one knowledge-base article. Category ties it to a ticket category
// so retrieval can filter on it.
type Document struct {
	ID       string            `json:"id"`
	Title    string            `json:"title,omitempty"`
	Content  string            `json:"content"`
	Category string            `json:"category"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

var docCounter atomic.Int64

// EnsureDocumentID makes sure every document has a stable identifier.
func EnsureDocumentID(doc *Document) {
	if doc == nil || doc.ID != "" {
		return
	}
	doc.ID = fmt.Sprintf("doc_%d", docCounter.Add(1))
}

// Validate rejects documents that cannot be indexed.
func (d Document) Validate() error {
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("document %q has no content", d.ID)
	}
	if strings.TrimSpace(d.Category) == "" {
		return fmt.Errorf("document %q has no category", d.ID)
	}
	return nil
}

// IndexMetadata returns the metadata stored alongside the document's vector,
// always including the category key.
func (d Document) IndexMetadata() map[string]string {
	out := make(map[string]string, len(d.Metadata)+2)
	for k, v := range d.Metadata {
		out[k] = v
	}
	out[MetadataCategory] = d.Category
	if d.Title != "" {
		out[MetadataTitle] = d.Title
	}
	return out
}

// Metadata keys written by IndexMetadata.
const (
	MetadataCategory = "category"
	MetadataTitle    = "title"
)

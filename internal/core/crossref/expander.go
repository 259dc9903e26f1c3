package crossref

import (
	"context"
	"log"

	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/store"
)

// maxExpansions caps how many cross-referenced articles are pulled in per
// query.
const maxExpansions = 3

// Expander appends the passages a legal article cites to the result set.
// Expanded items carry score 0: they complete citation chains but must
// never outrank retrieval-ranked evidence. Every failure here is soft —
// the results come back unchanged.
//
// The citation graph is optional: without it there is no reference
// discovery, but references already present in chunk metadata are still
// resolved through the document store.
type Expander struct {
	citations store.CitationStore
	documents store.DocumentStore
}

func New(citations store.CitationStore, documents store.DocumentStore) *Expander {
	return &Expander{citations: citations, documents: documents}
}

func (e *Expander) Expand(ctx context.Context, results []model.SearchResultItem) []model.SearchResultItem {
	if len(results) == 0 || (e.citations == nil && e.documents == nil) {
		return results
	}

	present := make(map[string]bool, len(results))
	for _, r := range results {
		if r.ArticleNumber != "" {
			present[r.ArticleNumber] = true
		}
	}

	var wanted []string
	for _, r := range results {
		if len(wanted) == maxExpansions {
			break
		}
		if r.DocType != model.DocTypeArticle {
			continue
		}

		refs := referencesFromMetadata(r.Metadata)
		if len(refs) == 0 && e.citations != nil && r.ArticleNumber != "" {
			// Chunk metadata has no renvois; fall back to the graph.
			graphRefs, err := e.citations.ReferencedArticleNumbers(ctx, r.ArticleNumber, maxExpansions)
			if err != nil {
				log.Printf("citation lookup failed for %s: %v", r.ArticleNumber, err)
				continue
			}
			refs = graphRefs
		}

		for _, ref := range refs {
			if len(wanted) == maxExpansions {
				break
			}
			if ref == "" || present[ref] {
				continue
			}
			present[ref] = true
			wanted = append(wanted, ref)
		}
	}
	if len(wanted) == 0 {
		return results
	}

	chunks, err := e.fetch(ctx, wanted)
	if err != nil {
		log.Printf("cross-reference fetch failed: %v", err)
		return results
	}

	for _, c := range chunks {
		results = append(results, model.SearchResultItem{
			ID:            c.ID,
			Content:       c.Content,
			Source:        c.Source,
			DocType:       c.DocType,
			ArticleNumber: c.ArticleNumber,
			CodeName:      c.CodeName,
			SourceURL:     c.SourceURL,
			Score:         0,
		})
	}
	return results
}

// fetch resolves article numbers to chunks, preferring the citation
// graph and falling back to the document store.
func (e *Expander) fetch(ctx context.Context, numbers []string) ([]model.DocumentChunk, error) {
	if e.citations != nil {
		return e.citations.FetchArticles(ctx, numbers)
	}
	return e.documents.FetchByArticleNumbers(ctx, numbers)
}

// referencesFromMetadata reads the cross-referenced article numbers a
// chunk carries. Metadata comes from JSON, so the list arrives as []interface{}.
func referencesFromMetadata(meta map[string]interface{}) []string {
	if meta == nil {
		return nil
	}
	raw, ok := meta[model.MetadataReferencesKey]
	if !ok {
		return nil
	}
	switch refs := raw.(type) {
	case []string:
		return refs
	case []interface{}:
		out := make([]string, 0, len(refs))
		for _, v := range refs {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

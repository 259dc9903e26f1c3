package model

// Document source identifiers and doc_type tags used across the corpus.
const (
	SourceLegifrance    = "legifrance"
	SourceServicePublic = "service-public"

	DocTypeArticle = "article" // legal code article, carries citation metadata
	DocTypeFiche   = "fiche"   // service-public.fr practical sheet
	DocTypeFAQ     = "faq"
)

// MetadataReferencesKey is the chunk metadata key holding the list of
// cross-referenced article identifiers.
const MetadataReferencesKey = "references"

// DocumentChunk is a passage as stored by the document store. Read-only
// from the pipeline's perspective.
type DocumentChunk struct {
	ID            string                 `json:"id"`
	Content       string                 `json:"content"`
	Source        string                 `json:"source"`
	DocType       string                 `json:"doc_type"`
	ArticleNumber string                 `json:"article_number,omitempty"`
	CodeName      string                 `json:"code_name,omitempty"`
	SourceURL     string                 `json:"source_url,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Language      string                 `json:"language"`
	Embedding     []float32              `json:"-"`
}

// SearchResultItem is what the pipeline hands to the generation
// collaborator. Produced fresh per query, never persisted.
type SearchResultItem struct {
	ID            string  `json:"id"`
	Content       string  `json:"content"`
	Source        string  `json:"source"`
	DocType       string  `json:"doc_type"`
	ArticleNumber string  `json:"article_number,omitempty"`
	CodeName      string  `json:"code_name,omitempty"`
	SourceURL     string  `json:"source_url,omitempty"`
	Score         float64 `json:"score"`

	// Metadata rides along for the cross-reference expander; it is not
	// part of the response contract.
	Metadata map[string]interface{} `json:"-"`
}

// RankedCandidate is a retrieval candidate before reranking. A rank of 0
// means the candidate was absent from that list (ranks are 1-indexed), so
// the populated rank fields discriminate semantic-only, keyword-only and
// fused candidates.
type RankedCandidate struct {
	SearchResultItem

	SemanticRank int
	KeywordRank  int
	RRFScore     float64
}

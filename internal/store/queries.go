package store

// SQL functions installed with the corpus schema. hybrid_search fuses a
// websearch_to_tsquery lexical ranking with a pgvector cosine ranking via
// reciprocal rank fusion inside the database; vector_search is the
// cosine-only variant used for the non-pivot language branch.
const (
	hybridSearchQuery = `
		SELECT id, content, source, doc_type, article_number, code_name,
		       source_url, metadata, semantic_rank, keyword_rank, rrf_score
		FROM hybrid_search(
			query_text      => $1,
			query_embedding => $2,
			match_count     => $3,
			rrf_k           => $4,
			filter_source   => $5,
			filter_doc_type => $6,
			filter_language => $7
		)
	`

	vectorSearchQuery = `
		SELECT id, content, source, doc_type, article_number, code_name,
		       source_url, metadata, similarity
		FROM vector_search(
			query_embedding => $1,
			match_count     => $2,
			filter_source   => $3,
			filter_doc_type => $4,
			filter_language => $5
		)
	`

	fetchByArticleNumbersQuery = `
		SELECT id, content, source, doc_type, article_number, code_name,
		       source_url, metadata, language
		FROM document_chunks
		WHERE article_number = ANY($1)
	`
)

// Cypher for the Legifrance citation graph. Articles are nodes keyed by
// number; REFERENCES edges mirror the renvois between articles.
const (
	fetchArticlesCypher = `
		MATCH (a:Article)
		WHERE a.number IN $numbers
		RETURN a.number AS number, a.content AS content, a.code AS code,
		       a.source_url AS source_url
	`

	referencedArticlesCypher = `
		MATCH (a:Article {number: $number})-[:REFERENCES]->(r:Article)
		RETURN r.number AS number
		ORDER BY r.number
		LIMIT $limit
	`
)

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for citeside: configuration,
// corpus papers and graph snapshots.
package types

// Paper is one record of a citation corpus. Field names follow the ACL
// anthology corpus export so existing dumps load without conversion.
type Paper struct {
	// ID is the corpus identifier (e.g. "P07-2007", "2020.emnlp-main.50").
	ID string `json:"paper_id" yaml:"paper_id"`

	// Title is the paper title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Authors is the raw author string as exported by the corpus, e.g.
	// "Bender, Khoa and Nguyen, Dang". The reference linker parses surnames out of it.
	Authors string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year as given by the corpus.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	// URL points at the paper landing page or PDF.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// FullText is the extracted body text used for snippet retrieval.
	FullText string `json:"full_text,omitempty" yaml:"full_text,omitempty"`

	// OutgoingCitations lists ids of papers this paper cites.
	OutgoingCitations []string `json:"outgoing_acl_citations,omitempty" yaml:"outgoing_acl_citations,omitempty"`

	// IncomingCitations lists ids of papers citing this one. Informational only;
	// graph edges are always built from the citing side.
	IncomingCitations []string `json:"incoming_acl_citations,omitempty" yaml:"incoming_acl_citations,omitempty"`
}

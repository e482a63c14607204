package zoneindex

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// documentType is the bleve document type name used for all indexed
// domains. The index holds exactly one type, so this is purely internal.
const documentType = "domain"

// buildMapping constructs the bleve.IndexMapping for the document
// schema: domain/label/tld are exact-match keyword fields, tokens is a
// full-text field indexed without stemming or case folding, length is
// numeric, has_hyphen is boolean.
func buildMapping() mapping.IndexMapping {
	keyword := bleve.NewTextFieldMapping()
	keyword.Analyzer = "keyword"
	keyword.Store = true
	keyword.IncludeInAll = false

	tokenField := bleve.NewTextFieldMapping()
	tokenField.Analyzer = "keyword"
	tokenField.Store = true
	tokenField.IncludeInAll = false

	lengthField := bleve.NewNumericFieldMapping()
	lengthField.Store = true
	lengthField.IncludeInAll = false

	hyphenField := bleve.NewBooleanFieldMapping()
	hyphenField.Store = true
	hyphenField.IncludeInAll = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("domain", keyword)
	doc.AddFieldMappingsAt("label", keyword)
	doc.AddFieldMappingsAt("tld", keyword)
	doc.AddFieldMappingsAt("tokens", tokenField)
	doc.AddFieldMappingsAt("length", lengthField)
	doc.AddFieldMappingsAt("has_hyphen", hyphenField)

	idx := bleve.NewIndexMapping()
	idx.DefaultMapping = doc
	idx.DefaultType = documentType
	idx.DefaultAnalyzer = "keyword"
	return idx
}

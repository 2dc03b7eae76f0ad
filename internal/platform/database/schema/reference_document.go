package schema

// ReferenceDocumentTable represents the 'reference.document' table
type ReferenceDocumentTable struct {
	Table      string
	Collection string
	ID         string
	Body       string
	UpdatedAt  string
}

// ReferenceDocument is the schema definition for reference.document
var ReferenceDocument = ReferenceDocumentTable{
	Table:      "reference.document",
	Collection: "collection",
	ID:         "id",
	Body:       "body",
	UpdatedAt:  "updatedat",
}

package openlibrary

import "context"

// Metadata is the subset of Open Library's book record the catalog uses to
// fill optional bibliographic fields.
type Metadata struct {
	Title      string
	Publishers []string
	Subjects   []string
}

type Repo interface {
	ByISBN(ctx context.Context, isbn string) (*Metadata, error)
}

package model

// CatalogEntry is one product from the remote catalog service,
// keyed by its numeric id. Rating is kept as the textual form of
// whatever the API returned (empty when absent) since it is only
// ever printed, never computed with.
type CatalogEntry struct {
	ID       int
	Title    string
	Category string
	Brand    string
	Rating   string
}

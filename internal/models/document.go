package models

// Document is a raw course document as produced by the loader, before
// cleaning and chunking.
type Document struct {
	Name    string
	URL     string
	Title   string
	Content string
}

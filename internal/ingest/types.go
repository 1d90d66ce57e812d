package ingest

import "context"

// Catalog is the slice of the database an ingestion run drives.
type Catalog interface {
	FileExistsAndUpToDate(ctx context.Context, path string) (bool, error)
	InsertFile(ctx context.Context, path string, storeFile, generateThumbnail bool) error
}

// Options control how discovered files are indexed. Force feeds every
// regular file to the parser instead of only those with a DICM marker,
// which picks up headerless files at the cost of noisier errors.
type Options struct {
	StoreFiles bool
	Thumbnails bool
	Force      bool
}

// Result sums up one ingestion run. Errors holds the per-file failures
// the run carried on past.
type Result struct {
	FilesIngested int
	FilesSkipped  int
	FilesFailed   int
	Errors        []error
}

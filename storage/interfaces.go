package storage

import "autolist/export"

// ExportSink is the interface any export destination must satisfy.
// The HTTP server streams files to the client; the CLI writes them to
// disk.
type ExportSink interface {
	Save(file *export.File) (string, error)
}

// Package transport provides the remote-execution capability used by the
// fan-out executor: a JSON wire codec plus HTTP and in-process executors.
package transport

import (
	"time"

	"github.com/dbsmedya/gosweep/internal/scan"
)

// FilterPayload is the wire form of a scan.PathFilterSet. Entry order carries
// the filter set's root iteration order across the wire.
type FilterPayload struct {
	Filters []FilterEntry `json:"filters"`
}

// FilterEntry is one root path with its extension suffixes.
type FilterEntry struct {
	Root       string   `json:"root"`
	Extensions []string `json:"extensions"`
}

// ResultPayload is the wire form of a scan.Result.
type ResultPayload struct {
	Target        string           `json:"target"`
	PathExistence []ExistenceEntry `json:"path_existence"`
	MatchedFiles  []FileEntry      `json:"matched_files"`
	Errors        []ErrorEntry     `json:"errors"`
}

// ExistenceEntry records whether one root existed. A slice keeps the recorded
// order, which a JSON object would lose.
type ExistenceEntry struct {
	Root   string `json:"root"`
	Exists bool   `json:"exists"`
}

// FileEntry is the wire form of a scan.FileRecord.
type FileEntry struct {
	ComputerName  string    `json:"computer_name"`
	Path          string    `json:"path"`
	CreationTime  time.Time `json:"creation_time"`
	LastWriteTime time.Time `json:"last_write_time"`
	SizeBytes     int64     `json:"size_bytes"`
}

// ErrorEntry is the wire form of a scan.PathError.
type ErrorEntry struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// EncodeFilters converts a filter set to its wire form.
func EncodeFilters(filters *scan.PathFilterSet) FilterPayload {
	payload := FilterPayload{Filters: make([]FilterEntry, 0, filters.Len())}
	for _, root := range filters.Roots() {
		extensions, _ := filters.Extensions(root)
		payload.Filters = append(payload.Filters, FilterEntry{
			Root:       root,
			Extensions: extensions,
		})
	}
	return payload
}

// DecodeFilters rebuilds a filter set from its wire form.
func DecodeFilters(payload FilterPayload) *scan.PathFilterSet {
	filters := scan.NewPathFilterSet()
	for _, entry := range payload.Filters {
		filters.Add(entry.Root, entry.Extensions...)
	}
	return filters
}

// EncodeResult converts a scan result to its wire form.
func EncodeResult(result *scan.Result) ResultPayload {
	payload := ResultPayload{
		Target:        result.Target,
		PathExistence: make([]ExistenceEntry, 0, result.PathExistence.Len()),
		MatchedFiles:  make([]FileEntry, 0, len(result.MatchedFiles)),
		Errors:        make([]ErrorEntry, 0, len(result.Errors)),
	}

	for el := result.PathExistence.Front(); el != nil; el = el.Next() {
		payload.PathExistence = append(payload.PathExistence, ExistenceEntry{
			Root:   el.Key,
			Exists: el.Value,
		})
	}

	for _, file := range result.MatchedFiles {
		payload.MatchedFiles = append(payload.MatchedFiles, FileEntry{
			ComputerName:  file.ComputerName,
			Path:          file.Path,
			CreationTime:  file.CreationTime,
			LastWriteTime: file.LastWriteTime,
			SizeBytes:     file.SizeBytes,
		})
	}

	for _, pathErr := range result.Errors {
		payload.Errors = append(payload.Errors, ErrorEntry{
			Path:    pathErr.Path,
			Message: pathErr.Message,
		})
	}

	return payload
}

// DecodeResult rebuilds a scan result from its wire form.
func DecodeResult(payload ResultPayload) *scan.Result {
	result := scan.NewResult(payload.Target)

	for _, entry := range payload.PathExistence {
		result.PathExistence.Set(entry.Root, entry.Exists)
	}

	for _, file := range payload.MatchedFiles {
		result.MatchedFiles = append(result.MatchedFiles, scan.FileRecord{
			ComputerName:  file.ComputerName,
			Path:          file.Path,
			CreationTime:  file.CreationTime,
			LastWriteTime: file.LastWriteTime,
			SizeBytes:     file.SizeBytes,
		})
	}

	for _, entry := range payload.Errors {
		result.Errors = append(result.Errors, scan.PathError{
			Path:    entry.Path,
			Message: entry.Message,
		})
	}

	return result
}

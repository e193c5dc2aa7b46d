// Package ingestion turns uploaded documents into embedded, queryable
// chunks.
//
// Files are loaded by content type, split into overlapping chunks,
// embedded in a single batch per file, and upserted into the chunk
// repository in fixed-size batches. Failures are isolated per file: an
// unreadable or unsupported document is reported in the batch Report
// without stopping the rest of the upload.
package ingestion

// Package connectors holds sources that feed documents into ingestion.
// The filesystem connector watches a folder for new or changed PDFs.
package connectors

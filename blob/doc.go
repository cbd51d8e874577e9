// Package blob holds the raw content a resource descriptor points at.
//
// Content is a ReadOnlyBlob and may optionally report its size (SizeAware),
// the digest of its bytes (DigestAware) and its media type (MediaTypeAware).
// Resolved resources are never written back, so there is no writeable counterpart.
//
// ReadText materializes a blob as UTF-8 text, the form every file and remote
// resource is handed to the resource package in.
//
// File backed blobs live in the filesystem sub-package, blobs over one-shot
// readers such as HTTP response bodies in the inmemory sub-package.
package blob

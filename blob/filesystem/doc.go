// Package filesystem provides read-only blobs backed by a file system.
//
// The main interaction point is the Blob, which delegates all meta-operations to an fs.FS.
// For content on the local operating system, use:
//   - IsRegularFile to check whether a path names an existing regular file
//   - GetBlobFromOSPath to open such a file as a Blob
package filesystem

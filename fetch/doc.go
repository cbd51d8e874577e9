// Package fetch resolves a resource descriptor into its raw content.
//
// Sources are tried in a fixed order and the first success wins:
//  1. inline data of the descriptor, returned verbatim without any I/O
//  2. the descriptor path, resolved against the base path; read from local disk if it names a regular file,
//     otherwise requested as a URL with a single HTTP GET
//  3. the descriptor URL, requested with a single HTTP GET
//
// If every attempted source fails, the error of the first attempt is returned as *Error.
// If the descriptor names no source at all, Fetch returns no content and no error.
//
// Requests are never retried. Deadlines and cancellation are taken from the context passed to Fetch.
package fetch

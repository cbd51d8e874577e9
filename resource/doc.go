// Package resource turns resource descriptors into loaded resources.
//
// A Resource owns the content fetched for its descriptor and serves it from a cache for as long as the
// descriptor keeps pointing at the same data, path and url handles (see package descriptor). Replacing one of
// those handles makes the next Data call fetch again; changing a value behind an unchanged handle is not detected.
//
// A TabularResource additionally interprets textual content as a JSON array or, failing that, as CSV with a
// header row, and only accepts content that ends up as a sequence of rows.
//
// Load is the entry point for most callers: it returns a TabularResource when the content is tabular and falls
// back to a plain Resource when it is not. Fetch failures are never hidden by that fallback.
//
// Resources perform blocking I/O inside Data whenever the cache is stale and are not safe for concurrent use.
package resource

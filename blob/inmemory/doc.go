// Package inmemory provides a ReadOnlyBlob that drains a source reader exactly once and serves all later reads
// from memory. It is used for content that can only be consumed once, such as HTTP response bodies.
package inmemory

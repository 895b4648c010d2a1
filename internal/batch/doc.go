// Package batch persists export jobs in SQLite and drains them through a
// bounded worker pool. Jobs carry a fully compiled transcoding plan so a
// queued export runs identically no matter when the engine picks it up.
package batch

// Package services defines the shared error taxonomy used across the editor,
// compiler, and batch engine.
//
// Errors are tagged with sentinel markers so callers can classify failures
// with errors.Is without parsing messages. Wrap attaches component and
// operation context while preserving both the marker and the underlying
// cause.
package services

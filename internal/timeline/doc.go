// Package timeline defines the multi-track edit data model: timelines,
// tracks, clips, and effects.
//
// The package enforces structural integrity only (identifier uniqueness,
// clip ordering, derived duration). Business rules such as overlap policy
// and range validation belong to the editor package, which is the sole
// mutator of these types in normal operation.
//
// All exported types carry JSON tags; persisted representations round-trip
// losslessly through encoding/json, including effect parameters for effect
// types this version does not know about.
package timeline

// Package editor mutates a timeline through reversible edit operations.
//
// Every successful mutation appends exactly one history record carrying
// before/after clip snapshots, so Undo and Redo restore prior state rather
// than merely moving a cursor. Operations follow the documented idempotence
// choices: deleting an absent clip and splitting outside a clip's interior
// are silent no-ops, not errors.
//
// The editor assumes a single logical owner per timeline; it carries no
// internal locking.
package editor

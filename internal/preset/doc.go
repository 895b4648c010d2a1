// Package preset holds the delivery preset catalog and the pre-export
// validator and size estimator.
//
// Presets are immutable bundles of encode settings targeting a delivery
// platform. The built-in catalog covers common platforms; host
// applications may register additional presets at startup. Validation
// separates hard errors (constraint violations that block export) from
// warnings (conditions worth surfacing that never block compilation).
package preset

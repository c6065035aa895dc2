// Package fields turns a power type Set into bound form controls.
//
// Build is a pure function from (power types, current values, Config) to a
// View: an optional power type selector plus one Control per in-scope field
// of the selected power type. Reconcile is the pure state transition applied
// when the selected power type changes; defaults always win over values left
// from the previous selection. Binder glues both onto a formstate.State so
// that a selection change lands as a single atomic update.
package fields

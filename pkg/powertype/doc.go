// Package powertype describes the server-supplied power driver schemas that
// drive dynamic form rendering. A PowerType (keyed by Name) lists the Fields
// a machine or chassis needs for that driver; each Field carries its input
// kind, label, default, optional choices, and a Scope that tells callers
// whether the value belongs to the node itself or to its management
// controller (BMC). Documents decode from the JSON the power-types API
// returns (choices as two-element arrays) as well as from YAML fixtures.
// Sets are immutable once decoded; Store adds load-once caching on top of any
// Loader implementation.
package powertype

// Package formstate holds the values, touched flags, and errors of a form
// addressed by dotted paths such as "power_parameters.power_address". It plays
// the role of the enclosing form container: renderers read from it and write
// back through SetFieldValue, SetFieldTouched, or batched Update calls.
package formstate

// Package types defines the shared data model flowing through the
// context-slice pipeline: the typed IR the loader produces, the graph the
// builder constructs over it, and the slice the packager serializes.
package types

// FileID is the short synthetic token a static producer assigns to a
// source file, e.g. "f01". It is opaque outside file lookups.
type FileID string

// SymbolID is the canonical stringified symbol identifier, following the
// grammar "<language>::<fqcn>[::<method-name>(<param-types>)]". Constructor
// method names are "<init>"; simple type names strip package prefixes.
type SymbolID string

// ConfigKey is the dotted configuration key a ConfigRead resolves, e.g.
// "order.payment.provider".
type ConfigKey string

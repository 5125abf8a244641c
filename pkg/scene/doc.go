// Package scene defines the set of named, placed hulls produced by script
// evaluation. A Scene is built once per evaluation and is read-only while
// queries run against it.
package scene

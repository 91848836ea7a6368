// Package output writes run results.
//
// A Sink stores named files either in a local directory or in the storage
// bucket. Print renders command output as a table, JSON or YAML.
package output

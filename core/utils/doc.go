// Package utils provides small conversion helpers shared by the engine and
// its collaborators, mostly for turning loosely typed cell values into text
// and numbers.
package utils

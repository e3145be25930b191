// Package library lists the candidate directories found directly under a
// library root.
package library

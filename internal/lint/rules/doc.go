// Package rules holds the built-in lint rules. Importing it registers them
// with the lint registry.
package rules

// Package hash holds the one-way hashing implementations used for
// passwords and derived secrets. Callers depend on the Hash interface
// and never on a specific algorithm.
package hash

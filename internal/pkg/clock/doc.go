// Package clock wraps time.Now behind an interface so code that
// stamps or compares times can be driven by a fixed clock in tests.
package clock

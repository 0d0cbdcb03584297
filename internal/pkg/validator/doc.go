// Package validator exposes struct validation behind a small
// interface so request types can declare their rules with tags and
// use cases can validate them uniformly. The concrete implementation
// wraps go-playground/validator v10.
package validator

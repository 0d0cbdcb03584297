// Package messaging publishes and consumes the domain events that
// flow between modules, behind interfaces that hide the broker. NSQ
// and NATS drivers ship here; swapping them is a config change.
package messaging

// Package mocks provides in-memory implementations of the store and
// service interfaces for testing. Each mock offers function fields to
// override behavior per test, with a usable default implementation
// backed by maps.
package mocks

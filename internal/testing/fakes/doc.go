// Package fakes provides in-memory implementations of the repository
// interfaces for service and handler tests. They keep the same ordering and
// not-found semantics as the gorm and mongo repositories.
package fakes

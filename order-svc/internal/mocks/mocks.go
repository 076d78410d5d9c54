// Package mocks holds testify mocks for the order-svc service and storage
// interfaces, in the shape mockery produces.
package mocks

import "github.com/stretchr/testify/mock"

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// value returns the i-th return value as T, or T's zero value when the
// expectation returned nil.
func value[T any](args mock.Arguments, i int) T {
	var zero T
	if v := args.Get(i); v != nil {
		return v.(T)
	}
	return zero
}

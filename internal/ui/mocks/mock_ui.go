package mocks

import (
	"github.com/nikunjcodes/AirlineManagementSystem/internal/ui"
	"github.com/stretchr/testify/mock"
)

// MockNavigator is a mock implementation of ui.Navigator
type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) Navigate(path string) {
	m.Called(path)
}

// MockNotifier is a mock implementation of ui.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(n ui.Notification) {
	m.Called(n)
}

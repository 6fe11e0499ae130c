// Package ui holds the seams between the booking and account workflows and
// whatever front end drives them.
package ui

// Routes a workflow may send the user to.
const (
	PathHome    = "/"
	PathAuth    = "/auth"
	PathFlights = "/flights"
	PathTickets = "/tickets"
)

// Level is the severity of a notification
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a transient message shown to the user
type Notification struct {
	Title   string
	Message string
	Level   Level
}

// Navigator moves the user to another route
type Navigator interface {
	Navigate(path string)
}

// Notifier shows notifications
type Notifier interface {
	Notify(n Notification)
}

// Info builds an informational notification.
func Info(title, message string) Notification {
	return Notification{Title: title, Message: message, Level: LevelInfo}
}

// Error builds an error notification.
func Error(title, message string) Notification {
	return Notification{Title: title, Message: message, Level: LevelError}
}

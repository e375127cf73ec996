package types

// NotificationType selects the toast style.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
)

// Notification is a fire-and-forget, user-facing message.
type Notification struct {
	Type   NotificationType
	Title  string
	Detail string
}

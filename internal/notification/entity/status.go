package entity

// NotificationStatus filters a user's notification feed.
type NotificationStatus string

// Accepted values for the status query parameter.
const (
	NotificationStatusAll    NotificationStatus = "all"
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

// models/notification.go
package models

// PushPayload is the payload of a queued push-notification task.
type PushPayload struct {
	UserID string            `json:"userId"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// InvitePayload is the payload of a queued invitation-delivery task.
type InvitePayload struct {
	CabinetID   string `json:"cabinetId"`
	CabinetName string `json:"cabinetName"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Token       string `json:"token"`
	InvitedBy   string `json:"invitedBy"`
}

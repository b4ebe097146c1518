package entity

// HouseInput is the payload for creating or updating a house.
type HouseInput struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// RoomInput is the payload for creating or updating a room.
type RoomInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DeviceInput is the payload for creating or updating a device. RoomID is
// set by the caller on create; the backend ignores it on update.
type DeviceInput struct {
	RoomID       int64      `json:"roomId,omitempty"`
	Name         string     `json:"name"`
	Type         DeviceType `json:"type"`
	Properties   Document   `json:"properties"`
	Capabilities Document   `json:"capabilities"`
}

// MemberInput adds a user to a house.
type MemberInput struct {
	HouseID int64      `json:"houseId"`
	UserID  int64      `json:"userId"`
	Role    MemberRole `json:"role"`
}

// LoginInput authenticates a user.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput creates a new account.
type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	UserName        string `json:"userName"`
	Phone           string `json:"phone"`
}

// ForgotPasswordInput requests a password-reset email.
type ForgotPasswordInput struct {
	Email string `json:"email"`
}

// ResetPasswordInput redeems a reset token for a new password.
type ResetPasswordInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

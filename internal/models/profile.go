package models

// Profile holds the editable part of a user's account.
type Profile struct {
	UserID       int    `json:"user_id"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	ProfileImage string `json:"profile_image"`
	JoinedDate   string `json:"joined_date"`
}

type UpdateProfileRequest struct {
	Phone        string `json:"phone" validate:"omitempty,max=32"`
	ProfileImage string `json:"profile_image"`
}

package user

// RegisterRequest is the request body for POST /users.
type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	ReferralCode string `json:"referralCode"`
}

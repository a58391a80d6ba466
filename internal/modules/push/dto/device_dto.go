package dto

type RegisterTokenRequest struct {
	Token    string `json:"fcm_token" binding:"required,max=4096"`
	Platform string `json:"platform" binding:"omitempty,oneof=android ios web"`
}

package model

const TokenTypeBearer = "bearer"

// TokenPair is returned by login and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// MessageResponse is the body of informational replies
type MessageResponse struct {
	Message string `json:"message"`
}

package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ada@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// SignupRequest creates a new student account
type SignupRequest struct {
	Name     string `json:"name" binding:"required,personname,min=2,max=150" example:"Ada Lovelace"`
	Email    string `json:"email" binding:"required,email,max=255" example:"ada@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"s3cret-pass"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"3600"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token   TokenResponse   `json:"token"`
	Student StudentResponse `json:"student"`
}

package dto

// AdminLoginRequest is the admin login payload
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@cesa.edu.tr"`
	Password string `json:"password" binding:"required" example:"s3cure-pass"`
}

// RefreshTokenRequest is the admin token refresh payload
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries an issued admin token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
	TokenType        string `json:"tokenType" example:"Bearer"`
}

// VoterLoginRequest is the voter login payload
type VoterLoginRequest struct {
	AssociationCode string `json:"associationCode" binding:"required" example:"CESA"`
	StudentID       string `json:"studentId" binding:"required" example:"20210001"`
	Password        string `json:"password" binding:"required"`
}

// VoterSessionResponse carries an issued voter session token
type VoterSessionResponse struct {
	SessionToken string `json:"sessionToken"`
	VoterName    string `json:"voterName" example:"Zeynep Arslan"`
	HasVoted     bool   `json:"hasVoted" example:"false"`
	ExpiresIn    int    `json:"expiresIn" example:"900"`
}

// RegisterVoterRequest is the admin payload for registering a voter
type RegisterVoterRequest struct {
	StudentID string `json:"studentId" binding:"required" example:"20210001"`
	Name      string `json:"name" binding:"required" example:"Zeynep Arslan"`
	Email     string `json:"email" binding:"required,email" example:"zeynep@school.edu.tr"`
	Password  string `json:"password" binding:"required,min=8"`
}

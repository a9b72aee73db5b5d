package presenter

import (
	authDTO "github.com/voiceattendance/voice-attendance/internal/adapter/dto/auth"
	"github.com/voiceattendance/voice-attendance/internal/usecase/auth"
)

// ToIdentityResponse converts a usecase Identity to its response DTO
func ToIdentityResponse(id *auth.Identity) *authDTO.IdentityResponse {
	if id == nil {
		return nil
	}
	return &authDTO.IdentityResponse{
		ID:        id.ID.String(),
		Role:      id.Role,
		Username:  id.Username,
		Email:     id.Email,
		StudentID: id.StudentID,
		Name:      id.Name,
	}
}

// ToTokenPairResponse converts an issued token pair to its response DTO
func ToTokenPairResponse(pair *auth.TokenPair) *authDTO.TokenPairResponse {
	if pair == nil {
		return nil
	}
	return &authDTO.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		TokenType:    pair.TokenType,
		Identity:     ToIdentityResponse(pair.Identity),
	}
}

package http

import (
	"encoding/json"

	"github.com/aussiebroadwan/cms/internal/auth/domain"
	"github.com/aussiebroadwan/cms/internal/auth/service"
	"github.com/aussiebroadwan/cms/pkg/authsdk"
)

func toTokenPair(p domain.TokenPair) authsdk.TokenPair {
	return authsdk.TokenPair{Token: p.Token, RefreshToken: p.RefreshToken}
}

func toUserResponse(u domain.User) authsdk.UserResponse {
	return authsdk.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		RoleLabel: u.Role.Label(),
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toRoleResponses(roles []service.RoleInfo) []authsdk.RoleResponse {
	out := make([]authsdk.RoleResponse, len(roles))
	for i, r := range roles {
		out[i] = authsdk.RoleResponse{Name: r.Name, Label: r.Label}
	}
	return out
}

func toActivityResponses(entries []domain.ActivityEntry) []authsdk.ActivityResponse {
	out := make([]authsdk.ActivityResponse, len(entries))
	for i, e := range entries {
		var metadata json.RawMessage
		if len(e.Metadata) > 0 {
			metadata, _ = json.Marshal(e.Metadata)
		}
		out[i] = authsdk.ActivityResponse{
			ID:        e.ID,
			Action:    string(e.Action),
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			ActorName: e.ActorName,
			IPAddress: e.IPAddress,
			UserAgent: e.UserAgent,
			Metadata:  metadata,
			CreatedAt: e.CreatedAt,
		}
	}
	return out
}

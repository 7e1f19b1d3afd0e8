package models

import (
	"github.com/google/uuid"
)

// Actor roles carried by API keys. Role-based authorization decisions
// belong to the outer system; this core only resolves who is calling.
const (
	ActorRoleOperator   = "operator"
	ActorRoleSupervisor = "supervisor"
)

type APIKey struct {
	ID        uuid.UUID `json:"id"`
	ActorID   uuid.UUID `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Role      string    `json:"role"`
	KeyHash   string    `json:"-"`
	KeyPrefix string    `json:"key_prefix"`
	IsActive  bool      `json:"is_active"`
}

package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the single authorization role carried by an account.
type Role string

const (
	RoleManager    Role = "manager"
	RoleSalesAgent Role = "sales_agent"
	RoleUnassigned Role = "unassigned"
)

// ParseRole maps user input onto a Role. Only assignable roles are accepted.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleManager:
		return RoleManager, nil
	case RoleSalesAgent, "salesagent", "sales":
		return RoleSalesAgent, nil
	default:
		return RoleUnassigned, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, value)
	}
}

// Account is a login able to act on the workflow.
type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	Title        string             `bson:"title" json:"title"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// Actor returns the identity used for authorization checks.
func (a Account) Actor() Actor {
	return Actor{ID: a.ID, Username: a.Username, Role: a.Role}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID       primitive.ObjectID
	Username string
	Role     Role
}

// IsManager reports whether the actor holds the Manager role.
func (a Actor) IsManager() bool { return a.Role == RoleManager }

// IsSalesAgent reports whether the actor holds the Sales Agent role.
func (a Actor) IsSalesAgent() bool { return a.Role == RoleSalesAgent }

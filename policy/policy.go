// Package policy evaluates access rules as a pure function of the caller,
// the attempted action and the target row. It holds no storage handles, so
// every rule is testable without a database. The caller's role set is loaded
// once per request by the auth middleware through a privileged read; the
// rules below never trigger further lookups.
package policy

import (
	"errors"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type Action string

const (
	ReadBook         Action = "book.read"
	WriteBook        Action = "book.write"
	ReadBorrow       Action = "borrow.read"
	CreateBorrow     Action = "borrow.create"
	TransitionBorrow Action = "borrow.transition"
	ReadProfile      Action = "profile.read"
	UpdateProfile    Action = "profile.update"
	ReadRoles        Action = "roles.read"
	SelfAssignRole   Action = "roles.self_assign"
	AdminUserMgmt    Action = "admin.user_mgmt"
)

// Caller is the authenticated identity plus its resolved role set.
// A zero ID means the request carried no valid credential.
type Caller struct {
	ID    int64
	Email string
	Roles []model.Role
}

func (c Caller) IsAdmin() bool   { return model.HasRole(c.Roles, model.RoleAdmin) }
func (c Caller) IsStudent() bool { return model.HasRole(c.Roles, model.RoleStudent) }

// Resource identifies the row an action targets. OwnerID is the owning user
// for borrow requests, profiles and role rows; Role is the role value for
// self-assignment checks.
type Resource struct {
	OwnerID int64
	Role    model.Role
}

// Decide returns nil when the caller may perform the action, ErrUnauthorized
// when no identity is present, and ErrForbidden otherwise. Book reads are
// the only rule open to anonymous callers.
func Decide(c Caller, a Action, r Resource) error {
	if a == ReadBook {
		return nil
	}
	if c.ID == 0 {
		return ErrUnauthorized
	}

	switch a {
	case WriteBook, TransitionBorrow, AdminUserMgmt:
		if !c.IsAdmin() {
			return ErrForbidden
		}
		return nil

	case ReadBorrow:
		if c.IsAdmin() || c.ID == r.OwnerID {
			return nil
		}
		return ErrForbidden

	case CreateBorrow:
		// only as oneself, and only while holding the student role
		if c.ID != r.OwnerID || !c.IsStudent() {
			return ErrForbidden
		}
		return nil

	case ReadProfile, UpdateProfile, ReadRoles:
		if c.ID != r.OwnerID {
			return ErrForbidden
		}
		return nil

	case SelfAssignRole:
		// a caller may self-insert the student role, never admin
		if c.ID != r.OwnerID || r.Role != model.RoleStudent {
			return ErrForbidden
		}
		return nil
	}

	return ErrForbidden
}

// Package adminsvc holds the privileged user-administration operations:
// deleting an account, bootstrapping the first admin, and granting or
// revoking the admin role. Every entry point is gated on the caller's role
// except bootstrap, which is gated on the system holding zero admins.
package adminsvc

import (
	"context"
	"errors"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/policy"
)

type ErrCode string

const (
	ErrUnauthorized ErrCode = "UNAUTHORIZED"
	ErrForbidden    ErrCode = "FORBIDDEN"
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrAdminsExist  ErrCode = "ADMINS_EXIST"
	ErrBadInput     ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Outcome is the user-facing result of an idempotent role change.
type Outcome string

const (
	OutcomeGranted      Outcome = "granted"
	OutcomeAlreadyAdmin Outcome = "already_admin"
	OutcomeRevoked      Outcome = "revoked"
)

const (
	ActionGrant  = "grant"
	ActionRevoke = "revoke"
)

type UserRepo interface {
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Delete(ctx context.Context, userID int64) (bool, error)
}

type RoleRepo interface {
	HasRole(ctx context.Context, userID int64, role model.Role) (bool, error)
	Grant(ctx context.Context, userID int64, role model.Role) (bool, error)
	Revoke(ctx context.Context, userID int64, role model.Role) (bool, error)
	GrantFirstAdmin(ctx context.Context, userID int64) (bool, error)
}

type Service interface {
	// DeleteUser removes the account behind email. Admin only; deleting
	// one's own account is refused.
	DeleteUser(ctx context.Context, actor policy.Caller, email string) error

	// BootstrapAdmin grants the caller the admin role only while zero admin
	// rows exist. A lost race where the caller ended up admin anyway is
	// reported as success.
	BootstrapAdmin(ctx context.Context, actor policy.Caller) error

	// ManageAdminRole grants or revokes the admin role for the account
	// behind email. Both directions are idempotent.
	ManageAdminRole(ctx context.Context, actor policy.Caller, email, action string) (Outcome, error)
}

type service struct {
	ur UserRepo
	rr RoleRepo
}

func New(ur UserRepo, rr RoleRepo) Service { return &service{ur: ur, rr: rr} }

func (s *service) DeleteUser(ctx context.Context, actor policy.Caller, email string) error {
	if err := policy.Decide(actor, policy.AdminUserMgmt, policy.Resource{}); err != nil {
		return mapPolicyErr(err)
	}

	target, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		return err
	}
	if target == nil {
		return makeErr(ErrNotFound)
	}
	if target.ID == actor.ID {
		// an admin removing themselves could leave the system adminless
		return makeErr(ErrForbidden)
	}

	ok, err := s.ur.Delete(ctx, target.ID)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) BootstrapAdmin(ctx context.Context, actor policy.Caller) error {
	if actor.ID == 0 {
		return makeErr(ErrUnauthorized)
	}

	inserted, err := s.rr.GrantFirstAdmin(ctx, actor.ID)
	if err != nil {
		return err
	}
	if inserted {
		return nil
	}

	// either admins exist, or we lost a race but hold the role regardless
	isAdmin, err := s.rr.HasRole(ctx, actor.ID, model.RoleAdmin)
	if err != nil {
		return err
	}
	if isAdmin {
		return nil
	}
	return makeErr(ErrAdminsExist)
}

func (s *service) ManageAdminRole(ctx context.Context, actor policy.Caller, email, action string) (Outcome, error) {
	if err := policy.Decide(actor, policy.AdminUserMgmt, policy.Resource{}); err != nil {
		return "", mapPolicyErr(err)
	}

	target, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", makeErr(ErrNotFound)
	}

	switch action {
	case ActionGrant:
		inserted, err := s.rr.Grant(ctx, target.ID, model.RoleAdmin)
		if err != nil {
			return "", err
		}
		if !inserted {
			return OutcomeAlreadyAdmin, nil
		}
		return OutcomeGranted, nil

	case ActionRevoke:
		// zero rows deleted is still success
		if _, err := s.rr.Revoke(ctx, target.ID, model.RoleAdmin); err != nil {
			return "", err
		}
		return OutcomeRevoked, nil
	}

	return "", makeErr(ErrBadInput)
}

func mapPolicyErr(err error) error {
	if errors.Is(err, policy.ErrUnauthorized) {
		return makeErr(ErrUnauthorized)
	}
	return makeErr(ErrForbidden)
}

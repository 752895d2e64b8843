package profilesvc

import (
	"context"
	"errors"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/policy"
	profilerepo "github.com/thabsheeribrahim2004-sudo/misbahlibrary/repository/profile"
)

var (
	ErrNotFound  = errors.New("profile not found")
	ErrForbidden = errors.New("forbidden")
)

type UpdateInput struct {
	Name       string
	RollNo     *string
	Department *string
	Year       *int
}

type Service interface {
	// Mine returns the caller's own profile.
	Mine(ctx context.Context, actor policy.Caller) (*model.Profile, error)
	UpdateMine(ctx context.Context, actor policy.Caller, in UpdateInput) (*model.Profile, error)
}

type service struct{ pr profilerepo.Repo }

func New(pr profilerepo.Repo) Service { return &service{pr: pr} }

func (s *service) Mine(ctx context.Context, actor policy.Caller) (*model.Profile, error) {
	if err := policy.Decide(actor, policy.ReadProfile, policy.Resource{OwnerID: actor.ID}); err != nil {
		return nil, ErrForbidden
	}
	p, err := s.pr.ByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *service) UpdateMine(ctx context.Context, actor policy.Caller, in UpdateInput) (*model.Profile, error) {
	if err := policy.Decide(actor, policy.UpdateProfile, policy.Resource{OwnerID: actor.ID}); err != nil {
		return nil, ErrForbidden
	}

	p, err := s.pr.ByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}

	if in.Name != "" {
		p.Name = in.Name
	}
	if in.RollNo != nil {
		p.RollNo = in.RollNo
	}
	if in.Department != nil {
		p.Department = in.Department
	}
	if in.Year != nil {
		p.Year = in.Year
	}

	if _, err := s.pr.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

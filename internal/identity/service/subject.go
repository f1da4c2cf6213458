package service

import (
	"context"

	"homeservices_backend/internal/identity/repository"
	"homeservices_backend/platform/apperr"

	"github.com/google/uuid"
)

// Subject is the fully resolved caller identity: the account plus the
// profile matching its role. Exactly one of Professional/Customer is set
// for those roles; admins carry neither.
type Subject struct {
	User         repository.User
	Role         repository.Role
	Professional *repository.Professional
	Customer     *repository.Customer
}

// IsAdmin reports whether the subject is an administrator.
func (s Subject) IsAdmin() bool { return s.Role == repository.RoleAdmin }

// Resolver resolves an authenticated user ID into a Subject.
type Resolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (Subject, error)
}

// Resolve loads the account and its role profile. Deactivated accounts are
// rejected here so every downstream operation inherits the check.
func (s *Service) Resolve(ctx context.Context, userID uuid.UUID) (Subject, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return Subject{}, err
	}
	if !user.Active {
		return Subject{}, apperr.Forbidden("account deactivated")
	}

	subject := Subject{User: user, Role: user.Role}

	switch user.Role {
	case repository.RoleAdmin:
		return subject, nil
	case repository.RoleProfessional:
		p, err := s.repo.GetProfessionalByUserID(ctx, userID)
		if err != nil {
			return Subject{}, err
		}
		subject.Professional = &p
		return subject, nil
	case repository.RoleCustomer:
		c, err := s.repo.GetCustomerByUserID(ctx, userID)
		if err != nil {
			return Subject{}, err
		}
		subject.Customer = &c
		return subject, nil
	default:
		return Subject{}, apperr.Internal("unknown account role")
	}
}

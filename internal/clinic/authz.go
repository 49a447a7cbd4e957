package clinic

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"clinic-appointment-api/internal/model"
)

// Authorize is the single choke point in front of the scheduling data: parse
// the token, then resolve its subject against the store for the required
// role. Every failure collapses into ErrUnauthorized.
func (s *Service) Authorize(ctx context.Context, token string, role model.Role) (*Identity, error) {
	return s.AuthorizeAny(ctx, token, role)
}

// AuthorizeAny accepts the first role the subject resolves under. Used by
// endpoints open to more than one role.
func (s *Service) AuthorizeAny(ctx context.Context, token string, roles ...model.Role) (*Identity, error) {
	subject, err := s.codec.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	for _, role := range roles {
		ident, err := s.resolve(ctx, subject, role)
		if err == nil {
			return ident, nil
		}
	}
	return nil, ErrUnauthorized
}

func (s *Service) resolve(ctx context.Context, subject string, role model.Role) (*Identity, error) {
	switch role {
	case model.RoleAdmin:
		a, err := s.accounts.AdminByUsername(ctx, subject)
		if err != nil {
			return nil, s.resolveErr(err)
		}
		return &Identity{Role: role, Subject: subject, AccountID: a.ID}, nil
	case model.RoleDoctor:
		d, err := s.accounts.DoctorByEmail(ctx, subject)
		if err != nil {
			return nil, s.resolveErr(err)
		}
		return &Identity{Role: role, Subject: subject, AccountID: d.ID}, nil
	case model.RolePatient:
		p, err := s.accounts.PatientByEmail(ctx, subject)
		if err != nil {
			return nil, s.resolveErr(err)
		}
		return &Identity{Role: role, Subject: subject, AccountID: p.ID}, nil
	}
	return nil, ErrUnauthorized
}

func (s *Service) resolveErr(err error) error {
	if !errors.Is(err, ErrNotFound) {
		s.log.Error("account lookup failed", zap.Error(err))
	}
	return ErrUnauthorized
}

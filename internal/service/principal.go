package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/cloo-solutions/simsearch/internal/domain"
)

// PrincipalDirectory looks up accounts that may call the search subsystem.
type PrincipalDirectory interface {
	// GetPrincipal returns domain.ErrPrincipalNotFound for unknown ids and
	// domain.ErrPrincipalInactive for deactivated accounts.
	GetPrincipal(ctx context.Context, id int64) (*domain.Principal, error)
}

// PrincipalService resolves the trusted upstream identity into a Principal.
type PrincipalService struct {
	directory PrincipalDirectory
}

func NewPrincipalService(directory PrincipalDirectory) *PrincipalService {
	return &PrincipalService{directory: directory}
}

// ResolvePrincipal parses an account id and loads the matching principal.
// Every failure other than a store error is reported as unauthenticated.
func (s *PrincipalService) ResolvePrincipal(ctx context.Context, raw string) (domain.Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	p, err := s.directory.GetPrincipal(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return domain.Principal{}, domain.NewDomainErrorWithCause(domain.ErrCodeUnauthorized, domain.ErrUnauthenticated.Message, err)
		}
		return domain.Principal{}, err
	}
	if err := domain.ValidatePrincipal(*p); err != nil {
		return domain.Principal{}, domain.NewDomainErrorWithCause(domain.ErrCodeUnauthorized, domain.ErrUnauthenticated.Message, err)
	}
	return *p, nil
}

package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

// Provisioner runs once for each newly created provider, for per-provider
// setup like dictionary seeding. Failures are the provisioner's to log;
// they never block login.
type Provisioner func(ctx context.Context, prov models.Provider)

type Service struct {
	repo         *Repository
	provisioners []Provisioner
}

func NewService(repo *Repository, provisioners ...Provisioner) *Service {
	return &Service{repo: repo, provisioners: provisioners}
}

// GetOrCreate resolves a provider by email, creating the record on first
// sight. The existence check and the insert are separate statements; a
// concurrent duplicate create is an accepted risk under the one-session-per-
// provider usage model.
func (s *Service) GetOrCreate(ctx context.Context, req models.GetOrCreateProviderRequest) (models.Provider, error) {
	if strings.TrimSpace(req.Email) == "" {
		return models.Provider{}, fmt.Errorf("email is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return models.Provider{}, fmt.Errorf("name is required")
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Provider{}, err
	}

	created, err := s.repo.Create(ctx, req)
	if err != nil {
		return models.Provider{}, err
	}
	for _, provision := range s.provisioners {
		provision(ctx, created)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (models.Provider, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (models.Provider, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context) ([]models.Provider, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch models.ProviderPatch) (models.Provider, error) {
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return models.Provider{}, err
	}
	return s.repo.Get(ctx, id)
}

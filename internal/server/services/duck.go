package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/validate"
	"golang.org/x/sync/errgroup"
)

// DuckCatalog is the third-party duck API.
type DuckCatalog interface {
	Search(ctx context.Context, query string) ([]*models.Duck, error)
	Retrieve(ctx context.Context, id string) (*models.Duck, error)
}

// favoritesFetchLimit bounds concurrent catalogue calls per request.
const favoritesFetchLimit = 8

type DuckService struct {
	repos   repomanager.RepositoryManager
	catalog DuckCatalog
}

func NewDuckService(m repomanager.RepositoryManager, catalog DuckCatalog) *DuckService {
	return &DuckService{repos: m, catalog: catalog}
}

func duckNotFound(id string) error {
	return common.NewLogicError(common.ErrorNotFound, fmt.Sprintf("duck with id %q does not exist", id))
}

func (s *DuckService) SearchDucks(ctx context.Context, query string) ([]*models.Duck, error) {
	return s.catalog.Search(ctx, query)
}

func (s *DuckService) RetrieveDuck(ctx context.Context, id string) (*models.Duck, error) {
	if err := validate.Arguments(validate.Arg{Name: "id", Value: id, Type: validate.String, NotEmpty: true}); err != nil {
		return nil, err
	}

	d, err := s.catalog.Retrieve(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, duckNotFound(id)
		}
		return nil, err
	}
	return d, nil
}

// ToggleFavorite adds duckID to the user's favorites or removes it when it
// is already there. It reports whether the duck is a favorite afterwards.
func (s *DuckService) ToggleFavorite(ctx context.Context, userID, duckID string) (bool, error) {
	if err := validate.Arguments(
		validate.Arg{Name: "id", Value: userID, Type: validate.String, NotEmpty: true},
		validate.Arg{Name: "duckId", Value: duckID, Type: validate.String, NotEmpty: true},
	); err != nil {
		return false, err
	}

	on, err := s.repos.Users().ToggleFavorite(ctx, userID, duckID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, userNotFound(userID)
		}
		return false, fmt.Errorf("error updating favorites: %w", err)
	}
	return on, nil
}

// RetrieveFavorites fetches the user's favorite ducks concurrently; the
// result keeps the order in which they were added.
func (s *DuckService) RetrieveFavorites(ctx context.Context, userID string) ([]*models.Duck, error) {
	if err := validate.Arguments(validate.Arg{Name: "id", Value: userID, Type: validate.String, NotEmpty: true}); err != nil {
		return nil, err
	}

	u, err := s.repos.Users().Retrieve(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, userNotFound(userID)
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	res := make([]*models.Duck, len(u.Favorites))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(favoritesFetchLimit)

	for i, id := range u.Favorites {
		g.Go(func() error {
			d, err := s.catalog.Retrieve(gctx, id)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return duckNotFound(id)
				}
				return err
			}
			res[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

package cli

import (
	"context"

	"github.com/sfko/legocat/internal/catalog"
	"github.com/sfko/legocat/internal/models"
	"github.com/sfko/legocat/internal/remote"
	"github.com/sfko/legocat/internal/store"
)

// localCatalog answers catalog queries straight from the database, shaped
// exactly as the server would return them.
type localCatalog struct {
	svc   *catalog.Service
	store *store.Store
}

func (l *localCatalog) ListSets(ctx context.Context, q models.SetQuery, page int) (*remote.SetListResponse, error) {
	p, err := l.svc.ListSets(ctx, q, page)
	if err != nil {
		return nil, err
	}
	return remote.NewSetListResponse(p, "/sets", remote.SetQueryValues(q, page)), nil
}

func (l *localCatalog) SetsWithPart(ctx context.Context, q models.PartUsageQuery, page int) (*remote.SetListResponse, error) {
	p, err := l.svc.SetsWithPart(ctx, q, page)
	if err != nil {
		return nil, err
	}
	return remote.NewSetListResponse(p, remote.PartSetsPath(q.PartNum), remote.PartUsageValues(q, page)), nil
}

func (l *localCatalog) SetInventory(ctx context.Context, setNum string) (*catalog.Inventory, error) {
	return l.svc.SetInventory(ctx, setNum)
}

func (l *localCatalog) CommonInventory(ctx context.Context, setNum1, setNum2 string) (*catalog.CommonInventory, error) {
	return l.svc.CommonInventory(ctx, setNum1, setNum2)
}

func (l *localCatalog) Themes(ctx context.Context) ([]*catalog.Theme, error) {
	return l.svc.ThemeForest(ctx)
}

func (l *localCatalog) Subthemes(ctx context.Context, rootID int64) ([]*catalog.Theme, error) {
	return l.svc.ThemeSubtree(ctx, rootID)
}

func (l *localCatalog) Wellness(ctx context.Context) (*remote.WellnessResponse, error) {
	if err := l.store.Ping(ctx); err != nil {
		return nil, err
	}
	return &remote.WellnessResponse{
		Status:          "👍",
		APIVersion:      remote.APIVersion,
		AssemblyVersion: version,
	}, nil
}

// Package catalog implements the read-only LEGO catalog operations: set
// listing and search, set inventories, inventory intersections and the
// theme hierarchy.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sfko/legocat/internal/models"
)

// DefaultPageSize is the number of sets returned per listing page
const DefaultPageSize = 100

// ErrNotFound is returned when a requested set inventory, theme or part does not exist
var ErrNotFound = errors.New("not found")

// Reader is the read side of the catalog store.
// Single-row lookups return nil, nil when the row is absent.
type Reader interface {
	LatestInventory(ctx context.Context, setNum string) (*models.Inventory, error)
	InventoryParts(ctx context.Context, inventoryID int64, includeSpares bool) ([]models.InventoryPart, error)
	InventorySubsets(ctx context.Context, inventoryID int64) ([]models.InventorySet, error)

	Themes(ctx context.Context) ([]models.Theme, error)
	ThemeDescendants(ctx context.Context, rootID int64) ([]models.Theme, error)
	ThemeExists(ctx context.Context, id int64) (bool, error)

	SearchSets(ctx context.Context, q models.SetQuery, offset, limit int) ([]models.Set, error)
	PartExists(ctx context.Context, partNum string) (bool, error)
	SetsContainingPart(ctx context.Context, q models.PartUsageQuery, offset, limit int) ([]models.Set, error)
}

// Service answers catalog queries against a Reader
type Service struct {
	store    Reader
	pageSize int
	logger   *slog.Logger
}

// NewService creates a catalog service. A non-positive pageSize selects
// DefaultPageSize; a nil logger selects slog.Default().
func NewService(store Reader, pageSize int, logger *slog.Logger) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, pageSize: pageSize, logger: logger}
}

// PageSize returns the number of sets per listing page
func (s *Service) PageSize() int {
	return s.pageSize
}

// ListSets returns one page of the sets matching q, ordered by name
func (s *Service) ListSets(ctx context.Context, q models.SetQuery, page int) (*SetPage, error) {
	s.logger.DebugContext(ctx, "listing sets", "query", q, "page", page)

	offset, limit := s.window(page)
	rows, err := s.store.SearchSets(ctx, q, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return s.paginate(rows, page), nil
}

// SetsWithPart returns one page of the sets that contain the part described
// by q as a non-spare part, ordered by name.
func (s *Service) SetsWithPart(ctx context.Context, q models.PartUsageQuery, page int) (*SetPage, error) {
	s.logger.DebugContext(ctx, "listing sets containing part", "part_num", q.PartNum, "page", page)

	ok, err := s.store.PartExists(ctx, q.PartNum)
	if err != nil {
		return nil, fmt.Errorf("look up part %s: %w", q.PartNum, err)
	}
	if !ok {
		return nil, fmt.Errorf("part %s: %w", q.PartNum, ErrNotFound)
	}

	offset, limit := s.window(page)
	rows, err := s.store.SetsContainingPart(ctx, q, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list sets containing part %s: %w", q.PartNum, err)
	}
	return s.paginate(rows, page), nil
}

// SetInventory returns every part of the latest inventory of a set,
// including spare parts.
func (s *Service) SetInventory(ctx context.Context, setNum string) (*Inventory, error) {
	s.logger.DebugContext(ctx, "fetching inventory", "set_num", setNum)

	inv, err := s.latestInventory(ctx, setNum)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.InventoryParts(ctx, inv.ID, true)
	if err != nil {
		return nil, fmt.Errorf("fetch parts for set %s: %w", setNum, err)
	}
	subsets, err := s.store.InventorySubsets(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch subsets for set %s: %w", setNum, err)
	}

	parts := GroupInventoryParts(rows)
	s.logger.DebugContext(ctx, "built inventory", "set_num", setNum, "parts", len(parts), "rows", len(rows))

	out := &Inventory{
		BasicSetInfo: basicSetInfo(inv),
		Version:      inv.Version,
		Parts:        parts,
	}
	for _, sub := range subsets {
		out.Subsets = append(out.Subsets, Subset{SetNum: sub.SetNum, SetName: sub.SetName, Quantity: sub.Quantity})
	}
	return out, nil
}

// CommonInventory returns the non-spare parts found in the latest inventories
// of both sets. It fails with ErrNotFound if either set has no inventory.
func (s *Service) CommonInventory(ctx context.Context, setNum1, setNum2 string) (*CommonInventory, error) {
	s.logger.DebugContext(ctx, "fetching inventory intersection", "set_num1", setNum1, "set_num2", setNum2)

	inv1, err := s.latestInventory(ctx, setNum1)
	if err != nil {
		return nil, err
	}
	inv2, err := s.latestInventory(ctx, setNum2)
	if err != nil {
		return nil, err
	}

	rows1, err := s.store.InventoryParts(ctx, inv1.ID, false)
	if err != nil {
		return nil, fmt.Errorf("fetch parts for set %s: %w", setNum1, err)
	}
	rows2, err := s.store.InventoryParts(ctx, inv2.ID, false)
	if err != nil {
		return nil, fmt.Errorf("fetch parts for set %s: %w", setNum2, err)
	}

	parts := IntersectParts(rows1, rows2)
	s.logger.DebugContext(ctx, "built inventory intersection",
		"set_num1", setNum1, "set_num2", setNum2,
		"parts", len(parts), "variants", VariantCount(parts))

	return &CommonInventory{
		Set1:  basicSetInfo(inv1),
		Set2:  basicSetInfo(inv2),
		Parts: parts,
	}, nil
}

// ThemeForest returns every theme nested under its parent
func (s *Service) ThemeForest(ctx context.Context) ([]*Theme, error) {
	s.logger.DebugContext(ctx, "fetching entire theme hierarchy")

	rows, err := s.store.Themes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch themes: %w", err)
	}
	s.logger.DebugContext(ctx, "query for themes finished", "rows", len(rows))
	return BuildThemeForest(rows, nil), nil
}

// ThemeSubtree returns the descendants of rootID nested under their parents.
// The root itself is not included. It fails with ErrNotFound if the root
// theme does not exist.
func (s *Service) ThemeSubtree(ctx context.Context, rootID int64) ([]*Theme, error) {
	ok, err := s.store.ThemeExists(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("look up theme %d: %w", rootID, err)
	}
	if !ok {
		return nil, fmt.Errorf("theme %d: %w", rootID, ErrNotFound)
	}

	s.logger.DebugContext(ctx, "fetching subthemes", "root_id", rootID)
	rows, err := s.store.ThemeDescendants(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("fetch subthemes of %d: %w", rootID, err)
	}
	s.logger.DebugContext(ctx, "query for themes finished", "rows", len(rows))
	return BuildThemeForest(rows, &rootID), nil
}

func (s *Service) latestInventory(ctx context.Context, setNum string) (*models.Inventory, error) {
	inv, err := s.store.LatestInventory(ctx, setNum)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory for set %s: %w", setNum, err)
	}
	if inv == nil {
		s.logger.DebugContext(ctx, "no inventory found", "set_num", setNum)
		return nil, fmt.Errorf("inventory for set %s: %w", setNum, ErrNotFound)
	}
	return inv, nil
}

// window returns the offset and limit for a page. The limit asks for one
// extra row to detect whether a next page exists.
func (s *Service) window(page int) (offset, limit int) {
	return page * s.pageSize, s.pageSize + 1
}

func (s *Service) paginate(rows []models.Set, page int) *SetPage {
	out := &SetPage{
		Sets:    []Set{},
		Page:    page,
		HasPrev: page > 0,
		HasNext: len(rows) > s.pageSize,
	}
	if out.HasNext {
		rows = rows[:s.pageSize]
	}
	for _, r := range rows {
		out.Sets = append(out.Sets, Set{
			SetNum:    r.SetNum,
			Name:      r.Name,
			Year:      r.Year,
			ThemeID:   r.ThemeID,
			ThemeName: r.ThemeName,
			NumParts:  r.NumParts,
		})
	}
	return out
}

func basicSetInfo(inv *models.Inventory) BasicSetInfo {
	return BasicSetInfo{
		SetNum:    inv.Set.SetNum,
		SetName:   inv.Set.Name,
		Year:      inv.Set.Year,
		NumParts:  inv.Set.NumParts,
		ThemeName: inv.Set.ThemeName,
	}
}

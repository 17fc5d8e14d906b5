package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/grouping"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
)

var banknoteSorts = map[string]bool{
	models.SortExtendedPick: true,
	models.SortFaceValue:    true,
	models.SortNewest:       true,
	models.SortSultan:       true,
}

type BanknoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	catalog     *CatalogService
	log         logging.Logger
}

func NewBanknoteService(db *sql.DB, m repomanager.RepositoryManager, catalog *CatalogService, log logging.Logger) *BanknoteService {
	return &BanknoteService{db: db, repomanager: m, catalog: catalog, log: log.With("module", "banknotes")}
}

func normalizeFilter(f models.BanknoteFilter) (models.BanknoteFilter, error) {
	f.Search = strings.TrimSpace(f.Search)
	if f.Sort == "" {
		f.Sort = models.SortExtendedPick
	}
	if !banknoteSorts[f.Sort] {
		return f, validationError("unknown sort %q", f.Sort)
	}
	return f, nil
}

func (s *BanknoteService) List(ctx context.Context, filter models.BanknoteFilter) ([]models.Banknote, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Banknotes(s.db).List(ctx, filter)
}

func (s *BanknoteService) Get(ctx context.Context, id string) (*models.Banknote, error) {
	return s.repomanager.Banknotes(s.db).GetByID(ctx, id)
}

func (s *BanknoteService) ImageFields(ctx context.Context, id string) (models.Images, error) {
	return s.repomanager.Banknotes(s.db).ImageFields(ctx, id)
}

// Groups lists the filtered banknotes of a country grouped by category and,
// when bySultan is set, by sultan inside each category.
func (s *BanknoteService) Groups(ctx context.Context, filter models.BanknoteFilter, bySultan bool) ([]grouping.CategoryGroup[*models.Banknote], error) {
	notes, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	opts, err := s.catalog.groupingOptions(ctx, filter.CountryID, bySultan)
	if err != nil {
		return nil, err
	}

	items := make([]*models.Banknote, len(notes))
	for i := range notes {
		items[i] = &notes[i]
	}
	return grouping.Group(items, opts), nil
}

func validateBanknote(b *models.Banknote) error {
	if blank(b.CountryID) {
		return validationError("country is required")
	}
	if blank(b.ExtendedPick) || blank(b.FaceValue) {
		return validationError("extended pick number and face value are required")
	}
	return nil
}

func (s *BanknoteService) Create(ctx context.Context, b *models.Banknote) (*models.Banknote, error) {
	if err := validateBanknote(b); err != nil {
		return nil, err
	}
	created, err := s.repomanager.Banknotes(s.db).Create(ctx, b)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "banknote created", "banknote_id", created.ID, "pick", created.ExtendedPick)
	return created, nil
}

func (s *BanknoteService) Update(ctx context.Context, b *models.Banknote) (*models.Banknote, error) {
	if err := validateBanknote(b); err != nil {
		return nil, err
	}
	return s.repomanager.Banknotes(s.db).Update(ctx, b)
}

func (s *BanknoteService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Banknotes(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "banknote deleted", "banknote_id", id)
	return nil
}

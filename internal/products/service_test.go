package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blast-commerce/blast-backend/pkg/db/models"
	pkgerrors "github.com/blast-commerce/blast-backend/pkg/errors"
	"github.com/blast-commerce/blast-backend/pkg/pagination"
)

type stubRepo struct {
	products map[uuid.UUID]*models.Product
	bySlug   map[string]*models.Product

	listRows   []models.Product
	listNext   *pagination.Cursor
	lastQuery  ListQuery
	listCalled bool
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, ok := s.bySlug[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubRepo) List(ctx context.Context, query ListQuery) ([]models.Product, *pagination.Cursor, error) {
	s.listCalled = true
	s.lastQuery = query
	return s.listRows, s.listNext, nil
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestGetByIDReturnsProduct(t *testing.T) {
	id := uuid.New()
	repo := &stubRepo{products: map[uuid.UUID]*models.Product{
		id: {ID: id, Name: "Trail Blazer 250", Slug: "trail-blazer-250"},
	}}
	svc := newTestService(t, repo)

	got, err := svc.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Trail Blazer 250" {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestGetByIDUnknownIsNotFound(t *testing.T) {
	svc := newTestService(t, &stubRepo{products: map[uuid.UUID]*models.Product{}})

	_, err := svc.GetByID(context.Background(), uuid.New())
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetByIDRejectsNilID(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.GetByID(context.Background(), uuid.Nil)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetBySlugReturnsProduct(t *testing.T) {
	repo := &stubRepo{bySlug: map[string]*models.Product{
		"city-cruiser": {ID: uuid.New(), Name: "City Cruiser", Slug: "city-cruiser"},
	}}
	svc := newTestService(t, repo)

	got, err := svc.GetBySlug(context.Background(), "city-cruiser")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.Slug != "city-cruiser" {
		t.Fatalf("unexpected product: %+v", got)
	}

	if _, err := svc.GetBySlug(context.Background(), ""); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty slug, got %v", err)
	}
}

func TestListForwardsFiltersAndEncodesNextCursor(t *testing.T) {
	next := pagination.Cursor{ID: uuid.New()}
	repo := &stubRepo{
		listRows: []models.Product{{ID: uuid.New(), Name: "Trail Blazer 250"}},
		listNext: &next,
	}
	svc := newTestService(t, repo)

	featured := true
	list, err := svc.List(context.Background(), pagination.Params{Limit: 10}, ListFilters{
		Category:   "scooters",
		Brand:      "Podilato",
		Featured:   &featured,
		ActiveOnly: true,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !repo.listCalled {
		t.Fatal("expected repo.List to be called")
	}
	if repo.lastQuery.Filters.Category != "scooters" || repo.lastQuery.Filters.Brand != "Podilato" {
		t.Fatalf("filters not forwarded: %+v", repo.lastQuery.Filters)
	}
	if !repo.lastQuery.Filters.ActiveOnly || repo.lastQuery.Filters.Featured == nil || !*repo.lastQuery.Filters.Featured {
		t.Fatalf("featured/active filters not forwarded: %+v", repo.lastQuery.Filters)
	}
	if len(list.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(list.Products))
	}
	if list.NextCursor == "" {
		t.Fatal("expected next cursor to be encoded")
	}

	parsed, err := pagination.ParseCursor(list.NextCursor)
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if parsed.ID != next.ID {
		t.Fatalf("round-tripped cursor id mismatch: %s vs %s", parsed.ID, next.ID)
	}
}

func TestListRejectsMalformedCursor(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.List(context.Background(), pagination.Params{Cursor: "not-a-cursor"}, ListFilters{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

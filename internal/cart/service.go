package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blast-commerce/blast-backend/pkg/db"
	"github.com/blast-commerce/blast-backend/pkg/db/models"
	pkgerrors "github.com/blast-commerce/blast-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes cart aggregation operations.
type Service interface {
	FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*models.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
}

// AddItemInput carries the merge payload for one product line. The
// price is the catalog's current price; adding an existing product
// refreshes the stored price rather than preserving the old one.
type AddItemInput struct {
	ProductID       uuid.UUID
	ProductName     string
	ProductImage    string
	ProductBrand    string
	Quantity        int
	UnitPriceCents  int64
	SelectedColor   *string
	SelectedVariant *string
}

// Summary is the read-only cart projection. The total is the
// merchandise sum; fee composition happens at checkout.
type Summary struct {
	TotalItems      int               `json:"total_items"`
	TotalPriceCents int64             `json:"total_price_cents"`
	ItemCount       int               `json:"item_count"`
	Items           []models.CartItem `json:"items"`
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// FindOrCreate returns the user's cart, creating an empty one if absent.
func (s *service) FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	cart, err := s.repo.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load cart")
	}

	created, err := s.repo.Create(ctx, &models.Cart{UserID: userID})
	if err != nil {
		// A concurrent request may have created the row first.
		existing, findErr := s.repo.FindByUser(ctx, userID)
		if findErr == nil {
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create cart")
	}
	return created, nil
}

// AddItem merges the product into the cart and recomputes totals.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*models.Cart, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.UnitPriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}

	cart, err := s.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		quantity := input.Quantity
		for _, existing := range cart.Items {
			if existing.ProductID == input.ProductID {
				quantity += existing.Quantity
				break
			}
		}

		item := &models.CartItem{
			CartID:          cart.ID,
			ProductID:       input.ProductID,
			ProductName:     input.ProductName,
			ProductImage:    input.ProductImage,
			ProductBrand:    input.ProductBrand,
			Quantity:        quantity,
			UnitPriceCents:  input.UnitPriceCents,
			SelectedColor:   input.SelectedColor,
			SelectedVariant: input.SelectedVariant,
		}
		if err := repo.UpsertItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "upsert cart item")
		}
		return s.recompute(ctx, repo, cart.ID, userID)
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

// UpdateQuantity sets the line's quantity outright; non-positive
// quantities remove the line.
func (s *service) UpdateQuantity(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := s.findExisting(ctx, userID)
	if err != nil {
		return nil, err
	}

	var line *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			line = &cart.Items[i]
			break
		}
	}
	if line == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		line.Quantity = quantity
		if err := repo.UpsertItem(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "update cart item")
		}
		return s.recompute(ctx, repo, cart.ID, userID)
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

// RemoveItem drops the line if present; removing an absent product is
// not an error.
func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*models.Cart, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	cart, err := s.findExisting(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteItem(ctx, cart.ID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "delete cart item")
		}
		return s.recompute(ctx, repo, cart.ID, userID)
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

// Clear empties the cart and zeroes totals.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.findExisting(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteItems(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "clear cart items")
		}
		return s.recompute(ctx, repo, cart.ID, userID)
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

// Summary projects the cart without side effects.
func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	cart, err := s.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(cart), nil
}

// Count returns the summed quantity across all lines.
func (s *service) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load cart")
	}
	return cart.ItemCount(), nil
}

func (s *service) findExisting(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load cart")
	}
	return cart, nil
}

func (s *service) reload(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "reload cart")
	}
	return cart, nil
}

// recompute rereads the lines inside the transaction and persists the
// denormalized totals so they always reflect the items.
func (s *service) recompute(ctx context.Context, repo Repository, cartID, userID uuid.UUID) error {
	fresh, err := repo.FindByUser(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "reload cart for totals")
	}

	fresh.TotalItems = 0
	fresh.TotalPriceCents = 0
	for _, item := range fresh.Items {
		fresh.TotalItems += item.Quantity
		fresh.TotalPriceCents += item.LineTotalCents()
	}

	if _, err := repo.Update(ctx, fresh); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "persist cart totals")
	}
	return nil
}

func summarize(cart *models.Cart) *Summary {
	return &Summary{
		TotalItems:      cart.ItemCount(),
		TotalPriceCents: cart.TotalPriceCents,
		ItemCount:       len(cart.Items),
		Items:           cart.Items,
	}
}

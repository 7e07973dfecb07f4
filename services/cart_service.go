package services

import (
	"context"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/models"
	"github.com/bhataakib02/retail-app/repository"
	"github.com/shopspring/decimal"
)

type CartLine struct {
	Product   models.Product  `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartView is the cart resolved against the catalog. Lines for products
// that no longer exist are left out.
type CartView struct {
	Cart     map[string]int   `json:"cart"`
	Products []models.Product `json:"products"`
	Lines    []CartLine       `json:"lines"`
	Total    decimal.Decimal  `json:"total"`
}

type CartService struct {
	products repository.ProductRepository
}

func NewCartService(products repository.ProductRepository) *CartService {
	return &CartService{products: products}
}

// Add puts quantity units of productID in cart. The catalog is not consulted.
func (s *CartService) Add(cart *models.Cart, productID string, quantity int) error {
	if err := cart.Add(productID, quantity); err != nil {
		return apperrors.ErrValidation.WithMessage(err.Error())
	}
	return nil
}

func (s *CartService) Remove(cart *models.Cart, productID string) {
	cart.Remove(productID)
}

// View reads the cart without modifying it.
func (s *CartService) View(ctx context.Context, cart *models.Cart) (*CartView, error) {
	view := &CartView{
		Cart:     cart.Quantities(),
		Products: []models.Product{},
		Lines:    []CartLine{},
		Total:    decimal.Zero,
	}
	if cart.IsEmpty() {
		return view, nil
	}

	found, err := s.products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, apperrors.ErrDatabaseQuery.Wrap(err)
	}
	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	for _, item := range cart.Lines() {
		id, err := models.ParseProductID(item.ProductID)
		if err != nil {
			continue
		}
		p, ok := byID[id]
		if !ok {
			continue
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Products = append(view.Products, p)
		view.Lines = append(view.Lines, CartLine{Product: p, Quantity: item.Quantity, LineTotal: lineTotal})
		view.Total = view.Total.Add(lineTotal)
	}
	return view, nil
}

package services

import (
	"context"
	"io"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/models"
	"github.com/bhataakib02/retail-app/repository"
	"github.com/bhataakib02/retail-app/storage"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxPrice is the first value that no longer fits DECIMAL(10,2).
var maxPrice = decimal.New(1, 8)

// Upload is an image file received with a product form.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

func (u *Upload) present() bool {
	return u != nil && u.Filename != ""
}

type CatalogService struct {
	products repository.ProductRepository
	images   storage.ImageStore
	validate *validator.Validate
	log      *zap.Logger
}

func NewCatalogService(products repository.ProductRepository, images storage.ImageStore, log *zap.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		images:   images,
		validate: newValidator(),
		log:      log,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseQuery.Wrap(err)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	return p, nil
}

func (s *CatalogService) checkFields(f *models.ProductFields) error {
	if err := s.validate.Struct(f); err != nil {
		return validationError(err)
	}
	if f.Price.IsNegative() {
		return apperrors.ErrValidation.WithMessage("price must not be negative")
	}
	f.Price = f.Price.Round(2)
	if f.Price.GreaterThanOrEqual(maxPrice) {
		return apperrors.ErrValidation.WithMessage("price is too large")
	}
	return nil
}

// CreateProduct validates fields and the optional image before writing
// anything. A rejected image means no row and no file.
func (s *CatalogService) CreateProduct(ctx context.Context, fields models.ProductFields, image *Upload) (*models.Product, error) {
	if err := s.checkFields(&fields); err != nil {
		return nil, err
	}
	if image.present() && !storage.AllowedImage(image.Filename) {
		return nil, apperrors.ErrInvalidImage
	}

	p := &models.Product{
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		Stock:       fields.Stock,
	}

	if image.present() {
		name, err := s.images.Save(ctx, image.Filename, image.Body, image.ContentType)
		if err != nil {
			s.log.Error("Failed to store product image", zap.String("filename", image.Filename), zap.Error(err))
			return nil, apperrors.ErrInternalServer.WithMessage("Failed to store image").Wrap(err)
		}
		p.Image = name
	}

	if err := s.products.Create(ctx, p); err != nil {
		s.discardImage(ctx, p.Image)
		return nil, apperrors.ErrDatabaseQuery.WithMessage("Failed to create product").Wrap(err)
	}

	s.log.Info("Product created", zap.Uint("product_id", p.ID), zap.String("image", p.Image))
	return p, nil
}

// UpdateProduct replaces the editable fields. Without a new file the
// previous image is kept.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, fields models.ProductFields, image *Upload) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	if err := s.checkFields(&fields); err != nil {
		return nil, err
	}
	if image.present() && !storage.AllowedImage(image.Filename) {
		return nil, apperrors.ErrInvalidImage
	}

	previousImage := p.Image
	p.Name = fields.Name
	p.Description = fields.Description
	p.Price = fields.Price
	p.Stock = fields.Stock

	if image.present() {
		name, err := s.images.Save(ctx, image.Filename, image.Body, image.ContentType)
		if err != nil {
			return nil, apperrors.ErrInternalServer.WithMessage("Failed to store image").Wrap(err)
		}
		p.Image = name
	}

	if err := s.products.Update(ctx, p); err != nil {
		if p.Image != previousImage {
			s.discardImage(ctx, p.Image)
		}
		return nil, notFoundOr(err, "Product not found")
	}

	s.log.Info("Product updated", zap.Uint("product_id", p.ID))
	return p, nil
}

// DeleteProduct removes the row. Order lines referencing it cascade away.
// The image file stays in the upload store.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Product not found")
	}
	s.log.Info("Product deleted", zap.Uint("product_id", id))
	return nil
}

func (s *CatalogService) discardImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.images.Delete(ctx, name); err != nil {
		s.log.Warn("Failed to remove orphaned image", zap.String("image", name), zap.Error(err))
	}
}

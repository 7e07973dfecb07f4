package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/bhataakib02/retail-app/common/errors"
	"github.com/bhataakib02/retail-app/models"
	"github.com/bhataakib02/retail-app/services"
	"github.com/bhataakib02/retail-app/session"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductController struct {
	catalog CatalogServiceAPI
}

func NewProductController(catalog CatalogServiceAPI) *ProductController {
	return &ProductController{catalog: catalog}
}

// Products handles GET /products
func (pc *ProductController) Products(c *gin.Context) {
	pc.listPage(c, "products")
}

// AdminProducts handles GET /admin_products
func (pc *ProductController) AdminProducts(c *gin.Context) {
	pc.listPage(c, "admin_products")
}

// UserDashboard handles GET /user
func (pc *ProductController) UserDashboard(c *gin.Context) {
	pc.listPage(c, "user_dashboard")
}

func (pc *ProductController) listPage(c *gin.Context, page string) {
	products, err := pc.catalog.ListProducts(c.Request.Context())
	if err != nil {
		handleServiceError(c, page, err)
		return
	}
	render(c, http.StatusOK, page, gin.H{"products": products})
}

// AddProductForm handles GET /add_product
func (pc *ProductController) AddProductForm(c *gin.Context) {
	render(c, http.StatusOK, "add_product", nil)
}

// AddProduct handles POST /add_product (multipart form with optional image)
func (pc *ProductController) AddProduct(c *gin.Context) {
	fields, err := productForm(c)
	if err != nil {
		handleServiceError(c, "add_product", err)
		return
	}
	image, closeImage, err := imageUpload(c)
	if err != nil {
		handleServiceError(c, "add_product", err)
		return
	}
	defer closeImage()

	if _, err := pc.catalog.CreateProduct(c.Request.Context(), fields, image); err != nil {
		handleServiceError(c, "add_product", err)
		return
	}
	redirectWithFlash(c, "/admin_products", session.FlashSuccess, "Product added successfully.")
}

// EditProductForm handles GET /edit_product/:id
func (pc *ProductController) EditProductForm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		render(c, http.StatusNotFound, "edit_product", gin.H{"error": "Product not found"})
		return
	}
	product, err := pc.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, "edit_product", err)
		return
	}
	render(c, http.StatusOK, "edit_product", gin.H{"product": product})
}

// EditProduct handles POST /edit_product/:id
func (pc *ProductController) EditProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		render(c, http.StatusNotFound, "edit_product", gin.H{"error": "Product not found"})
		return
	}
	fields, err := productForm(c)
	if err != nil {
		handleServiceError(c, "edit_product", err)
		return
	}
	image, closeImage, err := imageUpload(c)
	if err != nil {
		handleServiceError(c, "edit_product", err)
		return
	}
	defer closeImage()

	if _, err := pc.catalog.UpdateProduct(c.Request.Context(), id, fields, image); err != nil {
		handleServiceError(c, "edit_product", err)
		return
	}
	redirectWithFlash(c, "/admin_products", session.FlashSuccess, "Product updated successfully.")
}

// DeleteProduct handles GET /delete_product/:id
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		render(c, http.StatusNotFound, "admin_products", gin.H{"error": "Product not found"})
		return
	}
	if err := pc.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		handleServiceError(c, "admin_products", err)
		return
	}
	redirectWithFlash(c, "/admin_products", session.FlashDanger, "Product deleted successfully.")
}

// productForm reads the product fields from a submitted form. Range checks
// are left to the catalog service.
func productForm(c *gin.Context) (models.ProductFields, error) {
	fields := models.ProductFields{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: c.PostForm("description"),
	}

	price, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("price")))
	if err != nil {
		return fields, apperrors.ErrValidation.WithMessage("price must be a number")
	}
	fields.Price = price

	stock, err := strconv.Atoi(strings.TrimSpace(c.PostForm("stock")))
	if err != nil {
		return fields, apperrors.ErrValidation.WithMessage("stock must be a whole number")
	}
	fields.Stock = stock
	return fields, nil
}

// imageUpload opens the optional "image" file field. The returned close
// func is always safe to call.
func imageUpload(c *gin.Context) (*services.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) || (err == nil && fh.Filename == "") {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, apperrors.ErrBadRequest.WithMessage("Invalid multipart form").Wrap(err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, apperrors.ErrInternalServer.WithMessage("Failed to read upload").Wrap(err)
	}
	return &services.Upload{
		Filename:    fh.Filename,
		ContentType: contentType(fh),
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

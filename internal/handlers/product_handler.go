package handlers

import (
	"net/http"
	"strconv"

	"go-resto-api/internal/database"
	"go-resto-api/internal/models"
	"go-resto-api/internal/orders"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func presentProduct(p *models.Product) {
	p.ImageURL = publicURL(p.Image)
	if p.Category != nil {
		presentCategory(p.Category)
	}
}

type productForm struct {
	Name        *string  `form:"name"`
	Description *string  `form:"description"`
	Price       *float64 `form:"price"`
	Available   *bool    `form:"available"`
	CategoryID  *uint    `form:"category_id"`
}

func (f productForm) validate(creating bool) gin.H {
	errs := gin.H{}
	if creating && (f.Name == nil || *f.Name == "") {
		errs["name"] = "name is required"
	}
	if creating && f.Price == nil {
		errs["price"] = "price is required"
	}
	if f.Price != nil && *f.Price < 0 {
		errs["price"] = "price must not be negative"
	}
	if creating && f.CategoryID == nil {
		errs["category_id"] = "category_id is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func categoryExists(id uint) bool {
	var n int64
	database.DB.Model(&models.Category{}).Where("id = ?", id).Count(&n)
	return n > 0
}

// --- GET: /productos ---
func GetProducts(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Preload("Category").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
		return
	}
	for i := range products {
		presentProduct(&products[i])
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: /productos/:id ---
func GetProduct(c *gin.Context) {
	var product models.Product
	if err := database.DB.Preload("Category").First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	presentProduct(&product)
	c.JSON(http.StatusOK, gin.H{"message": "Product retrieved successfully", "product": product})
}

// --- POST: /productos (multipart) ---
func CreateProduct(c *gin.Context) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"form": err.Error()}})
		return
	}
	if errs := form.validate(true); errs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": errs})
		return
	}
	if !categoryExists(*form.CategoryID) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"category_id": "category does not exist"}})
		return
	}

	rel, _, err := saveUpload(c, "image", "productos")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"image": err.Error()}})
		return
	}

	product := models.Product{
		Name:       *form.Name,
		Price:      *form.Price,
		CategoryID: *form.CategoryID,
		Available:  true,
		Image:      rel,
	}
	if form.Description != nil {
		product.Description = *form.Description
	}
	if form.Available != nil {
		product.Available = *form.Available
	}

	if err := database.DB.Create(&product).Error; err != nil {
		removeUpload(rel)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create product"})
		return
	}

	presentProduct(&product)
	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": product})
}

// --- PUT: /productos/:id (multipart, partial) ---
func UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := database.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"form": err.Error()}})
		return
	}
	if errs := form.validate(false); errs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": errs})
		return
	}

	if form.Name != nil {
		product.Name = *form.Name
	}
	if form.Description != nil {
		product.Description = *form.Description
	}
	if form.Price != nil {
		product.Price = *form.Price
	}
	if form.Available != nil {
		product.Available = *form.Available
	}
	if form.CategoryID != nil {
		if !categoryExists(*form.CategoryID) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"category_id": "category does not exist"}})
			return
		}
		product.CategoryID = *form.CategoryID
	}

	rel, uploaded, err := saveUpload(c, "image", "productos")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"image": err.Error()}})
		return
	}
	if uploaded {
		removeUpload(product.Image)
		product.Image = rel
	}

	if err := database.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to update product", "error": err.Error()})
		return
	}

	database.DB.Preload("Category").First(&product, product.ID)
	presentProduct(&product)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// --- DELETE: /productos/:id ---
// Line items pointing at the product are detached (not deleted): their
// reads fall back to the deleted-product display.
func DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := orders.DetachProduct(tx, product.ID); err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to delete product", "error": err.Error()})
		return
	}
	removeUpload(product.Image)

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

package handlers

import (
	"net/http"
	"strconv"

	"go-resto-api/internal/database"
	"go-resto-api/internal/models"

	"github.com/gin-gonic/gin"
)

func presentCategory(cat *models.Category) {
	cat.ImageURL = publicURL(cat.Image)
}

// --- GET: /categorias ---
func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := database.DB.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch categories"})
		return
	}
	for i := range categories {
		presentCategory(&categories[i])
	}
	c.JSON(http.StatusOK, categories)
}

// --- GET: /categorias/:id ---
func GetCategory(c *gin.Context) {
	var category models.Category
	if err := database.DB.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}
	presentCategory(&category)
	c.JSON(http.StatusOK, gin.H{"message": "Category retrieved successfully", "category": category})
}

// --- POST: /categorias (multipart) ---
func CreateCategory(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"name": "name is required"}})
		return
	}

	rel, _, err := saveUpload(c, "image", "categorias")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"image": err.Error()}})
		return
	}

	category := models.Category{Name: name, Image: rel}
	if err := database.DB.Create(&category).Error; err != nil {
		removeUpload(rel)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Failed to create category", "error": "name must be unique"})
		return
	}

	presentCategory(&category)
	c.JSON(http.StatusCreated, gin.H{"message": "Category created successfully", "category": category})
}

// --- PUT: /categorias/:id (multipart, partial) ---
func UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := database.DB.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}

	if name := c.PostForm("name"); name != "" {
		category.Name = name
	}

	rel, uploaded, err := saveUpload(c, "image", "categorias")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed", "errors": gin.H{"image": err.Error()}})
		return
	}
	if uploaded {
		// Release the replaced blob
		removeUpload(category.Image)
		category.Image = rel
	}

	if err := database.DB.Save(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to update category", "error": err.Error()})
		return
	}

	presentCategory(&category)
	c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully", "category": category})
}

// --- DELETE: /categorias/:id ---
// Deletion is restricted while products still reference the category,
// so the orphaning policy is explicit instead of accidental.
func DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category ID"})
		return
	}

	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}

	var dependents int64
	if err := database.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&dependents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to check category usage"})
		return
	}
	if dependents > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Validation failed",
			"errors":  gin.H{"category": "category still has products assigned"},
		})
		return
	}

	if err := database.DB.Delete(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to delete category", "error": err.Error()})
		return
	}
	removeUpload(category.Image)

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully", "category": id})
}

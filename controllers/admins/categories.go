package admins

import (
	"net/http"
	"strings"

	"github.com/APPLEMALL-KENYA/agents/database"
	"github.com/APPLEMALL-KENYA/agents/middleware"
	"github.com/APPLEMALL-KENYA/agents/models"
	"github.com/APPLEMALL-KENYA/agents/utils"
)

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

// GET /api/admin/categories
func ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	if err := database.DB.Order("name").Find(&categories).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve categories"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: categories})
}

// POST /api/admin/categories
func CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	category := models.Category{Name: strings.TrimSpace(req.Name)}
	if err := database.DB.Create(&category).Error; err != nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Category already exists"})
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Category created", Data: category})
}

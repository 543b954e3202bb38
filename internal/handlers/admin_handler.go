package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ally/internal/errors"
	"ally/internal/pagination"
	"ally/internal/services"
)

// AdminHandler serves the admin user management endpoints
type AdminHandler struct {
	userService services.UserServicer
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userService services.UserServicer) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// AdminUserResponse represents a user row in the admin listing
type AdminUserResponse struct {
	ID         uint    `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       int     `json:"role"`
	IsActive   bool    `json:"isActive"`
	TotalSaved float64 `json:"totalSaved"`
	LastLogin  *string `json:"lastLogin"`
	CreatedAt  string  `json:"createdAt"`
}

// ListUsers returns the paginated user listing with savings totals
// @Summary     List users (admin)
// @Description Get all users with their total saved amounts, newest first
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[AdminUserResponse] "Users"
// @Failure     403 {object} ErrorResponse "Admin required"
// @Router      /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.userService.GetAllUsers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	users := make([]AdminUserResponse, 0, len(result.Data))
	for i := range result.Data {
		u := &result.Data[i]

		totalSaved, err := h.userService.TotalSaved(u.ID)
		if err != nil {
			respondWithError(c, err)
			return
		}

		row := AdminUserResponse{
			ID:         u.ID,
			Email:      u.Email,
			Name:       u.FullName(),
			Role:       u.Role,
			IsActive:   u.IsActive,
			TotalSaved: totalSaved,
			CreatedAt:  u.CreatedAt.Format("2006-01-02"),
		}
		if u.LastLogin != nil {
			last := u.LastLogin.Format("2006-01-02 15:04")
			row.LastLogin = &last
		}
		users = append(users, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"page":       result.Page,
		"pageSize":   result.PageSize,
		"totalItems": result.TotalItems,
		"totalPages": result.TotalPages,
	})
}

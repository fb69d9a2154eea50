package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opsdeck/admin-api/internal/middleware"
	"github.com/opsdeck/admin-api/internal/models"
	"github.com/opsdeck/admin-api/internal/service"
	"github.com/opsdeck/admin-api/internal/utils"
)

// AdminHandler handles admin management HTTP endpoints.
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListAdmins handles GET /api/admins
//
// Returns 203 (not an error status in this contract) with an empty result when
// the collection is empty, distinguishing "zero records" from a failure.
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	page := 1
	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	items := 10
	if v := c.Query("items"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			items = n
		}
	}

	admins, pagination, err := h.adminService.List(c.Request.Context(), page, items)
	if err != nil {
		utils.Error(c, 500, nil, "Failed to list admins: "+err.Error())
		return
	}

	if pagination.Count == 0 {
		utils.Error(c, 203, []models.Admin{}, "No admins found")
		return
	}

	utils.SuccessWithPagination(c, 200, admins, pagination, "Admins retrieved")
}

// GetProfile handles GET /api/admins/me
//
// The current admin is populated by the auth middleware; this handler performs
// no credential check of its own.
func (h *AdminHandler) GetProfile(c *gin.Context) {
	v, ok := c.Get(middleware.CurrentAdminKey)
	if !ok || v == nil {
		utils.Error(c, 404, nil, "No authenticated admin in request context")
		return
	}

	admin, ok := v.(*models.Admin)
	if !ok {
		utils.Error(c, 500, nil, "Failed to read admin from request context")
		return
	}

	utils.Success(c, 200, admin.Profile(), "Profile retrieved")
}

// GetAdmin handles GET /api/admins/:id
func (h *AdminHandler) GetAdmin(c *gin.Context) {
	admin, err := h.adminService.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, utils.ErrAdminNotFound) {
		utils.Error(c, 404, nil, "Admin not found")
		return
	}
	if err != nil {
		utils.Error(c, 500, nil, "Failed to fetch admin: "+err.Error())
		return
	}

	utils.Success(c, 200, admin, "Admin retrieved")
}

// CreateAdmin handles POST /api/admins
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req service.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, nil, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		utils.Error(c, 400, nil, "Email and password are required")
		return
	}

	profile, err := h.adminService.Create(c.Request.Context(), &req)
	if errors.Is(err, utils.ErrEmailTaken) || errors.Is(err, utils.ErrPasswordTooShort) {
		utils.Error(c, 400, nil, err.Error())
		return
	}
	if err != nil {
		utils.Error(c, 500, nil, "Failed to create admin: "+err.Error())
		return
	}

	utils.Success(c, 200, profile, "Admin created")
}

// UpdateAdmin handles PUT /api/admins/:id
//
// Only email and role are applied; other body fields are ignored.
func (h *AdminHandler) UpdateAdmin(c *gin.Context) {
	var req service.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, nil, "Invalid request body")
		return
	}

	admin, err := h.adminService.Update(c.Request.Context(), c.Param("id"), &req)
	if errors.Is(err, utils.ErrEmailTaken) {
		utils.Error(c, 400, nil, err.Error())
		return
	}
	if errors.Is(err, utils.ErrAdminNotFound) {
		utils.Error(c, 404, nil, "Admin not found")
		return
	}
	if err != nil {
		utils.Error(c, 500, nil, "Failed to update admin: "+err.Error())
		return
	}

	utils.Success(c, 200, admin, "Admin updated")
}

// UpdatePassword handles PUT /api/admins/:id/password
func (h *AdminHandler) UpdatePassword(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, nil, "Invalid request body")
		return
	}

	if req.Password == "" {
		utils.Error(c, 400, nil, "Password is required")
		return
	}

	admin, err := h.adminService.UpdatePassword(c.Request.Context(), c.Param("id"), req.Password)
	if errors.Is(err, utils.ErrPasswordTooShort) {
		utils.Error(c, 400, nil, err.Error())
		return
	}
	if errors.Is(err, utils.ErrAdminNotFound) {
		utils.Error(c, 404, nil, "Admin not found")
		return
	}
	if err != nil {
		utils.Error(c, 500, nil, "Failed to update password: "+err.Error())
		return
	}

	utils.Success(c, 200, admin, "Password updated")
}

// DeleteAdmin handles DELETE /api/admins/:id
//
// Soft delete: the record is flagged as removed and stays readable. Calling
// this twice on the same id succeeds both times.
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	admin, err := h.adminService.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, utils.ErrAdminNotFound) {
		utils.Error(c, 404, nil, "Admin not found")
		return
	}
	if err != nil {
		utils.Error(c, 500, nil, "Failed to delete admin: "+err.Error())
		return
	}

	utils.Success(c, 200, admin, "Admin removed")
}

// SearchAdmins handles GET /api/admins/search
//
// A missing query yields 202 with an empty result, matching the list
// operation's "no data is not a failure" convention.
func (h *AdminHandler) SearchAdmins(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		utils.Error(c, 202, []models.Admin{}, "No search query provided")
		return
	}

	var fields []string
	for _, f := range strings.Split(c.Query("fields"), ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}

	admins, err := h.adminService.Search(c.Request.Context(), q, fields)
	if errors.Is(err, utils.ErrFieldNotSearchable) {
		utils.Error(c, 400, nil, "fields must be a comma-separated list of: email, name, surname, role")
		return
	}
	if err != nil {
		utils.Error(c, 500, nil, "Failed to search admins: "+err.Error())
		return
	}

	if len(admins) == 0 {
		utils.Error(c, 202, admins, "No admins matched the query")
		return
	}

	utils.Success(c, 200, admins, "Admins retrieved")
}

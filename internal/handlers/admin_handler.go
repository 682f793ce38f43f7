package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
	"church-portal-api/internal/services"
	"church-portal-api/pkg/lambda"
)

var (
	listAdminsErrors  = errorTable{operation: "list_admins", rules: []errorRule{validationRule}}
	createAdminErrors = errorTable{operation: "create_admin", rules: storeRules("Admin"), fallback: directoryFallback}
	getAdminErrors    = errorTable{operation: "get_admin", rules: storeRules("Admin"), fallback: directoryFallback}
	updateAdminErrors = errorTable{operation: "update_admin", rules: storeRules("Admin"), fallback: directoryFallback}
	deleteAdminErrors = errorTable{operation: "delete_admin", rules: storeRules("Admin"), fallback: directoryFallback}
	adminLoginErrors  = errorTable{operation: "admin_login", rules: []errorRule{
		validationRule,
		{match: isSentinel(services.ErrInvalidCredentials), status: http.StatusUnauthorized, errorType: "NotAuthorized", message: "Incorrect id or password"},
	}}
)

// AdminHandler handles the /admins key-value routes
type AdminHandler struct {
	adminService services.AdminService
	logger       *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService services.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, logger: logger}
}

// AdminResponse wraps an administrator with a status message
type AdminResponse struct {
	Message string               `json:"message"`
	Admin   *models.AdminAccount `json:"admin"`
}

// @Summary List administrators
// @Tags admins
// @Produce json
// @Param limit query int false "Page size (1-100)" default(10)
// @Param last_evaluated_key query string false "Cursor from the previous page"
// @Success 200 {object} services.AdminPage
// @Failure 400 {object} ErrorResponse
// @Router /admins [get]
func (h *AdminHandler) HandleListAdmins(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	limit, resp := pageSize(req)
	if resp != nil {
		return resp, nil
	}

	page, err := h.adminService.ListAdmins(ctx, limit, req.Query("last_evaluated_key"))
	if err != nil {
		return dispatch(h.logger, listAdminsErrors, err), nil
	}
	return lambda.JSON(http.StatusOK, page), nil
}

// @Summary Create an administrator
// @Tags admins
// @Accept json
// @Produce json
// @Param request body models.CreateAdminRequest true "Administrator"
// @Success 201 {object} AdminResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admins [post]
func (h *AdminHandler) HandleCreateAdmin(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.CreateAdminRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	admin, err := h.adminService.CreateAdmin(ctx, &body)
	if err != nil {
		return dispatch(h.logger, createAdminErrors, err), nil
	}
	return lambda.JSON(http.StatusCreated, AdminResponse{Message: "Admin created", Admin: admin}), nil
}

// @Summary Get an administrator
// @Tags admins
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} models.AdminAccount
// @Failure 404 {object} ErrorResponse
// @Router /admins/{id} [get]
func (h *AdminHandler) HandleGetAdmin(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	admin, err := h.adminService.GetAdmin(ctx, req.Param("id"))
	if err != nil {
		return dispatch(h.logger, getAdminErrors, err), nil
	}
	return lambda.JSON(http.StatusOK, admin), nil
}

// @Summary Update an administrator
// @Tags admins
// @Accept json
// @Produce json
// @Param id path string true "Admin ID"
// @Param request body models.UpdateAdminRequest true "Fields to change"
// @Success 200 {object} AdminResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admins/{id} [put]
func (h *AdminHandler) HandleUpdateAdmin(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.UpdateAdminRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	admin, err := h.adminService.UpdateAdmin(ctx, req.Param("id"), &body)
	if err != nil {
		return dispatch(h.logger, updateAdminErrors, err), nil
	}
	return lambda.JSON(http.StatusOK, AdminResponse{Message: "Admin updated", Admin: admin}), nil
}

// @Summary Delete an administrator
// @Tags admins
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} lambda.MessageBody
// @Failure 404 {object} ErrorResponse
// @Router /admins/{id} [delete]
func (h *AdminHandler) HandleDeleteAdmin(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if err := h.adminService.DeleteAdmin(ctx, req.Param("id")); err != nil {
		return dispatch(h.logger, deleteAdminErrors, err), nil
	}
	return lambda.Message(http.StatusOK, "Admin deleted"), nil
}

// @Summary Check administrator credentials
// @Tags admins
// @Accept json
// @Produce json
// @Param request body models.AdminLoginRequest true "Credentials"
// @Success 200 {object} AdminResponse
// @Failure 401 {object} ErrorResponse
// @Router /admins/login [post]
func (h *AdminHandler) HandleLogin(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.AdminLoginRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}
	if err := models.Validate(&body); err != nil {
		return dispatch(h.logger, adminLoginErrors, err), nil
	}

	admin, err := h.adminService.Authenticate(ctx, body.ID, body.Password)
	if err != nil {
		return dispatch(h.logger, adminLoginErrors, err), nil
	}
	return lambda.JSON(http.StatusOK, AdminResponse{Message: "Login successful", Admin: admin}), nil
}

package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
	"church-portal-api/internal/services"
	"church-portal-api/pkg/lambda"
)

// Failures the directory cannot classify are reported to the caller as a
// bad request carrying the error text.
var directoryFallback = errorRule{status: http.StatusBadRequest, errorType: "BadRequest"}

var (
	listUsersErrors  = errorTable{operation: "list_users", rules: []errorRule{validationRule}}
	createUserErrors = errorTable{operation: "create_user", rules: storeRules("User"), fallback: directoryFallback}
	getUserErr       = errorTable{operation: "get_directory_user", rules: storeRules("User"), fallback: directoryFallback}
	updateUserErr    = errorTable{operation: "update_directory_user", rules: storeRules("User"), fallback: directoryFallback}
	deleteUserErr    = errorTable{operation: "delete_directory_user", rules: storeRules("User"), fallback: directoryFallback}
)

// DirectoryHandler handles the /users key-value routes
type DirectoryHandler struct {
	directoryService services.DirectoryService
	logger           *logrus.Logger
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directoryService services.DirectoryService, logger *logrus.Logger) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService, logger: logger}
}

// DirectoryUserResponse wraps a user with a status message
type DirectoryUserResponse struct {
	Message string                `json:"message"`
	User    *models.DirectoryUser `json:"user"`
}

// @Summary List directory users
// @Tags directory
// @Produce json
// @Param limit query int false "Page size (1-100)" default(10)
// @Param last_evaluated_key query string false "Cursor from the previous page"
// @Success 200 {object} services.UserPage
// @Failure 400 {object} ErrorResponse
// @Router /users [get]
func (h *DirectoryHandler) HandleListUsers(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	limit, resp := pageSize(req)
	if resp != nil {
		return resp, nil
	}

	page, err := h.directoryService.ListUsers(ctx, limit, req.Query("last_evaluated_key"))
	if err != nil {
		return dispatch(h.logger, listUsersErrors, err), nil
	}
	return lambda.JSON(http.StatusOK, page), nil
}

// @Summary Create a directory user
// @Tags directory
// @Accept json
// @Produce json
// @Param request body models.CreateDirectoryUserRequest true "User"
// @Success 201 {object} DirectoryUserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users [post]
func (h *DirectoryHandler) HandleCreateUser(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.CreateDirectoryUserRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	user, err := h.directoryService.CreateUser(ctx, &body)
	if err != nil {
		return dispatch(h.logger, createUserErrors, err), nil
	}
	return lambda.JSON(http.StatusCreated, DirectoryUserResponse{Message: "User created", User: user}), nil
}

// @Summary Get a directory user
// @Tags directory
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} models.DirectoryUser
// @Failure 404 {object} ErrorResponse
// @Router /users/{userId} [get]
func (h *DirectoryHandler) HandleGetUser(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	user, err := h.directoryService.GetUser(ctx, req.Param("userId"))
	if err != nil {
		return dispatch(h.logger, getUserErr, err), nil
	}
	return lambda.JSON(http.StatusOK, user), nil
}

// @Summary Update a directory user
// @Tags directory
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body models.UpdateDirectoryUserRequest true "Fields to change"
// @Success 200 {object} DirectoryUserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{userId} [put]
func (h *DirectoryHandler) HandleUpdateUser(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.UpdateDirectoryUserRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	user, err := h.directoryService.UpdateUser(ctx, req.Param("userId"), &body)
	if err != nil {
		return dispatch(h.logger, updateUserErr, err), nil
	}
	return lambda.JSON(http.StatusOK, DirectoryUserResponse{Message: "User updated", User: user}), nil
}

// @Summary Delete a directory user
// @Tags directory
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} lambda.MessageBody
// @Failure 404 {object} ErrorResponse
// @Router /users/{userId} [delete]
func (h *DirectoryHandler) HandleDeleteUser(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if err := h.directoryService.DeleteUser(ctx, req.Param("userId")); err != nil {
		return dispatch(h.logger, deleteUserErr, err), nil
	}
	return lambda.Message(http.StatusOK, "User deleted"), nil
}

// HandleUnsupported answers routes the directory does not serve
func HandleUnsupported(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return lambda.Error(http.StatusBadRequest, "UnsupportedRoute", "Unsupported method or path"), nil
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	service "github.com/aaravmahajanofficial/artisan-storefront/internal/services"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type AdminHandler struct {
	adminService service.AdminService
	validator    *validator.Validate
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService, validator: validator.New()}
}

// Login godoc
//
//	@Summary		Admin login
//	@Description	Exchanges the admin credentials for a bearer token used on the /admin routes
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.AdminLoginRequest	true	"Credentials"
//	@Success		200			{object}	models.AdminLoginResponse
//	@Failure		401			{object}	response.ErrorResponse	"Invalid email or password"
//	@Failure		429			{object}	response.ErrorResponse	"Too many attempts"
//	@Router			/admin/login [post]
func (h *AdminHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.AdminLoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid admin login input")
			return
		}

		resp, err := h.adminService.Login(r.Context(), &req)
		if err != nil {
			logger.Warn("Admin login failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

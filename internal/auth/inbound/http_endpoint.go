package inbound

import (
	"github.com/antonvb/authgate/internal/auth/entity"
	"github.com/antonvb/authgate/internal/auth/usecase"
	"github.com/antonvb/authgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for authentication and user directory workflows.
type HTTPEndpoint struct {
	uc uc
}

// Login authenticates a user and returns tokens or a one-time-code challenge.
// @Summary Authenticate user
// @Description Validates credentials. Admins receive tokens directly; standard users receive a challenge token for the one-time-code exchange.
// @Tags Auth, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		OtpRequired:    resp.OtpRequired,
		ChallengeToken: resp.ChallengeToken,
		CodeLength:     resp.CodeLength,
		ExpirySeconds:  resp.ExpirySeconds,
		AccessToken:    resp.AccessToken,
		RefreshToken:   resp.RefreshToken,
	}, nil
}

// GenerateOtp issues a one-time code for a pending login challenge.
// @Summary Generate one-time code
// @Description Issues a fresh one-time code and dispatches it over the delivery channel. Issuing again replaces the previous code.
// @Tags Auth, Authentication
// @Accept json
// @Produce json
// @Param request body GenerateOtpRequest true "Code generation payload"
// @Success 200 {object} router.successResponse{data=GenerateOtpResponse} "Issuance result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired login session"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/otp/generate [post]
func (h *HTTPEndpoint) GenerateOtp(r *router.Request) (any, error) {
	var req GenerateOtpRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.GenerateOtp(r.Context(), usecase.GenerateOtpInput{
		ChallengeToken: req.ChallengeToken,
	})
	if err != nil {
		return nil, err
	}

	return GenerateOtpResponse{
		SessionID:     resp.SessionID,
		ExpirySeconds: resp.ExpirySeconds,
	}, nil
}

// VerifyOtp completes the one-time-code exchange and issues tokens.
// @Summary Verify one-time code
// @Description Verifies the submitted code against the active issuance and returns access/refresh tokens on success.
// @Tags Auth, Authentication
// @Accept json
// @Produce json
// @Param request body VerifyOtpRequest true "Code verification payload"
// @Success 200 {object} router.successResponse{data=VerifyOtpResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired code"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/otp/verify [post]
func (h *HTTPEndpoint) VerifyOtp(r *router.Request) (any, error) {
	var req VerifyOtpRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOtp(r.Context(), usecase.VerifyOtpInput{
		ChallengeToken: req.ChallengeToken,
		SessionID:      req.SessionID,
		Code:           req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOtpResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		RedirectTo:   resp.RedirectTo,
	}, nil
}

// RefreshToken issues a new access token using a refresh token.
// @Summary Refresh access token
// @Description Exchanges a refresh token for a new access/refresh token pair.
// @Tags Auth, Authentication
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token payload"
// @Success 200 {object} router.successResponse{data=RefreshTokenResponse} "Token refresh result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid refresh token"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/refresh [post]
func (h *HTTPEndpoint) RefreshToken(r *router.Request) (any, error) {
	var req RefreshTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RefreshToken(r.Context(), usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, err
	}

	return RefreshTokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// Logout revokes a refresh token.
// @Summary Logout
// @Description Invalidates the provided refresh token.
// @Tags Auth, Authentication
// @Security BearerAuth
// @Accept json
// @Param request body LogoutRequest true "Logout payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.Logout(r.Context(), usecase.LogoutInput{RefreshToken: req.RefreshToken})
}

// LogoutAll revokes all active sessions for the current user.
// @Summary Logout all sessions
// @Description Invalidates all refresh tokens for the authenticated user.
// @Tags Auth, Authentication
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/logout-all [post]
func (h *HTTPEndpoint) LogoutAll(r *router.Request) (any, error) {
	return nil, h.uc.LogoutAll(r.Context(), usecase.LogoutAllInput{})
}

// Profile retrieves the current user's profile details.
// @Summary Get profile
// @Description Returns profile information for the authenticated user.
// @Tags Auth, Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Profile result"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context(), usecase.ProfileInput{})
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		ID:       resp.ID,
		Email:    resp.Email,
		FullName: resp.FullName,
		Role:     resp.Role,
		Status:   resp.Status,
	}, nil
}

// UserList returns a list of users with optional filters.
// @Summary List users
// @Description Returns a paginated list of users with optional search and status filters.
// @Tags Auth, Management Users
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search by email or full name"
// @Param sort_by query string false "Sort by email, full name and etc."
// @Param sort_order query string false "Sort order asc or desc"
// @Param status query []int false "Filter by statuses (1=active|2=banned|3=inactive)"
// @Param size query int false "Pagination size"
// @Param page query int false "Pagination page"
// @Success 200 {object} router.successResponse{data=UsersResponse} "User list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/users [get]
func (h *HTTPEndpoint) UserList(r *router.Request) (any, error) {
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.UserList(r.Context(), usecase.UserListInput{
		Search:    r.GetQuery("search"),
		Statuses:  r.GetQueries("status"),
		SortBy:    r.GetQuery("sort_by"),
		SortOrder: r.GetQuery("sort_order"),
		Size:      size,
		Page:      page,
	})
	if err != nil {
		return nil, err
	}

	users := make([]UserResponse, 0, len(resp.Users))
	for _, item := range resp.Users {
		users = append(users, UserResponse{
			ID:       item.ID,
			Email:    item.Email,
			FullName: item.FullName,
			Role:     item.Role.String(),
			Status:   item.Status,
			UpdateAt: item.UpdatedAt,
		})
	}

	return UsersResponse{
		total: resp.Total,
		size:  resp.Size,
		page:  resp.Page,
		Users: users,
	}, nil
}

// @Summary Get user detail
// @Description Returns user details for a given user ID.
// @Tags Auth, Management Users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} router.successResponse{data=UserDetailResponse} "User detail"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/users/{id} [get]
func (h *HTTPEndpoint) UserDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.UserDetail(r.Context(), usecase.UserDetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	return UserDetailResponse{User: UserResponse{
		ID:       resp.User.ID,
		Email:    resp.User.Email,
		FullName: resp.User.FullName,
		Role:     resp.User.Role.String(),
		Status:   resp.User.Status,
		UpdateAt: resp.User.UpdatedAt,
	}}, nil
}

// @Summary Create user
// @Description Creates a new user. Supply an Idempotency-Key header to make retries safe.
// @Tags Auth, Management Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body UserCreateRequest true "User creation payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/users [post]
func (h *HTTPEndpoint) UserCreate(r *router.Request) (any, error) {
	var req UserCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.UserCreate(r.Context(), usecase.UserCreateInput{
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.FullName,
		Role:           entity.RoleFromString(req.Role),
		Status:         req.Status,
	}); err != nil {
		return nil, err
	}

	return nil, nil
}

// @Summary Update user
// @Description Updates a user by ID.
// @Tags Auth, Management Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UserUpdateRequest true "User update payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/users/{id} [put]
func (h *HTTPEndpoint) UserUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req UserUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.UserUpdate(r.Context(), usecase.UserUpdateInput{
		ID:       id,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     entity.RoleFromString(req.Role),
		Status:   req.Status,
	}); err != nil {
		return nil, err
	}

	return nil, nil
}

// @Summary Delete user
// @Description Deletes a user by ID.
// @Tags Auth, Management Users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/users/{id} [delete]
func (h *HTTPEndpoint) UserDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.UserDelete(r.Context(), usecase.UserDeleteInput{ID: id}); err != nil {
		return nil, err
	}

	return nil, nil
}

// @Summary Export users
// @Description Writes the matching users to the export bucket and returns a download link.
// @Tags Auth, Management Users
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search by email or full name"
// @Param status query []int false "Filter by user status"
// @Param sort_by query string false "Sort by email, full name and etc."
// @Param sort_order query string false "Sort order: asc, desc"
// @Success 200 {object} router.successResponse{data=UserExportResponse} "User export"
// @Failure 400 {object} router.errorResponse "Invalid query parameter"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/users-export [get]
func (h *HTTPEndpoint) UserExport(r *router.Request) (any, error) {
	resp, err := h.uc.UserExport(r.Context(), usecase.UserExportInput{
		Search:    r.GetQuery("search"),
		Statuses:  r.GetQueries("status"),
		SortBy:    r.GetQuery("sort_by"),
		SortOrder: r.GetQuery("sort_order"),
	})
	if err != nil {
		return nil, err
	}

	return UserExportResponse{
		Total:       resp.Total,
		ObjectKey:   resp.ObjectKey,
		DownloadURL: resp.DownloadURL,
	}, nil
}

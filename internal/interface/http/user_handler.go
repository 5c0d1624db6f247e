package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "user-management-api/internal/application"
	"user-management-api/internal/domain/entity"
	"user-management-api/pkg/response"
	"user-management-api/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=40,capitalized"`
	LastName  string `json:"lastName" binding:"required,min=2,max=40,capitalized"`
	Email     string `json:"email" binding:"required,email"`
	Country   string `json:"country" binding:"required,capitalized"`
	Role      string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
	Password  string `json:"password" binding:"required,pwd"`
}

type updateUserRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=2,max=40,capitalized"`
	LastName  *string `json:"lastName" binding:"omitempty,min=2,max=40,capitalized"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Country   *string `json:"country" binding:"omitempty,capitalized"`
}

// GetAllUsers GET /api/users
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.Svc.GetAllUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, users, "users", nil)
	c.JSON(resp.Status, resp)
}

// GetUser GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, u, "user", nil)
	c.JSON(resp.Status, resp)
}

// AddUser POST /api/users
func (h *UserHandler) AddUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	u, err := h.Svc.AddUser(c.Request.Context(), userapp.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Country:   req.Country,
		Role:      entity.Role(req.Role),
		Password:  req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusCreated, u, "user created", nil)
	c.JSON(resp.Status, resp)
}

// UpdateUser PATCH /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	u, err := h.Svc.UpdateUser(c.Request.Context(), id, userapp.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Country:   req.Country,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, u, "user updated", nil)
	c.JSON(resp.Status, resp)
}

// DeleteUser DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteUser(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search GET /api/users/search?q=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
	c.JSON(resp.Status, resp)
}

// idParam parses the :id path parameter. A non-numeric id is rejected here;
// non-positive ids pass through so the service produces its own error.
func (h *UserHandler) idParam(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "id must be an integer", map[string]string{"id": raw})
		c.JSON(resp.Status, resp)
		return 0, false
	}
	return id, true
}

func (h *UserHandler) writeError(c *gin.Context, err error) {
	var invalidID *userapp.InvalidIDError
	var notFound *userapp.UserNotFoundError
	switch {
	case errors.As(err, &invalidID):
		resp := response.Error[any](c, http.StatusBadRequest, invalidID.Error(), nil)
		c.JSON(resp.Status, resp)
	case errors.As(err, &notFound):
		resp := response.Error[any](c, http.StatusNotFound, notFound.Error(), nil)
		c.JSON(resp.Status, resp)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("user request failed")
		}
		resp := response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		c.JSON(resp.Status, resp)
	}
}

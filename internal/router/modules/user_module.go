package modules

import (
	"github.com/gin-gonic/gin"

	userapp "user-management-api/internal/application"
	handlers "user-management-api/internal/interface/http"
	"user-management-api/internal/interface/middleware"
)

// UserModule wires the user CRUD handlers behind the basic-auth security
// filter.
// Protected: GET/POST /api/users, GET /api/users/search,
// GET/PATCH/DELETE /api/users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    *userapp.AuthService
}

func NewUserModule(h *handlers.UserHandler, auth *userapp.AuthService) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.BasicAuth(m.Auth))
	{
		users.GET("", m.Handler.GetAllUsers)
		users.POST("", m.Handler.AddUser)
		users.GET("/search", m.Handler.Search)
		users.GET("/:id", m.Handler.GetUser)
		users.PATCH("/:id", m.Handler.UpdateUser)
		users.DELETE("/:id", m.Handler.DeleteUser)
	}
}

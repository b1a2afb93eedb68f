package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/internal/service"
)

type AuthHandler struct {
	userSvs UserServicer
}

func NewAuthHandler(userSvs UserServicer) *AuthHandler {
	return &AuthHandler{
		userSvs: userSvs,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max_bytes=72"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Register POST RouteGroup + RegisterRoute.
func (a *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		_ = c.AbortWithError(http.StatusUnprocessableEntity, bindErr).SetType(gin.ErrorTypePrivate)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, registerErr := a.userSvs.Register(reqCtx, service.RegisterUserArgs{
		Email:    req.Email,
		Password: req.Password,
	})
	if registerErr != nil {
		if errors.Is(registerErr, domain.ErrDuplicateKey) {
			c.AbortWithStatus(http.StatusConflict)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, registerErr).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusCreated, UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

package api

import (
	"net/http" // HTTP status codes

	"wallet_ledger/internal/domain"  // Account views
	"wallet_ledger/internal/service" // Auth service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RegisterRequest is the sign-up body
type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=31"`
	Password string  `json:"password" binding:"required,min=6,max=72"`
	Role     string  `json:"role" binding:"omitempty,oneof=user standard agent"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=25"`
}

// LoginRequest is the login body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the session token
type AuthResponse struct {
	Token   string               `json:"token"`
	Account domain.PublicAccount `json:"account"`
}

// RegisterHandler creates a standard or agent account
func RegisterHandler(auth *service.AuthService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request: "+err.Error())
			return
		}
		acc, err := auth.Register(c.Request.Context(), service.RegisterInput{
			Username: req.Username,
			Password: req.Password,
			Role:     req.Role,
			Email:    req.Email,
			Phone:    req.Phone,
		})
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "account": acc.Public()})
	}
}

// LoginHandler authenticates an account and returns a JWT token
func LoginHandler(auth *service.AuthService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request")
			return
		}
		token, acc, err := auth.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token, Account: acc.Public()})
	}
}

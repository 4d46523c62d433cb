package api

import (
	"net/http" // HTTP status codes

	"wallet_ledger/internal/service" // Profile service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// UpdateProfileRequest changes any subset of handle, email and phone
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=31"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=25"`
}

// ChangePasswordRequest replaces the caller's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// MeHandler returns the caller's account
func MeHandler(profile *service.ProfileService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, err := profile.Me(c.Request.Context(), callerFrom(c))
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"account": acc})
	}
}

// UpdateProfileHandler edits the caller's handle, email or phone
func UpdateProfileHandler(profile *service.ProfileService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request: "+err.Error())
			return
		}
		acc, err := profile.UpdateProfile(c.Request.Context(), callerFrom(c), service.ProfileUpdate{
			Username: req.Username,
			Email:    req.Email,
			Phone:    req.Phone,
		})
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "account": acc})
	}
}

// ChangePasswordHandler updates the caller's password
func ChangePasswordHandler(profile *service.ProfileService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request")
			return
		}
		if err := profile.ChangePassword(c.Request.Context(), callerFrom(c), req.OldPassword, req.NewPassword); err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}

// LookupHandler resolves ?q= (or username/email/phone) to a public account
func LookupHandler(profile *service.ProfileService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Query("q")
		for _, k := range []string{"username", "email", "phone"} {
			if ref == "" {
				ref = c.Query(k)
			}
		}
		if ref == "" {
			badRequest(c, "provide q, username, email or phone")
			return
		}
		acc, err := profile.Lookup(c.Request.Context(), callerFrom(c), ref)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, acc)
	}
}

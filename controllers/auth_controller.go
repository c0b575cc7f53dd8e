package controllers

import (
	"net/http"

	"github.com/andrepriyanto/cctvadmin/apperrors"
	"github.com/andrepriyanto/cctvadmin/dto"
	"github.com/andrepriyanto/cctvadmin/middleware"
	"github.com/andrepriyanto/cctvadmin/services"
	"github.com/gin-gonic/gin"
)

// respondError owns the kind-to-transport mapping: validation and conflicts
// are 400 with a readable message, auth failures are a bare 401, missing
// records are 404.
func respondError(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.Validation, apperrors.Conflict:
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": apperrors.MessageOf(err)})
	case apperrors.Auth:
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.MessageOf(err)})
	case apperrors.NotFound:
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": apperrors.MessageOf(err)})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
	}
}

func Login(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
			return
		}

		result, err := auth.Login(c.Request.Context(), body.Username, body.Password, body.DeviceToken)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token": result.AccessToken,
			"token_type":   result.TokenType,
			"expires_in":   result.ExpiresIn,
		})
	}
}

func Logout(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		if err := auth.Logout(c.Request.Context(), ident); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
	}
}

func Refresh(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		result, err := auth.Refresh(c.Request.Context(), ident)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token": result.AccessToken,
			"token_type":   result.TokenType,
			"expires_in":   result.ExpiresIn,
		})
	}
}

func Register(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
			return
		}

		err := accounts.Register(c.Request.Context(), services.RegisterInput{
			Name:            body.Name,
			Username:        body.Username,
			Email:           body.Email,
			Password:        body.Password,
			PasswordConfirm: body.PasswordConfirm,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Registration successful"})
	}
}

func UpdateProfile(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		var body dto.UpdateProfileDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
			return
		}

		err := accounts.Update(c.Request.Context(), ident, services.UpdateProfileInput{
			Name:     body.Name,
			Email:    body.Email,
			Password: body.Password,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Update successful"})
	}
}

func Detail(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		user, err := accounts.Detail(c.Request.Context(), ident)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "data": user})
	}
}

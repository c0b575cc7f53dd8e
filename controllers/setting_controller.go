package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/andrepriyanto/cctvadmin/database"
	"github.com/andrepriyanto/cctvadmin/models"
	"github.com/andrepriyanto/cctvadmin/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GET /settings
// Public: the login page needs the title and logo before authentication.
func GetSettings() gin.HandlerFunc {
	return func(c *gin.Context) {
		col := database.OpenCollection("settings")

		var setting models.Setting
		err := col.FindOne(c.Request.Context(), bson.M{"key": models.SettingKeySite}).Decode(&setting)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusOK, gin.H{"status": "success", "data": models.Setting{Key: models.SettingKeySite}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "data": setting})
	}
}

// POST /admin/settings
// Multipart form: web_title, web_description, optional web_logo file.
func UpdateSettings(v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := strings.TrimSpace(c.PostForm("web_title"))
		description := strings.TrimSpace(c.PostForm("web_description"))
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Web title is required"})
			return
		}

		set := bson.M{
			"webTitle":       title,
			"webDescription": description,
			"updatedAt":      time.Now().UTC(),
		}

		if fileHeader, err := c.FormFile("web_logo"); err == nil {
			if _, err := v.ValidateFile(fileHeader); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
				return
			}

			ctx := c.Request.Context()
			client, bucket, err := utils.NewGCSClient(ctx)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
				return
			}
			defer client.Close()

			logoURL, err := utils.UploadLogoToGCS(ctx, client, bucket, fileHeader)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
				return
			}
			set["webLogo"] = logoURL
		}

		col := database.OpenCollection("settings")
		opts := options.UpdateOne().SetUpsert(true)
		_, err := col.UpdateOne(c.Request.Context(),
			bson.M{"key": models.SettingKeySite},
			bson.M{
				"$set":         set,
				"$setOnInsert": bson.M{"key": models.SettingKeySite},
			},
			opts,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Settings updated"})
	}
}

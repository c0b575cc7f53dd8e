package controllers

import (
	"net/http"

	"github.com/andrepriyanto/cctvadmin/database"
	"github.com/andrepriyanto/cctvadmin/dto"
	"github.com/andrepriyanto/cctvadmin/middleware"
	"github.com/andrepriyanto/cctvadmin/models"
	"github.com/andrepriyanto/cctvadmin/services"
	"github.com/andrepriyanto/cctvadmin/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func requireAdmin(c *gin.Context) bool {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok || ident.Role != string(models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "Only admins can manage operator accounts"})
		return false
	}
	return true
}

// GET /admin/user-cctv/datatable
func UserCctvDataTable() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c) {
			return
		}

		q := utils.ParseDataTableQuery(c)
		col := database.OpenCollection("users")
		ctx := c.Request.Context()

		base := bson.M{"role": models.RoleOperatorCCTV}
		total, err := col.CountDocuments(ctx, base)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		filter := bson.M{"role": models.RoleOperatorCCTV}
		if q.Search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": q.Search, "$options": "i"}},
				{"username": bson.M{"$regex": q.Search, "$options": "i"}},
				{"email": bson.M{"$regex": q.Search, "$options": "i"}},
			}
		}
		filtered, err := col.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		opts := options.Find().
			SetSkip(int64(q.Start)).
			SetLimit(int64(q.Length)).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		// models.User hides the hash from JSON
		users := []models.User{}
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, utils.DataTableResponse{
			Draw:            q.Draw,
			RecordsTotal:    total,
			RecordsFiltered: filtered,
			Data:            users,
		})
	}
}

// POST /admin/user-cctv
// Same contract as public registration, but only reachable by admins.
func CreateUserCctv(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c) {
			return
		}

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

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Operator account created"})
	}
}

// DELETE /admin/user-cctv/:id
func DeleteUserCctv() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c) {
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid id"})
			return
		}

		col := database.OpenCollection("users")
		res, err := col.DeleteOne(c.Request.Context(), bson.M{
			"_id":  id,
			"role": models.RoleOperatorCCTV, // admins are not deletable here
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "User record not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Operator account deleted"})
	}
}

package controllers

import (
	"net/http"
	"time"

	"github.com/andrepriyanto/cctvadmin/database"
	"github.com/andrepriyanto/cctvadmin/dto"
	"github.com/andrepriyanto/cctvadmin/models"
	"github.com/andrepriyanto/cctvadmin/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GET /admin/buildings/datatable
func BuildingDataTable() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := utils.ParseDataTableQuery(c)
		col := database.OpenCollection("buildings")
		ctx := c.Request.Context()

		total, err := col.CountDocuments(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		filter := bson.M{}
		if q.Search != "" {
			filter["name"] = bson.M{"$regex": q.Search, "$options": "i"}
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
		buildings := []models.Building{}
		if err := cursor.All(ctx, &buildings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, utils.DataTableResponse{
			Draw:            q.Draw,
			RecordsTotal:    total,
			RecordsFiltered: filtered,
			Data:            buildings,
		})
	}
}

// POST /admin/buildings
func CreateBuilding() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.BuildingDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Name is required"})
			return
		}

		now := time.Now().UTC()
		building := models.Building{
			ID:        bson.NewObjectID(),
			Name:      body.Name,
			Slug:      utils.GenerateSlug(body.Name),
			CreatedAt: now,
			UpdatedAt: now,
		}

		col := database.OpenCollection("buildings")
		if _, err := col.InsertOne(c.Request.Context(), building); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Building name is already used"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Building created"})
	}
}

// PATCH /admin/buildings/:id
func UpdateBuilding() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid id"})
			return
		}

		var body dto.BuildingDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Name is required"})
			return
		}

		col := database.OpenCollection("buildings")
		res, err := col.UpdateByID(c.Request.Context(), id, bson.M{"$set": bson.M{
			"name":      body.Name,
			"slug":      utils.GenerateSlug(body.Name),
			"updatedAt": time.Now().UTC(),
		}})
		if err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Building name is already used"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Building not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Building updated"})
	}
}

// DELETE /admin/buildings/:id
func DeleteBuilding() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid id"})
			return
		}
		ctx := c.Request.Context()

		// refuse to orphan floors
		floors := database.OpenCollection("floors")
		n, err := floors.CountDocuments(ctx, bson.M{"buildingId": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		if n > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Building still has floors"})
			return
		}

		col := database.OpenCollection("buildings")
		res, err := col.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Building not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Building deleted"})
	}
}

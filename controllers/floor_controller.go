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
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GET /admin/floors/datatable
// Optional buildingId query narrows the listing to one building.
func FloorDataTable() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := utils.ParseDataTableQuery(c)
		col := database.OpenCollection("floors")
		ctx := c.Request.Context()

		base := bson.M{}
		if bid := c.Query("buildingId"); bid != "" {
			id, err := bson.ObjectIDFromHex(bid)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid buildingId"})
				return
			}
			base["buildingId"] = id
		}

		total, err := col.CountDocuments(ctx, base)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		filter := bson.M{}
		for k, v := range base {
			filter[k] = v
		}
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
		floors := []models.Floor{}
		if err := cursor.All(ctx, &floors); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, utils.DataTableResponse{
			Draw:            q.Draw,
			RecordsTotal:    total,
			RecordsFiltered: filtered,
			Data:            floors,
		})
	}
}

// POST /admin/floors
func CreateFloor() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.FloorDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Building and name are required"})
			return
		}

		buildingID, err := bson.ObjectIDFromHex(body.BuildingID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid buildingId"})
			return
		}
		ctx := c.Request.Context()

		// the parent building must exist
		buildings := database.OpenCollection("buildings")
		if err := buildings.FindOne(ctx, bson.M{"_id": buildingID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Building not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		now := time.Now().UTC()
		floor := models.Floor{
			ID:         bson.NewObjectID(),
			BuildingID: buildingID,
			Name:       body.Name,
			Slug:       utils.GenerateSlug(body.Name),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		col := database.OpenCollection("floors")
		if _, err := col.InsertOne(ctx, floor); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Floor name is already used in this building"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Floor created"})
	}
}

// PATCH /admin/floors/:id
func UpdateFloor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid id"})
			return
		}

		var body struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Name is required"})
			return
		}

		col := database.OpenCollection("floors")
		res, err := col.UpdateByID(c.Request.Context(), id, bson.M{"$set": bson.M{
			"name":      body.Name,
			"slug":      utils.GenerateSlug(body.Name),
			"updatedAt": time.Now().UTC(),
		}})
		if err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Floor name is already used in this building"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Floor not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Floor updated"})
	}
}

// DELETE /admin/floors/:id
func DeleteFloor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid id"})
			return
		}
		ctx := c.Request.Context()

		// refuse to orphan cameras
		cctvs := database.OpenCollection("cctvs")
		n, err := cctvs.CountDocuments(ctx, bson.M{"floorId": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		if n > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Floor still has cameras"})
			return
		}

		col := database.OpenCollection("floors")
		res, err := col.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Floor not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Floor deleted"})
	}
}

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

// GET /admin/cctvs/datatable
func CctvDataTable() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := utils.ParseDataTableQuery(c)
		col := database.OpenCollection("cctvs")
		ctx := c.Request.Context()

		base := bson.M{}
		if fid := c.Query("floorId"); fid != "" {
			id, err := bson.ObjectIDFromHex(fid)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid floorId"})
				return
			}
			base["floorId"] = id
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
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": q.Search, "$options": "i"}},
				{"code": bson.M{"$regex": q.Search, "$options": "i"}},
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
		cctvs := []models.Cctv{}
		if err := cursor.All(ctx, &cctvs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, utils.DataTableResponse{
			Draw:            q.Draw,
			RecordsTotal:    total,
			RecordsFiltered: filtered,
			Data:            cctvs,
		})
	}
}

// POST /admin/cctvs
func CreateCctv() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CctvDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Floor, name, code and stream URL are required"})
			return
		}

		floorID, err := bson.ObjectIDFromHex(body.FloorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid floorId"})
			return
		}
		ctx := c.Request.Context()

		floors := database.OpenCollection("floors")
		if err := floors.FindOne(ctx, bson.M{"_id": floorID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Floor not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		isActive := true
		if body.IsActive != nil {
			isActive = *body.IsActive
		}

		now := time.Now().UTC()
		cctv := models.Cctv{
			ID:        bson.NewObjectID(),
			FloorID:   floorID,
			Name:      body.Name,
			Code:      body.Code,
			StreamURL: body.StreamURL,
			IsActive:  isActive,
			CreatedAt: now,
			UpdatedAt: now,
		}

		col := database.OpenCollection("cctvs")
		if _, err := col.InsertOne(ctx, cctv); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Camera code is already used"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Camera created"})
	}
}

// PATCH /admin/cctvs/:id
func UpdateCctv() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid id"})
			return
		}

		var body dto.CctvUpdateDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Name != "" {
			set["name"] = body.Name
		}
		if body.Code != "" {
			set["code"] = body.Code
		}
		if body.StreamURL != "" {
			set["streamUrl"] = body.StreamURL
		}
		if body.IsActive != nil {
			set["isActive"] = *body.IsActive
		}

		col := database.OpenCollection("cctvs")
		res, err := col.UpdateByID(c.Request.Context(), id, bson.M{"$set": set})
		if err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Camera code is already used"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Camera not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Camera updated"})
	}
}

// DELETE /admin/cctvs/:id
func DeleteCctv() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid id"})
			return
		}

		col := database.OpenCollection("cctvs")
		res, err := col.DeleteOne(c.Request.Context(), bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Camera not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Camera deleted"})
	}
}

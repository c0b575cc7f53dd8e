package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/andrepriyanto/cctvadmin/controllers"
	"github.com/andrepriyanto/cctvadmin/database"
	"github.com/andrepriyanto/cctvadmin/middleware"
	"github.com/andrepriyanto/cctvadmin/repository"
	"github.com/andrepriyanto/cctvadmin/services"
	"github.com/andrepriyanto/cctvadmin/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using system environment variables")
	}

	ctx := context.Background()
	if err := database.Connect(ctx); err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Disconnect(context.Background())

	if err := database.EnsureIndexes(ctx); err != nil {
		logger.Fatal("index creation failed", zap.Error(err))
	}

	usersCol := database.OpenCollection("users")
	if err := utils.SeedAdminUser(ctx, usersCol, logger); err != nil {
		logger.Fatal("admin seeding failed", zap.Error(err))
	}

	issuer := utils.NewJWTIssuer(utils.JWTSecret(), utils.AccessTTL())
	users := repository.NewMongoUserStore(usersCol)
	authSvc := services.NewAuthService(users, issuer, logger)
	accountSvc := services.NewAccountService(users, logger)
	fileValidator := utils.NewImageValidator()

	r := gin.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	logger.Info("configured CORS origins", zap.Int("count", len(allowedOrigins)))
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.GET("/settings", controllers.GetSettings())

	auth := r.Group("/auth")
	auth.POST("/login", controllers.Login(authSvc))
	auth.POST("/register", controllers.Register(accountSvc))

	authed := auth.Group("")
	authed.Use(middleware.AuthMiddleware(issuer))
	{
		authed.POST("/logout", controllers.Logout(authSvc))
		authed.POST("/refresh", controllers.Refresh(authSvc))
		authed.POST("/update", controllers.UpdateProfile(accountSvc))
		authed.GET("/detail", controllers.Detail(accountSvc))
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(issuer))
	{
		admin.POST("/settings", controllers.UpdateSettings(fileValidator))

		admin.GET("/buildings/datatable", controllers.BuildingDataTable())
		admin.POST("/buildings", controllers.CreateBuilding())
		admin.PATCH("/buildings/:id", controllers.UpdateBuilding())
		admin.DELETE("/buildings/:id", controllers.DeleteBuilding())

		admin.GET("/floors/datatable", controllers.FloorDataTable())
		admin.POST("/floors", controllers.CreateFloor())
		admin.PATCH("/floors/:id", controllers.UpdateFloor())
		admin.DELETE("/floors/:id", controllers.DeleteFloor())

		admin.GET("/cctvs/datatable", controllers.CctvDataTable())
		admin.POST("/cctvs", controllers.CreateCctv())
		admin.PATCH("/cctvs/:id", controllers.UpdateCctv())
		admin.DELETE("/cctvs/:id", controllers.DeleteCctv())

		admin.GET("/user-cctv/datatable", controllers.UserCctvDataTable())
		admin.POST("/user-cctv", controllers.CreateUserCctv(accountSvc))
		admin.DELETE("/user-cctv/:id", controllers.DeleteUserCctv())
	}

	// Server will listen on 0.0.0.0:8080 unless PORT overrides it
	if err := r.Run(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

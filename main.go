package main

import (
	"time"

	"go.uber.org/zap"

	"unisport/auth"
	"unisport/database"
	"unisport/handlers"
	"unisport/internal/ws"
	"unisport/middlewares"
	"unisport/teams"
	"unisport/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

func main() {
	logger, err := utils.InitLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	config, err := database.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config.json", zap.Error(err))
	}
	auth.SetKey(config.JWTSecret)

	// Initialize PostgreSQL and Redis concurrently.
	var db *gorm.DB
	var rdb *redis.Client
	done := make(chan bool)

	go func() {
		db, err = database.InitPostgreSQL(config, logger)
		if err != nil {
			logger.Fatal("Failed to initialize PostgreSQL", zap.Error(err))
		}
		done <- true
	}()

	go func() {
		rdb, err = database.InitRedis(logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		done <- true
	}()

	<-done
	<-done

	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	go utils.CronCleaner(db, logger)

	hub := ws.NewHub(logger)

	router := gin.Default()
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	allowOrigins := config.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/auth/login", func(c *gin.Context) {
		handlers.Login(c, db, config, logger)
	})

	authed := router.Group("/", middlewares.RequireAuth(rdb, logger))
	{
		authed.POST("/auth/logout", func(c *gin.Context) {
			handlers.Logout(c, rdb, logger)
		})

		authed.GET("/profile", func(c *gin.Context) {
			handlers.GetProfile(c, db, logger)
		})
		authed.PUT("/profile", func(c *gin.Context) {
			handlers.UpdateProfile(c, db, logger)
		})

		authed.GET("/tournaments", func(c *gin.Context) {
			handlers.ListTournaments(c, db, logger)
		})
		authed.GET("/tournaments/:tournamentId/games", func(c *gin.Context) {
			handlers.ListTournamentGames(c, db, logger)
		})
		authed.GET("/games/:gameId", func(c *gin.Context) {
			handlers.GetGame(c, db, logger)
		})
		authed.POST("/games/:gameId/register", func(c *gin.Context) {
			handlers.RegisterIndividual(c, db, logger)
		})
		authed.GET("/registrations", func(c *gin.Context) {
			handlers.MyRegistrations(c, db, logger)
		})

		authed.GET("/cart", func(c *gin.Context) {
			handlers.GetCart(c, db, logger)
		})
		authed.DELETE("/cart/items/:itemId", func(c *gin.Context) {
			handlers.RemoveCartItem(c, db, logger)
		})
		authed.POST("/cart/checkout", func(c *gin.Context) {
			handlers.Checkout(c, db, logger)
		})

		authed.GET("/notifications", func(c *gin.Context) {
			handlers.ListNotifications(c, db, logger)
		})
		authed.PUT("/notifications/:notificationId/read", func(c *gin.Context) {
			handlers.MarkNotificationRead(c, db, logger)
		})

		authed.POST("/team", func(c *gin.Context) {
			teams.CreateTeam(c, db, logger)
		})
		authed.GET("/team/mine", func(c *gin.Context) {
			teams.MyTeams(c, db, logger)
		})
		authed.GET("/team/:teamId", func(c *gin.Context) {
			teams.GetTeam(c, db, logger)
		})
		authed.POST("/team/:teamId/members", func(c *gin.Context) {
			teams.InviteMember(c, db, hub, logger)
		})
		authed.POST("/team/invitation/accept", func(c *gin.Context) {
			teams.AcceptInvitation(c, db, logger)
		})
		authed.POST("/team/invitation/reject", func(c *gin.Context) {
			teams.RejectInvitation(c, db, logger)
		})
		authed.DELETE("/team/:teamId/members/:memberId", func(c *gin.Context) {
			teams.RemoveMember(c, db, logger)
		})
		authed.PUT("/team/:teamId/members/:memberId/replace", func(c *gin.Context) {
			teams.ReplaceMember(c, db, hub, logger)
		})
		authed.POST("/team/:teamId/confirm", func(c *gin.Context) {
			teams.ConfirmTeam(c, db, logger)
		})
	}

	// Content routes check the caller's permission set, so roles granted from
	// the admin panel (e.g. an organizer with tournaments:write) work without
	// the full admin role. Role management itself stays admin-only.
	admin := router.Group("/admin", middlewares.RequireAuth(rdb, logger))
	{
		admin.POST("/tournaments", middlewares.RequirePermission(db, "tournaments:write"), func(c *gin.Context) {
			handlers.CreateTournament(c, db, logger)
		})
		admin.PUT("/tournaments/:tournamentId", middlewares.RequirePermission(db, "tournaments:write"), func(c *gin.Context) {
			handlers.UpdateTournament(c, db, logger)
		})
		admin.DELETE("/tournaments/:tournamentId", middlewares.RequirePermission(db, "tournaments:write"), func(c *gin.Context) {
			handlers.DeleteTournament(c, db, logger)
		})
		admin.POST("/games", middlewares.RequirePermission(db, "games:write"), func(c *gin.Context) {
			handlers.CreateGame(c, db, logger)
		})
		admin.PUT("/games/:gameId", middlewares.RequirePermission(db, "games:write"), func(c *gin.Context) {
			handlers.UpdateGame(c, db, logger)
		})
		admin.DELETE("/games/:gameId", middlewares.RequirePermission(db, "games:write"), func(c *gin.Context) {
			handlers.DeleteGame(c, db, logger)
		})
		admin.GET("/registrations", middlewares.RequirePermission(db, "registrations:read"), func(c *gin.Context) {
			handlers.ListRegistrations(c, db, logger)
		})
		admin.GET("/roles", middlewares.RequireAdmin(), func(c *gin.Context) {
			handlers.ListRoles(c, db, logger)
		})
		admin.POST("/roles", middlewares.RequireAdmin(), func(c *gin.Context) {
			handlers.CreateRole(c, db, logger)
		})
		admin.PUT("/roles/:roleName/permissions", middlewares.RequireAdmin(), func(c *gin.Context) {
			handlers.UpdateRolePermissions(c, db, logger)
		})
		admin.PUT("/users/:studentId/role", middlewares.RequireAdmin(), func(c *gin.Context) {
			handlers.AssignUserRole(c, db, logger)
		})
	}

	router.GET("/ws/notifications", func(c *gin.Context) {
		hub.HandleConnections(c)
	})

	addr := config.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	router.Run(addr)
}

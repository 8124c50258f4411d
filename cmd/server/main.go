package main

import (
	"log"
	"os"
	"runtime"

	"backend-sevapali/internal/config"
	"backend-sevapali/internal/http/handler"
	"backend-sevapali/internal/http/middleware"
	"backend-sevapali/internal/queue"
	"backend-sevapali/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	app := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
	})

	config.LoadEnv()
	config.InitRedis()
	config.InitDB()
	defer config.CloseDB()

	// Queue scheduler: MySQL store with conditional updates, Redis-cached
	// service times, change events fanned out over WebSocket.
	scheduler := queue.NewScheduler(
		queue.NewMySQLStore(config.DB),
		realtime.EventBroadcaster{},
		&queue.DBServiceTimes{DB: config.DB, Redis: config.Redis},
	)
	handler.InitQueue(scheduler)
	go realtime.RunDashboardBroadcaster()

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Jan Seva queue API up",
		})
	})

	// Public
	app.Post("/san/login", handler.Login)
	app.Get("/api/offices", handler.GetAllOffices)
	app.Get("/api/offices/:id", handler.GetOfficeByID)
	app.Get("/api/display", handler.GetQueueDisplay)
	app.Get("/ws/dashboard", websocket.New(handler.DashboardWS))

	// Base API (login required)
	api := app.Group("/api", middleware.JWTAuth())

	// Auth
	api.Post("/logout", handler.Logout)

	// ===== CITIZEN ROUTES =====
	api.Post("/tokens", middleware.RoleAuth("citizen"), handler.BookToken)
	api.Get("/tokens/mine", middleware.RoleAuth("citizen"), handler.GetMyTokens)
	api.Delete("/tokens/:id", middleware.RoleAuth("citizen", "super_user"), handler.CancelToken)
	api.Get("/tokens/:id/position", handler.GetTokenPosition)

	// ===== OFFICIAL ROUTES =====
	api.Post("/queue/checkin", middleware.RoleAuth("official", "super_user"), handler.CheckInToken)
	api.Post("/queue/next", middleware.RoleAuth("official"), handler.CallNextToken)
	api.Post("/queue/skip/:id", middleware.RoleAuth("official", "super_user"), handler.SkipToken)
	api.Post("/queue/complete/:id", middleware.RoleAuth("official", "super_user"), handler.CompleteToken)
	api.Get("/queue", middleware.RoleAuth("official"), handler.GetQueueTokens)
	api.Get("/queue/stats", middleware.RoleAuth("official", "super_user"), handler.GetTodayStats)

	// ===== SUPER ADMIN ROUTES =====
	api.Post("/offices", middleware.RoleAuth("super_user"), handler.CreateOffice)
	api.Put("/offices/:id", middleware.RoleAuth("super_user"), handler.UpdateOffice)
	api.Post("/departments", middleware.RoleAuth("super_user"), handler.CreateDepartment)
	api.Put("/departments/:id", middleware.RoleAuth("super_user"), handler.UpdateDepartment)

	addr := os.Getenv("APP_HOST") + ":" + os.Getenv("APP_PORT")
	log.Println("Server listening on", addr)
	log.Fatal(app.Listen(addr))
}

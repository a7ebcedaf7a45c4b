package api

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sales793/torenius-timber/internal/notify"
	"github.com/sales793/torenius-timber/internal/stores/credential"
	"github.com/sales793/torenius-timber/internal/xero"
	"github.com/sales793/torenius-timber/pkg/scheduler"
	"github.com/sales793/torenius-timber/pkg/utils"

	connection_module "github.com/sales793/torenius-timber/internal/api/modules/connection"
	health_module "github.com/sales793/torenius-timber/internal/api/modules/health"
	orders_module "github.com/sales793/torenius-timber/internal/api/modules/orders"
	summary_module "github.com/sales793/torenius-timber/internal/api/modules/summary"

	outreach_morningsummary "github.com/sales793/torenius-timber/internal/outreaches/morning-summary"
)

// Default cron spec for the morning summary: 20:30 UTC is 06:30 AEST.
const defaultSummarySpec = "30 20 * * *"

// scheduledTaskFunctions maps task keys to their corresponding run functions
var scheduledTaskFunctions = map[string]scheduler.TaskRunFunction{
	"morning-summary": outreach_morningsummary.SendMorningSummary,
}

func Start(cfg *utils.Config) {
	// Initialized configuration settings
	port := cfg.GetWithDefault("API_PORT", "8080")

	// Create shared collaborators: credential store, Xero client, email client
	store, err := credential.NewStoreFromConfig(cfg)
	if err != nil {
		log.Fatal("[API-MAIN]: Failed to create credential store: ", err)
	}
	client := xero.NewClient(cfg, store)
	mailer := notify.NewClient(cfg)

	// Add app level settings/routes
	engine := gin.Default()

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (preflight OPTIONS requests
	// short-circuit inside the middleware)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	// Adding custom modules
	health_module.RegisterRoutes(baseGroup)

	connection_module.RegisterRoutes(baseGroup)
	if err := connection_module.Init(cfg, client); err != nil {
		log.Fatal("[API-MAIN]: Failed to init connection module: ", err)
	}

	orders_module.RegisterRoutes(baseGroup)
	if err := orders_module.Init(cfg, client, mailer); err != nil {
		log.Fatal("[API-MAIN]: Failed to init orders module: ", err)
	}

	summary_module.RegisterRoutes(baseGroup)
	if err := summary_module.Init(cfg); err != nil {
		log.Fatal("[API-MAIN]: Failed to init summary module: ", err)
	}

	if err := outreach_morningsummary.Init(cfg, client, mailer); err != nil {
		log.Fatal("[API-MAIN]: Failed to init morning summary: ", err)
	}

	// Start the scheduler with the configured or default task schedule
	manager := scheduler.NewManager(cfg)
	if err := manager.Load(loadTasks(cfg)); err != nil {
		log.Fatal("[API-MAIN]: Failed to load scheduled tasks: ", err)
	}
	manager.Start()
	defer manager.Stop()

	// Then after performing initial setup, start the server
	if err := engine.Run(":" + port); err != nil {
		log.Fatal("[API-MAIN]: Failed to start server: ", err)
	}
}

// loadTasks reads the schedule override file when configured, falling back to
// the built-in morning summary schedule; run functions are bound by key.
func loadTasks(cfg *utils.Config) []*scheduler.Task {
	tasks := []*scheduler.Task{
		{Key: "morning-summary", Spec: cfg.GetWithDefault("SUMMARY_CRON", defaultSummarySpec)},
	}

	if path := cfg.Get("SCHEDULE_CONFIG_PATH"); path != "" {
		loaded, err := scheduler.LoadSchedule(path)
		if err != nil {
			log.Printf("[API-MAIN]: Warning, could not load schedule from %s: %v", path, err)
		} else {
			tasks = loaded
		}
	}

	bound := make([]*scheduler.Task, 0, len(tasks))
	for _, task := range tasks {
		run, ok := scheduledTaskFunctions[task.Key]
		if !ok {
			log.Printf("[API-MAIN]: Warning, no run function for scheduled task '%s', skipping", task.Key)
			continue
		}
		task.Run = run
		bound = append(bound, task)
	}
	return bound
}

// @title        Project Tracker API
// @version      1.0
// @description  Backend API for project administration, time tracking and invoicing
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"projecttracker/internal/cache"
	"projecttracker/internal/database"
	"projecttracker/internal/invoice"
	"projecttracker/internal/router"
	"projecttracker/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "projecttracker/docs" // swag generated docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
	exitFunc        = os.Exit
)

const sendDelay = 2 * time.Second

func run() error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("environment variable DATABASE_URL is not set")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		return fmt.Errorf("environment variable REDIS_ADDR is not set")
	}

	redisIndex := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %v", err)
		}
		redisIndex = i
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")

	workerCount := 1
	if v := os.Getenv("WORKER_COUNT"); v != "" {
		c, err := strconv.Atoi(v)
		if err != nil || c <= 0 {
			return fmt.Errorf("invalid WORKER_COUNT: %v", err)
		}
		workerCount = c
	}

	db, err := newPgxPool(context.Background(), dbURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(redisAddr, redisPassword, redisIndex)
	if err != nil {
		return fmt.Errorf("redis connection failed: %v", err)
	}
	defer rdb.Close()

	if err := runMigrationsFn(dbURL); err != nil {
		return fmt.Errorf("migration failed: %v", err)
	}

	wp := newWorkerPool(workerCount)
	defer wp.Stop()
	sender := invoice.NewSender(wp, sendDelay)

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	router.Setup(e, db, rdb, sender)

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return startServer(e, ":8080")
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}

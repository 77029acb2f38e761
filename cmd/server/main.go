package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof" // register pprof handlers
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Srekanthnamilakonda/Pookie/internal/config"
	battleHttp "github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/adapter/http"
	battleDomain "github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/domain"
	battleDB "github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/repository/db"
	battleMemory "github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/repository/memory"
	battleRedis "github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/repository/redis"
	battleUseCase "github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/usecase"
	ledgerDomain "github.com/Srekanthnamilakonda/Pookie/internal/modules/ledger/domain"
	ledgerRepo "github.com/Srekanthnamilakonda/Pookie/internal/modules/ledger/repository"
	ledgerUseCase "github.com/Srekanthnamilakonda/Pookie/internal/modules/ledger/usecase"
	"github.com/Srekanthnamilakonda/Pookie/pkg/logger"
)

func main() {
	pprofPort := flag.String("pprof-port", "", "Port to run pprof server on (e.g., 6060)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.LoadBattleConfig()
	logger.InitWithFile("logs/battle/server.log", cfg.Server.LogLevel, "json")

	if *pprofPort != "" {
		go func() {
			addr := "localhost:" + *pprofPort
			logger.InfoGlobal().Str("addr", addr).Msg("Starting pprof server")
			if err := http.ListenAndServe(addr, nil); err != nil {
				logger.ErrorGlobal().Err(err).Msg("Failed to start pprof server")
			}
		}()
	}

	logger.InfoGlobal().Msg("Starting battle service...")

	// Database
	dbConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name)

	gormLog := logger.NewGormLogger()
	gormLog.LogLevel = gormlogger.Warn

	db, err := gorm.Open(postgres.Open(dbConnStr), &gorm.Config{Logger: gormLog})
	if err != nil {
		logger.FatalGlobal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.FatalGlobal().Err(err).Msg("Failed to get database instance")
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.FatalGlobal().Err(err).Msg("Failed to ping database")
	}
	if err := db.AutoMigrate(&ledgerDomain.Player{}, &ledgerDomain.MatchRecord{}, &battleDomain.BattleRecord{}); err != nil {
		logger.FatalGlobal().Err(err).Msg("Failed to migrate database")
	}
	logger.InfoGlobal().Msg("Database connected")

	// Room store
	var roomRepo battleDomain.RoomRepository
	if cfg.RepoType == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.FatalGlobal().Err(err).Msg("Failed to ping redis")
		}
		roomRepo = battleRedis.NewRoomRepository(rdb)
		logger.InfoGlobal().Msg("Room repository: Redis")
	} else {
		roomRepo = battleMemory.NewRoomRepository()
		logger.InfoGlobal().Msg("Room repository: Memory")
	}

	// Ledger module
	playerRepo := ledgerRepo.NewPlayerRepository(db)
	ledgerUC := ledgerUseCase.NewLedgerUseCase(playerRepo)
	logger.InfoGlobal().Msg("Ledger module initialized")

	// Battle module
	recordRepo := battleDB.NewBattleRecordRepository(db)
	battleUC := battleUseCase.NewBattleUseCase(roomRepo, ledgerUC, recordRepo)
	battleUC.Duration = cfg.Settings.Duration
	battleUC.CookiesPerWager = cfg.Settings.CookiesPerWager
	battleUC.RoomIDLength = cfg.Settings.RoomIDLength
	battleHandler := battleHttp.NewHandler(battleUC)
	logger.InfoGlobal().
		Dur("duration", cfg.Settings.Duration).
		Int64("cookies_per_wager", cfg.Settings.CookiesPerWager).
		Msg("Battle module initialized")

	// HTTP server
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware())

	api := router.Group("/api")
	battleHandler.RegisterRoutes(api.Group("/battle"))

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalGlobal().Err(err).Msg("HTTP server failed")
		}
	}()

	logger.InfoGlobal().
		Str("port", cfg.Server.Port).
		Str("api_url", fmt.Sprintf("http://localhost:%s/api/battle", cfg.Server.Port)).
		Msg("Battle service running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.InfoGlobal().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorGlobal().Err(err).Msg("Server forced to shutdown")
	}

	logger.InfoGlobal().Msg("Server exited properly")
}

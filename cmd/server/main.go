package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/db"
	mdmHttp "seniorcarehub.xyz/tablet-mdm-service/pkg/http"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/mdm"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/ws"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	mdmDbType := os.Getenv(common.EnvKeyMDMDBType)
	switch mdmDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown MDM_DB_TYPE: " + mdmDbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyMDMHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyMDMDefaultRate), 64); err != nil {
		log.Fatal("Invalid MDM_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyMDMDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid MDM_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	mdmCore := mdm.NewMDM(dbInstance)

	if offlineAfter := os.Getenv(common.EnvKeyMDMOfflineAfterSeconds); offlineAfter != "" {
		seconds, err := strconv.ParseInt(offlineAfter, 10, 64)
		if err != nil {
			log.Fatal("Invalid MDM_OFFLINE_AFTER_SECONDS, should be an int value")
		}
		mdmCore.OfflineAfter = time.Duration(seconds) * time.Second
	}

	hub := ws.NewManager(ws.DefaultConfig(), mdmCore)
	mdmCore.Channels = hub
	mdmCore.WithServices(mdm.ServiceOpts{
		Notifier: mdm.NewWsNotifier(mdmCore.Directory, hub),
	})

	sweepSpec := os.Getenv(common.EnvKeyMDMSweepSpec)
	if sweepSpec == "" {
		sweepSpec = "@every 1m"
	}
	scheduler := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := scheduler.AddFunc(sweepSpec, func() {
		mdmCore.SweepOffline()
	}); err != nil {
		log.Fatalf("failed to schedule offline sweep: %v", err)
	}
	scheduler.Start()
	logger.Info("Offline sweep scheduled", zap.String("spec", sweepSpec))

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	logger.Info("Starting HTTP server on port " + httpHostPort)
	rs := &mdmHttp.RestfulServer{
		Server:           gin.Default(),
		Mdm:              mdmCore,
		Hub:              hub,
		RateLimiterStore: mdm.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}

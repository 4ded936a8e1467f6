package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"enercheck/internal/config"
	"enercheck/internal/mockapi"
	"enercheck/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)
	must(util.InitLogger(cfg.LogEnv))
	defer util.SyncLogger()

	if cfg.LogEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := mockapi.NewServer(cfg.EnsekUsername, cfg.EnsekPassword)
	util.GetLogger().Info("mock ensek api listening", zap.String("addr", cfg.MockListenAddr))
	must(server.Engine().Run(cfg.MockListenAddr))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

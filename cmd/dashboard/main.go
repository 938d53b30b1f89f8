package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"investment-backoffice-go/internal/common"
	"investment-backoffice-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger(os.Getenv("LOG_LEVEL"))
	defer loggerCleanup()

	startFlag := flag.String("start", "", "Range start (YYYY-MM-DD); requires -end")
	endFlag := flag.String("end", "", "Range end (YYYY-MM-DD); requires -start")
	exportsFlag := flag.Int("exports", 0, "Also list the N most recent spreadsheet exports")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	identity, err := common.RequireUser(services.Session, logger)
	if err != nil {
		logger.Fatal("Authentication required", zap.Error(err))
	}

	r, err := common.ParseRange(*startFlag, *endFlag)
	if err != nil {
		logger.Fatal("Invalid date range", zap.Error(err))
	}

	agg, err := services.BackOffice.Aggregate(ctx, r)
	if err != nil {
		common.PrintError(os.Stderr, err)
		logger.Fatal("Failed to load dashboard", zap.Error(err))
	}
	if err := common.RenderDashboard(os.Stdout, *agg); err != nil {
		logger.Fatal("Failed to render dashboard", zap.Error(err))
	}

	if *exportsFlag <= 0 {
		return
	}
	exports, err := services.DbService.ListExports(ctx, identity.UserId, *exportsFlag)
	if err != nil {
		logger.Fatal("Failed to list exports", zap.Error(err))
	}
	common.PrintHeader(os.Stdout, fmt.Sprintf("Recent exports (%d)", len(exports)), common.DefaultWidth)
	for i, e := range exports {
		fmt.Printf("%s%s  %s  %d rows  %s\n",
			common.BoxPrefix(i == len(exports)-1),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Title, e.Rows, e.Path)
	}
}

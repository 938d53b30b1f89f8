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

	investorFlag := flag.String("investor", "", "Investor id (required)")
	createFlag := flag.Bool("create", false, "Register a new agent")
	unlinkFlag := flag.String("unlink", "", "Agent id to unlink")
	flag.String("name", "", "Agent name")
	flag.String("phone", "", "Agent phone")
	flag.String("address", "", "Agent address")
	flag.Parse()

	if *investorFlag == "" {
		fmt.Fprintln(os.Stderr, "-investor is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if _, err := common.RequireUser(services.Session, logger); err != nil {
		logger.Fatal("Authentication required", zap.Error(err))
	}

	svc := services.BackOffice
	switch {
	case *createFlag:
		values := common.FormValues(flag.CommandLine, map[string]string{"name": "name", "phone": "phone", "address": "address"})
		if _, err := svc.CreateAgent(ctx, *investorFlag, values); err != nil {
			common.PrintError(os.Stderr, err)
			logger.Fatal("Failed to create agent", zap.Error(err))
		}
		fmt.Println("✓ Agent created")

	case *unlinkFlag != "":
		if err := svc.UnlinkAgent(ctx, *investorFlag, *unlinkFlag); err != nil {
			common.PrintError(os.Stderr, err)
			logger.Fatal("Failed to unlink agent", zap.Error(err))
		}
		fmt.Println("✓ Agent unlinked")

	default:
		agents, err := svc.ListAgents(ctx, *investorFlag)
		if err != nil {
			common.PrintError(os.Stderr, err)
			logger.Fatal("Failed to list agents", zap.Error(err))
		}
		if err := common.RenderAgents(os.Stdout, agents); err != nil {
			logger.Fatal("Failed to render agents", zap.Error(err))
		}
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"investment-backoffice-go/internal/api"
	"investment-backoffice-go/internal/common"
	"investment-backoffice-go/internal/config"
	"investment-backoffice-go/internal/models"

	"go.uber.org/zap"
)

var investorFields = map[string]string{
	"name":          "name",
	"contact-email": "email",
	"code":          "code",
	"phone":         "phone",
	"address":       "address",
	"balance":       "balance",
	"bank":          "bankName",
	"account":       "accountNumber",
}

func showDetail(ctx context.Context, svc *api.BackOfficeService, id string) error {
	investor, err := svc.GetInvestor(ctx, id)
	if err != nil {
		return err
	}
	investments, err := svc.ListInvestments(ctx, id, models.InvestmentFilter{})
	if err != nil {
		return err
	}
	agents := investor.Agents
	if len(agents) == 0 {
		if agents, err = svc.ListAgents(ctx, id); err != nil {
			return err
		}
	}
	return common.RenderInvestorDetail(os.Stdout, *investor, investments, agents)
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger(os.Getenv("LOG_LEVEL"))
	defer loggerCleanup()

	idFlag := flag.String("id", "", "Investor id (detail, update, delete, recover)")
	emailFilter := flag.String("email", "", "Filter the list by investor email")
	deletedFlag := flag.Bool("deleted", false, "Include deleted investors in the list")
	createFlag := flag.Bool("create", false, "Create an investor from the field flags")
	updateFlag := flag.Bool("update", false, "Update -id with the field flags that are set")
	deleteFlag := flag.Bool("delete", false, "Delete -id")
	recoverFlag := flag.Bool("recover", false, "Recover the deleted investor -id")
	extraBanks := flag.String("extra-banks", "", "Additional bank accounts as Bank:Account,Bank:Account")
	flag.String("name", "", "Investor name")
	flag.String("contact-email", "", "Investor email")
	flag.String("code", "", "Investor code")
	flag.String("phone", "", "Investor phone")
	flag.String("address", "", "Investor address")
	flag.String("balance", "", "Investor balance")
	flag.String("bank", "", "Primary bank name")
	flag.String("account", "", "Primary bank account number")
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

	if _, err := common.RequireUser(services.Session, logger); err != nil {
		logger.Fatal("Authentication required", zap.Error(err))
	}

	svc := services.BackOffice
	values := common.FormValues(flag.CommandLine, investorFields)

	fail := func(msg string, err error) {
		common.PrintError(os.Stderr, err)
		logger.Fatal(msg, zap.Error(err))
	}

	switch {
	case *createFlag:
		banks, err := common.ParseBanks(*extraBanks)
		if err != nil {
			fail("Invalid bank list", err)
		}
		investor, err := svc.CreateInvestor(ctx, values, banks)
		if err != nil {
			fail("Failed to create investor", err)
		}
		if investor != nil {
			fmt.Printf("✓ Investor created: %s (%s)\n", investor.Name, investor.Id)
		} else {
			fmt.Println("✓ Investor created")
		}

	case *updateFlag:
		investor, err := svc.GetInvestor(ctx, *idFlag)
		if err != nil {
			fail("Failed to load investor", err)
		}
		if _, err := svc.UpdateInvestor(ctx, *investor, values); err != nil {
			fail("Failed to update investor", err)
		}
		fmt.Println("✓ Investor updated")

	case *deleteFlag:
		if err := svc.DeleteInvestor(ctx, *idFlag); err != nil {
			fail("Failed to delete investor", err)
		}
		fmt.Println("✓ Investor deleted")

	case *recoverFlag:
		if err := svc.RecoverInvestor(ctx, *idFlag); err != nil {
			fail("Failed to recover investor", err)
		}
		fmt.Println("✓ " + common.InvestorRecoveredMessage)

	case *idFlag != "":
		if err := showDetail(ctx, svc, *idFlag); err != nil {
			fail("Failed to show investor", err)
		}

	default:
		investors, err := common.FindInvestors(ctx, svc, "", *emailFilter, *deletedFlag, logger)
		if err != nil {
			fail("Failed to list investors", err)
		}
		if err := common.RenderInvestors(os.Stdout, investors); err != nil {
			fail("Failed to render investors", err)
		}
	}
}

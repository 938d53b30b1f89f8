package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"investment-backoffice-go/internal/api"
	"investment-backoffice-go/internal/common"
	"investment-backoffice-go/internal/config"
	"investment-backoffice-go/internal/export"
	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/views"

	"go.uber.org/zap"
)

var investmentFields = map[string]string{
	"type":       "type",
	"amount":     "amount",
	"rate":       "interestRate",
	"redemption": "redemptionDate",
	"custom-id":  "customId",
}

type listOptions struct {
	investorId string
	filter     models.InvestmentFilter
	sort       views.SortDirection
	exportName string
	title      string
}

func listInvestments(ctx context.Context, services *common.Services, userId string, opts listOptions) error {
	svc := services.BackOffice
	list, err := svc.ListInvestments(ctx, opts.investorId, opts.filter)
	if err != nil {
		return err
	}
	list = svc.Sort(list, opts.sort)

	title := export.Title(opts.title, opts.filter)
	if err := common.RenderInvestments(os.Stdout, title, list); err != nil {
		return err
	}

	if opts.exportName == "" {
		return nil
	}
	record, err := services.Exporter.Investments(ctx, userId, list, title, opts.exportName)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Printf("✓ Exported %d rows to %s\n", record.Rows, record.Path)
	return nil
}

// findInvestment loads the list the investment belongs to and picks it out
func findInvestment(ctx context.Context, svc *api.BackOfficeService, investorId, id string) (models.Investment, error) {
	if _, err := svc.ListInvestments(ctx, investorId, models.InvestmentFilter{}); err != nil {
		return models.Investment{}, err
	}
	return svc.FindInvestment(investorId, id)
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger(os.Getenv("LOG_LEVEL"))
	defer loggerCleanup()

	investorFlag := flag.String("investor", "", "Investor id; all investments when empty")
	filterFlag := flag.String("filter", string(models.FilterByCreatedAt), "Date column to filter on: createdAt or redemptionDate")
	startFlag := flag.String("start", "", "Range start (YYYY-MM-DD)")
	endFlag := flag.String("end", "", "Range end (YYYY-MM-DD)")
	sortFlag := flag.String("sort", "", "Sort by amount: asc or desc")
	exportFlag := flag.String("export", "", "Write the list to <name>.xlsx")
	titleFlag := flag.String("title", "الاستثمارات", "Table and sheet title")
	createFlag := flag.Bool("create", false, "Create an investment for -investor")
	updateFlag := flag.String("update", "", "Investment id to update with the field flags that are set")
	deleteFlag := flag.String("delete", "", "Investment id to delete")
	redeemFlag := flag.String("redeem", "", "Investment id to redeem early")
	valueFlag := flag.String("value", "", "Redemption value")
	flag.String("type", "", "BONDS or CERTIFICATES")
	flag.String("amount", "", "Invested amount")
	flag.String("rate", "", "Interest rate in percent")
	flag.String("redemption", "", "Redemption date (YYYY-MM-DD)")
	flag.String("custom-id", "", "Investment number")
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

	svc := services.BackOffice
	values := common.FormValues(flag.CommandLine, investmentFields)

	fail := func(msg string, err error) {
		common.PrintError(os.Stderr, err)
		logger.Fatal(msg, zap.Error(err))
	}

	switch {
	case *createFlag:
		investor, err := svc.GetInvestor(ctx, *investorFlag)
		if err != nil {
			fail("Failed to load investor", err)
		}
		if _, err := svc.CreateInvestment(ctx, *investor, values); err != nil {
			fail("Failed to create investment", err)
		}
		fmt.Println("✓ " + common.InvestmentCreatedMessage)

	case *updateFlag != "":
		inv, err := findInvestment(ctx, svc, *investorFlag, *updateFlag)
		if err != nil {
			fail("Failed to load investment", err)
		}
		if _, err := svc.UpdateInvestment(ctx, inv, values); err != nil {
			fail("Failed to update investment", err)
		}
		fmt.Println("✓ " + common.InvestmentUpdatedMessage)

	case *deleteFlag != "":
		inv, err := findInvestment(ctx, svc, *investorFlag, *deleteFlag)
		if err != nil {
			fail("Failed to load investment", err)
		}
		if err := svc.DeleteInvestment(ctx, inv); err != nil {
			fail("Failed to delete investment", err)
		}
		fmt.Println("✓ Investment deleted")

	case *redeemFlag != "":
		inv, err := findInvestment(ctx, svc, *investorFlag, *redeemFlag)
		if err != nil {
			fail("Failed to load investment", err)
		}
		if _, err := svc.RedeemInvestment(ctx, inv, *valueFlag); err != nil {
			fail("Failed to redeem investment", err)
		}
		fmt.Println("✓ " + common.InvestmentRedeemedMessage)

	default:
		r, err := common.ParseRange(*startFlag, *endFlag)
		if err != nil {
			fail("Invalid date range", err)
		}
		dir, err := views.ParseSortDirection(*sortFlag)
		if err != nil {
			fail("Invalid sort", err)
		}
		filterType, err := models.ParseDateFilterType(*filterFlag)
		if err != nil {
			fail("Invalid filter", err)
		}
		opts := listOptions{
			investorId: *investorFlag,
			filter:     models.InvestmentFilter{FilterType: filterType, Range: r},
			sort:       dir,
			exportName: *exportFlag,
			title:      *titleFlag,
		}
		if err := listInvestments(ctx, services, identity.UserId, opts); err != nil {
			fail("Failed to list investments", err)
		}
	}
}

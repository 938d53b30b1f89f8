/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"investment-backoffice-go/internal/calc"
	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/store"
	"investment-backoffice-go/internal/views"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const maxSheetName = 31

var ErrEmptyFilename = errors.New("export filename cannot be empty")

type column struct {
	id     string
	header string
	value  func(inv models.Investment) any
}

func date(t time.Time) any {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02")
}

var columns = []column{
	{"investor", views.InvestorNameHeader, func(inv models.Investment) any {
		if inv.Investor == nil {
			return ""
		}
		return inv.Investor.Name
	}},
	{"type", "نوع الاستثمار", func(inv models.Investment) any { return inv.Type.Label() }},
	{"amount", "المبلغ", func(inv models.Investment) any { return inv.Amount.InexactFloat64() }},
	{"interestRate", "الفائدة", func(inv models.Investment) any {
		return calc.FractionToPercent(inv.InterestRate).InexactFloat64()
	}},
	{"createdAt", "تاريخ الإصدار", func(inv models.Investment) any { return date(inv.CreatedAt) }},
	{"redemptionDate", "تاريخ الاستحقاق", func(inv models.Investment) any { return date(inv.RedemptionDate) }},
	{"redeemed", "تم الاسترداد", func(inv models.Investment) any { return views.YesNo(inv.Redeemed) }},
	{"bank", "البنك", func(inv models.Investment) any { return inv.Bank.BankName }},
	{"accountNumber", "رقم الحساب", func(inv models.Investment) any { return inv.Bank.AccountNumber }},
	{"valueOnMaturity", "القيمة عند الاستحقاق", func(inv models.Investment) any { return inv.ValueOnMaturity.InexactFloat64() }},
	{"customId", "رقم الاستثمار", func(inv models.Investment) any {
		if inv.CustomId == nil {
			return ""
		}
		return *inv.CustomId
	}},
	{"roi", "العائد على الاستثمار", func(inv models.Investment) any {
		if inv.ROI == nil {
			return views.Missing
		}
		return inv.ROI.InexactFloat64()
	}},
}

func columnIndex(id string) (int, bool) {
	for i, c := range columns {
		if c.id == id {
			return i, true
		}
	}
	return 0, false
}

// Exporter writes investment lists to xlsx workbooks
type Exporter struct {
	dir      string
	headers  map[string]string
	sessions store.SessionStore
}

func NewExporter(cfg models.ExportConfig, sessions store.SessionStore) (*Exporter, error) {
	dir := cfg.Directory
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create export directory: %w", err)
	}

	e := &Exporter{dir: dir, sessions: sessions}
	if cfg.HeadersFile != "" {
		headers, err := LoadHeaderLabels(cfg.HeadersFile)
		if err != nil {
			return nil, err
		}
		e.headers = headers
		zap.L().Debug("Loaded export header overrides", zap.Int("count", len(headers)))
	}
	return e, nil
}

// Headers returns the header row. The investor column is included only for
// lists carrying investor names.
func (e *Exporter) Headers(withInvestor bool) []string {
	var out []string
	for _, c := range e.columns(withInvestor) {
		if h, ok := e.headers[c.id]; ok {
			out = append(out, h)
		} else {
			out = append(out, c.header)
		}
	}
	return out
}

func (e *Exporter) columns(withInvestor bool) []column {
	if withInvestor {
		return columns
	}
	return columns[1:]
}

// Investments writes rows to <dir>/<filename>.xlsx in a sheet named after
// title and records the export for userId
func (e *Exporter) Investments(ctx context.Context, userId string, rows []models.Investment, title, filename string) (*models.ExportRecord, error) {
	name := strings.TrimSuffix(filepath.Base(strings.TrimSpace(filename)), ".xlsx")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, ErrEmptyFilename
	}
	path := filepath.Join(e.dir, name+".xlsx")
	sheet := sheetName(title)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			zap.L().Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheet %q: %w", sheet, err)
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("unable to remove default sheet: %w", err)
		}
	}

	rightToLeft := true
	if err := f.SetSheetView(sheet, -1, &excelize.ViewOptions{RightToLeft: &rightToLeft}); err != nil {
		zap.L().Debug("Unable to set sheet direction", zap.Error(err))
	}

	withInvestor := views.HasInvestorColumn(rows)
	cols := e.columns(withInvestor)

	header := make([]any, 0, len(cols))
	for _, h := range e.Headers(withInvestor) {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("unable to write header row: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
			zap.L().Debug("Unable to style header row", zap.Error(err))
		}
	}

	for i, inv := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(cols))
		for j, c := range cols {
			values[j] = c.value(inv)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("unable to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("unable to save %s: %w", path, err)
	}

	zap.L().Info("Exported investments",
		zap.String("file", path),
		zap.String("sheet", sheet),
		zap.Int("rows", len(rows)))

	record := models.ExportRecord{UserId: userId, Title: title, Path: path, Rows: len(rows)}
	if userId == "" || e.sessions == nil {
		return &record, nil
	}
	saved, err := e.sessions.RecordExport(ctx, record)
	if err != nil {
		zap.L().Warn("Unable to record export", zap.String("file", path), zap.Error(err))
		return &record, nil
	}
	return saved, nil
}

// sheetName makes title a valid worksheet name
func sheetName(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return ' '
		}
		return r
	}, title)
	cleaned = strings.Trim(strings.TrimSpace(cleaned), "'")

	runes := []rune(cleaned)
	if len(runes) > maxSheetName {
		cleaned = strings.TrimSpace(string(runes[:maxSheetName]))
	}
	if cleaned == "" {
		return "Sheet1"
	}
	return cleaned
}

// Title builds the sheet title of a filtered investment list
func Title(base string, filter models.InvestmentFilter) string {
	r := filter.Range
	switch {
	case r.Start != nil && r.End != nil:
		return fmt.Sprintf("%s %s %s - %s", base, filter.FilterType.Label(), r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	case r.Start != nil:
		return fmt.Sprintf("%s %s %s", base, filter.FilterType.Label(), r.Start.Format("2006-01-02"))
	case r.End != nil:
		return fmt.Sprintf("%s %s %s", base, filter.FilterType.Label(), r.End.Format("2006-01-02"))
	}
	return base
}

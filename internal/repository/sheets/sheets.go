// Package sheets appends sales reports to a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/young4chicks/brooder/internal/config"
	"github.com/young4chicks/brooder/internal/domain/models"
)

const (
	salesReportRange = "SalesReport!A:E"
	dateLayout       = "2006-01-02"
)

// RowWriter appends rows to a sheet range.
type RowWriter interface {
	WriteRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
}

// GoogleSheetRepository implements RowWriter using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRows appends rows below the last populated row of sheetRange.
func (r *GoogleSheetRepository) WriteRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}
	if len(rows) == 0 {
		return nil
	}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append rows into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("rows appended to sheet", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return nil
}

// ReportExporter writes sales reports as sheet rows.
type ReportExporter struct {
	writer RowWriter
}

// NewReportExporter wires an exporter over writer.
func NewReportExporter(writer RowWriter) *ReportExporter {
	return &ReportExporter{writer: writer}
}

// ExportSalesReport appends one row per agent: period, agent, sales, chicks, revenue.
func (e *ReportExporter) ExportSalesReport(ctx context.Context, report models.SalesReport) error {
	rows := SalesReportRows(report)
	if len(rows) == 0 {
		return nil
	}
	return e.writer.WriteRows(ctx, salesReportRange, rows)
}

// SalesReportRows converts a report into sheet rows.
func SalesReportRows(report models.SalesReport) [][]interface{} {
	period := fmt.Sprintf("%s/%s", report.Start.Format(dateLayout), report.End.Format(dateLayout))
	rows := make([][]interface{}, 0, len(report.Agents))
	for _, agent := range report.Agents {
		rows = append(rows, []interface{}{period, agent.AgentName, agent.Sales, agent.ChicksSold, agent.Revenue})
	}
	return rows
}

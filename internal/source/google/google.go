// Package google reads the pledge and payment tables from a Google
// Spreadsheet, as an alternative to CSV files. Exchange-rate series are not
// served from Sheets; pair this backend with the CSV or sqlite rate source.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"donorboard/internal/core"
	"donorboard/internal/log"
	"donorboard/internal/source"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	paymentsSheet string
	pledgesSheet  string
	logger        *log.Logger
}

// Interface conformance.
var (
	_ source.PaymentSource = (*Client)(nil)
	_ source.PledgeSource  = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional sheet names: GOOGLE_PAYMENTS_SHEET_NAME (default "Payments"),
// GOOGLE_PLEDGES_SHEET_NAME (default "Pledges").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	payments := strings.TrimSpace(os.Getenv("GOOGLE_PAYMENTS_SHEET_NAME"))
	if payments == "" {
		payments = "Payments"
	}
	pledges := strings.TrimSpace(os.Getenv("GOOGLE_PLEDGES_SHEET_NAME"))
	if pledges == "" {
		pledges = "Pledges"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		paymentsSheet: payments,
		pledgesSheet:  pledges,
		logger:        log.ForComponent(log.ComponentSheets),
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// LoadPayments reads the payments tab. The first row is the header; rows
// are parsed with the same column rules as the CSV backend.
func (c *Client) LoadPayments(ctx context.Context) ([]core.Payment, error) {
	rows, err := c.readSheet(ctx, c.paymentsSheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := source.NewHeader(rows[0])
	if err := header.Require(source.ColDate, source.ColAmount, source.ColCurrency); err != nil {
		return nil, fmt.Errorf("sheet %s: %w", c.paymentsSheet, err)
	}
	var out []core.Payment
	for i, fields := range rows[1:] {
		if blankRow(fields) {
			continue
		}
		p, err := source.ParsePayment(header, fields)
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", c.paymentsSheet, i+2, err)
		}
		out = append(out, p)
	}
	c.logger.InfoContext(ctx, "Loaded payments from Sheets", log.FieldRowCount, len(out), "sheet", c.paymentsSheet)
	return out, nil
}

// LoadPledges reads the pledges tab.
func (c *Client) LoadPledges(ctx context.Context) ([]core.Pledge, error) {
	rows, err := c.readSheet(ctx, c.pledgesSheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := source.NewHeader(rows[0])
	if err := header.Require(source.ColPledgeID, source.ColPledgeCreatedAt, source.ColContributionAmount, source.ColCurrency); err != nil {
		return nil, fmt.Errorf("sheet %s: %w", c.pledgesSheet, err)
	}
	var out []core.Pledge
	for i, fields := range rows[1:] {
		if blankRow(fields) {
			continue
		}
		p, err := source.ParsePledge(header, fields)
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", c.pledgesSheet, i+2, err)
		}
		out = append(out, p)
	}
	c.logger.InfoContext(ctx, "Loaded pledges from Sheets", log.FieldRowCount, len(out), "sheet", c.pledgesSheet)
	return out, nil
}

func (c *Client) readSheet(ctx context.Context, sheetName string) ([][]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:Z", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		out = append(out, toStrings(row))
	}
	return out, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func blankRow(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}

package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"budget/internal/core"
	ports "budget/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc             *gsheet.Service
	spreadsheetID   string
	expensesSheet   string
	categoriesSheet string
}

// Ensure interface conformance
var _ ports.SnapshotWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Auth: GOOGLE_CREDENTIALS_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional sheet names: GOOGLE_SHEET_NAME (default "Expenses"),
// GOOGLE_CATEGORIES_SHEET_NAME (default "Categories").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	expensesSheet := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if expensesSheet == "" {
		expensesSheet = "Expenses"
	}
	categoriesSheet := strings.TrimSpace(os.Getenv("GOOGLE_CATEGORIES_SHEET_NAME"))
	if categoriesSheet == "" {
		categoriesSheet = "Categories"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:             svc,
		spreadsheetID:   spreadsheetID,
		expensesSheet:   expensesSheet,
		categoriesSheet: categoriesSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_CREDENTIALS_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	credentialsInline := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_JSON"))
	credentialsFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if credentialsInline == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case credentialsInline != "":
		credentialsJSON = []byte(credentialsInline)
	case credentialsFile != "":
		credentialsJSON, err = os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// WriteSnapshot replaces the backup sheets with the snapshot contents.
// The expenses sheet gets one row per expense, newest data wins: the
// previous contents are cleared first so deleted expenses disappear
// from the backup too.
func (c *Client) WriteSnapshot(ctx context.Context, snap core.Snapshot) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	if err := c.clearRange(ctx, fmt.Sprintf("%s!A:E", c.expensesSheet)); err != nil {
		return err
	}
	if err := c.clearRange(ctx, fmt.Sprintf("%s!A:A", c.categoriesSheet)); err != nil {
		return err
	}

	expenseRows := make([][]any, 0, len(snap.Expenses)+1)
	expenseRows = append(expenseRows, []any{"ID", "Date", "Description", "Amount", "Category"})
	for _, e := range snap.Expenses {
		expenseRows = append(expenseRows, []any{
			e.ID,
			e.Date.Format("2006-01-02"),
			e.Description,
			e.Amount.Decimal(),
			e.Category,
		})
	}

	rng := fmt.Sprintf("%s!A1:E%d", c.expensesSheet, len(expenseRows))
	vr := &gsheet.ValueRange{Values: expenseRows}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet %s: %w", c.expensesSheet, err)
	}

	categoryRows := make([][]any, 0, len(snap.Categories))
	for _, name := range snap.Categories {
		categoryRows = append(categoryRows, []any{name})
	}
	if len(categoryRows) > 0 {
		rng = fmt.Sprintf("%s!A1:A%d", c.categoriesSheet, len(categoryRows))
		vr = &gsheet.ValueRange{Values: categoryRows}
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update sheet %s: %w", c.categoriesSheet, err)
		}
	}

	slog.InfoContext(ctx, "Snapshot written to spreadsheet",
		"expenses", len(snap.Expenses),
		"categories", len(snap.Categories))

	return nil
}

func (c *Client) clearRange(ctx context.Context, rng string) error {
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear range %s: %w", rng, err)
	}
	return nil
}

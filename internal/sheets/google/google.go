package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ports "salesledger/internal/sheets"

	"salesledger/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	DefaultUsersSheet      = "Usuários"
	DefaultDailySalesSheet = "Dados Diários de Vendas"
)

// Options configures a Client.
type Options struct {
	SpreadsheetID   string
	UsersSheet      string
	DailySalesSheet string

	// Service account credentials: inline JSON wins over the file path.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc             *gsheet.Service
	spreadsheetID   string
	usersSheet      string
	dailySalesSheet string
}

// Ensure interface conformance
var _ ports.Remote = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	users := strings.TrimSpace(opts.UsersSheet)
	if users == "" {
		users = DefaultUsersSheet
	}
	daily := strings.TrimSpace(opts.DailySalesSheet)
	if daily == "" {
		daily = DefaultDailySalesSheet
	}

	creds, err := readCredentials(ctx, opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created",
		"spreadsheet_id", spreadsheetID,
		"users_sheet", users,
		"daily_sales_sheet", daily)

	return &Client{
		svc:             svc,
		spreadsheetID:   spreadsheetID,
		usersSheet:      users,
		dailySalesSheet: daily,
	}, nil
}

func readCredentials(ctx context.Context, opts Options) ([]byte, error) {
	inline := strings.TrimSpace(opts.CredentialsJSON)
	file := strings.TrimSpace(opts.CredentialsFile)

	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		return []byte(inline), nil
	case file != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// AppendUser implements sheets.UserRegistry
func (c *Client) AppendUser(ctx context.Context, u core.RemoteUser) error {
	return c.appendRow(ctx, c.usersSheet, "A:E", userValues(u))
}

// FindUser implements sheets.UserRegistry
func (c *Client) FindUser(ctx context.Context, userID string) (core.RemoteUser, bool, error) {
	values, err := c.readAll(ctx, c.usersSheet, "A:E")
	if err != nil {
		return core.RemoteUser{}, false, err
	}
	u, ok := findUser(values, userID)
	return u, ok, nil
}

// AppendDailySales implements sheets.DailySalesWriter
func (c *Client) AppendDailySales(ctx context.Context, row core.DailySalesRow) error {
	return c.appendRow(ctx, c.dailySalesSheet, "A:K", dailySalesValues(row))
}

// ListDailySales implements sheets.DailySalesReader. The whole sheet is read
// and filtered here; the Values API has no server-side filter.
func (c *Client) ListDailySales(ctx context.Context, userID string) ([]core.DailySalesRow, error) {
	values, err := c.readAll(ctx, c.dailySalesSheet, "A:K")
	if err != nil {
		return nil, err
	}
	return parseDailySales(values, userID), nil
}

// TestConnection implements sheets.ConnectionTester
func (c *Client) TestConnection(ctx context.Context) bool {
	if c.svc == nil {
		return false
	}
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		slog.WarnContext(ctx, "Google Sheets connection test failed", "spreadsheet_id", c.spreadsheetID, "error", err)
		return false
	}
	return true
}

// EnsureHeaders writes the header row of each sheet that is still empty.
func (c *Client) EnsureHeaders(ctx context.Context) error {
	for _, s := range []struct {
		name   string
		cols   string
		header []any
	}{
		{c.usersSheet, "A1:E1", usersHeader},
		{c.dailySalesSheet, "A1:K1", dailySalesHeader},
	} {
		values, err := c.readAll(ctx, s.name, s.cols)
		if err != nil {
			return err
		}
		if len(values) > 0 {
			continue
		}
		rng := sheetRange(s.name, s.cols)
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{s.header}}).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write header %s: %w", rng, err)
		}
		slog.InfoContext(ctx, "Wrote sheet header", "sheet", s.name)
	}
	return nil
}

func (c *Client) appendRow(ctx context.Context, sheet, cols string, row []any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := sheetRange(sheet, cols)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", rng, err)
	}
	return nil
}

func (c *Client) readAll(ctx context.Context, sheet, cols string) ([][]interface{}, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := sheetRange(sheet, cols)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// sheetRange builds an A1 range, quoting the sheet name since ours contain
// spaces and accents.
func sheetRange(sheet, cols string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheet, "'", "''"), cols)
}

// Package sheets appends rows to a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// ErrNotConfigured is returned when no spreadsheet is configured
var ErrNotConfigured = errors.New("sheets: spreadsheet not configured")

// Config identifies the target range and the service account used to write it
type Config struct {
	SpreadsheetID   string
	Range           string
	CredentialsJSON string
}

// Appender writes rows to the end of a range
type Appender struct {
	service       *gsheets.Service
	spreadsheetID string
	rng           string
	logger        *logrus.Logger
}

// NewAppender creates an appender authenticated with the service account in
// cfg.CredentialsJSON. Extra options are passed to the Sheets client.
func NewAppender(ctx context.Context, cfg Config, logger *logrus.Logger, opts ...option.ClientOption) (*Appender, error) {
	if cfg.SpreadsheetID == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = logrus.New()
	}

	clientOpts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}
	if cfg.CredentialsJSON != "" {
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := gsheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}

	rng := cfg.Range
	if rng == "" {
		rng = "Sheet1!A:E"
	}

	return &Appender{service: service, spreadsheetID: cfg.SpreadsheetID, rng: rng, logger: logger}, nil
}

// AppendRow appends one row. Values are written as given, without parsing.
func (a *Appender) AppendRow(ctx context.Context, row []interface{}) error {
	resp, err := a.service.Spreadsheets.Values.
		Append(a.spreadsheetID, a.rng, &gsheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		a.logger.WithError(err).WithField("range", a.rng).Error("Failed to append spreadsheet row")
		return fmt.Errorf("sheets: append to %s: %w", a.rng, err)
	}

	if resp.Updates != nil {
		a.logger.WithFields(logrus.Fields{
			"range":        resp.Updates.UpdatedRange,
			"updated_rows": resp.Updates.UpdatedRows,
		}).Info("Appended spreadsheet row")
	}
	return nil
}

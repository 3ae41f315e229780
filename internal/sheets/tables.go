package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/luminaoffer/lumina-offer/internal/recruit"
	"go.uber.org/zap"
)

// Sheet names on the recruiting spreadsheet.
const (
	UsersSheet    = "ユーザー管理"
	OffersSheet   = "オファー管理"
	PostingsSheet = "募集求人"
)

// ErrOfferNotFound is returned when no offer row matches a scheduling
// submission.
var ErrOfferNotFound = errors.New("offer not found")

// UserTable is the Users sheet: one row per candidate, keyed by the user ID
// in column A.
type UserTable struct {
	client *Client
}

func NewUserTable(client *Client) *UserTable {
	return &UserTable{client: client}
}

// Upsert writes the candidate row. An existing row (located by scanning
// column A for the user ID) is overwritten across its full width; otherwise a
// new row is appended. Column order follows the sheet's own header row.
func (t *UserTable) Upsert(ctx context.Context, c *recruit.Candidate) error {
	rows, err := t.client.rows(ctx, UsersSheet)
	if err != nil {
		return fmt.Errorf("read users sheet: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("users sheet has no header row")
	}

	headers := cellStrings(rows[0])

	record, err := encodeRecord(c)
	if err != nil {
		return err
	}

	row := make([]any, len(headers))
	for i, header := range headers {
		row[i] = record[header]
	}

	for i, existing := range rows[1:] {
		cells := cellStrings(existing)
		if len(cells) == 0 || cells[0] != strings.TrimSpace(c.UserID) {
			continue
		}

		rowNum := i + 2
		writeRange := fmt.Sprintf("%s!A%d:%s%d", UsersSheet, rowNum, columnName(len(headers)-1), rowNum)
		t.client.logger.Debug("updating existing candidate row",
			zap.String("user_id", c.UserID),
			zap.String("range", writeRange),
		)
		return t.client.values.Update(ctx, writeRange, [][]any{row})
	}

	t.client.logger.Debug("appending new candidate row", zap.String("user_id", c.UserID))
	return t.client.values.Append(ctx, UsersSheet, [][]any{row})
}

// OfferTable is the Offers sheet. Columns A:D hold the offer record; D:N hold
// the status plus scheduling details once the candidate submits availability.
type OfferTable struct {
	client *Client
}

func NewOfferTable(client *Client) *OfferTable {
	return &OfferTable{client: client}
}

// Append adds one sent-offer row.
func (t *OfferTable) Append(ctx context.Context, o *recruit.Offer) error {
	row := []any{o.UserID, o.StoreID, o.SentDate, o.Status}
	return t.client.values.Append(ctx, OffersSheet, [][]any{row})
}

// UpdateSchedule locates the offer row for the submission's (candidate,
// store) pair with a linear scan and overwrites its scheduling columns D:N in
// place. The table stays small enough that no index is kept.
func (t *OfferTable) UpdateSchedule(ctx context.Context, sub *recruit.ScheduleSubmission) error {
	records, err := t.client.Records(ctx, OffersSheet)
	if err != nil {
		return fmt.Errorf("read offers sheet: %w", err)
	}

	var offers []*recruit.Offer
	if err := decodeRecords(records, &offers); err != nil {
		return err
	}

	userID := strings.TrimSpace(sub.UserID)
	storeID := strings.TrimSpace(sub.StoreID)

	for i, offer := range offers {
		if strings.TrimSpace(offer.UserID) != userID || strings.TrimSpace(offer.StoreID) != storeID {
			continue
		}

		row := make([]any, 0, 11)
		for _, col := range sub.ScheduleColumns() {
			row = append(row, col)
		}

		rowNum := i + 2
		writeRange := fmt.Sprintf("%s!D%d:N%d", OffersSheet, rowNum, rowNum)
		t.client.logger.Info("updating offer schedule",
			zap.String("user_id", userID),
			zap.String("store_id", storeID),
			zap.String("range", writeRange),
		)
		return t.client.values.Update(ctx, writeRange, [][]any{row})
	}

	return fmt.Errorf("%w for user %s and store %s", ErrOfferNotFound, userID, storeID)
}

// PostingTable is the Postings sheet in its merged shape: one row per
// posting, store fields flattened in.
type PostingTable struct {
	client *Client
}

func NewPostingTable(client *Client) *PostingTable {
	return &PostingTable{client: client}
}

// All returns every posting row, open or not. Eligibility filtering happens
// in the pipeline.
func (t *PostingTable) All(ctx context.Context) (*recruit.Postings, error) {
	records, err := t.client.Records(ctx, PostingsSheet)
	if err != nil {
		return nil, fmt.Errorf("read postings sheet: %w", err)
	}

	var items []*recruit.Posting
	if err := decodeRecords(records, &items); err != nil {
		return nil, err
	}

	return &recruit.Postings{Items: items}, nil
}

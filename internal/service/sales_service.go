package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/kimostudio/affiliate-dashboard/internal/dto"
	"github.com/kimostudio/affiliate-dashboard/internal/incentive"
	"github.com/kimostudio/affiliate-dashboard/internal/ingest"
	"github.com/kimostudio/affiliate-dashboard/internal/model"
	"github.com/kimostudio/affiliate-dashboard/internal/repository"
)

type SalesService struct {
	salesRepo   *repository.SalesRepository
	accountRepo *repository.AccountRepository
	clock       Clock
}

func NewSalesService(salesRepo *repository.SalesRepository, accountRepo *repository.AccountRepository, clock Clock) *SalesService {
	return &SalesService{salesRepo: salesRepo, accountRepo: accountRepo, clock: clock}
}

func (s *SalesService) List(ctx context.Context, p incentive.Period, accountID string, limit, offset int) ([]model.SalesRecord, int, error) {
	return s.salesRepo.List(ctx, repository.SalesFilter{
		AccountID: accountID,
		Range:     dateRange(p, s.clock()),
		Limit:     limit,
		Offset:    offset,
	})
}

// UpsertBatch validates every row before writing any. Row problems come back
// as a list so the caller can fix them all at once.
func (s *SalesService) UpsertBatch(ctx context.Context, req *dto.BatchSalesRequest) ([]*model.SalesRecord, []dto.ValidationError, error) {
	var validationErrors []dto.ValidationError
	known := make(map[string]bool)
	records := make([]*model.SalesRecord, 0, len(req.Records))

	for i, row := range req.Records {
		rec, err := s.recordFromRequest(ctx, row, known)
		if err != nil {
			var ve *validationErr
			if !errors.As(err, &ve) {
				return nil, nil, err
			}
			validationErrors = append(validationErrors, dto.ValidationError{
				Index:   i,
				Field:   ve.field,
				Message: ve.message,
			})
			continue
		}
		records = append(records, rec)
	}

	if len(validationErrors) > 0 {
		return nil, validationErrors, nil
	}

	if err := s.salesRepo.UpsertBatch(ctx, records); err != nil {
		return nil, nil, err
	}
	salesRowsUpserted.WithLabelValues("api").Add(float64(len(records)))
	return records, nil, nil
}

func (s *SalesService) recordFromRequest(ctx context.Context, row dto.SalesRowRequest, known map[string]bool) (*model.SalesRecord, error) {
	date, err := ingest.ParseDate(row.Date)
	if err != nil {
		return nil, invalidField("date", "%s", err)
	}
	if row.GrossCommission.IsNegative() {
		return nil, invalidField("gross_commission", "must not be negative")
	}
	if row.TotalPurchases.IsNegative() {
		return nil, invalidField("total_purchases", "must not be negative")
	}

	exists, seen := known[row.AccountID]
	if !seen {
		exists, err = s.accountRepo.Exists(ctx, row.AccountID)
		if err != nil {
			return nil, fmt.Errorf("check account: %w", err)
		}
		known[row.AccountID] = exists
	}
	if !exists {
		return nil, invalidField("account_id", "account '%s' not found", row.AccountID)
	}

	return &model.SalesRecord{
		AccountID:       row.AccountID,
		Date:            date,
		Clicks:          row.Clicks,
		Orders:          row.Orders,
		GrossCommission: row.GrossCommission,
		ProductsSold:    row.ProductsSold,
		TotalPurchases:  row.TotalPurchases,
		NewBuyers:       row.NewBuyers,
	}, nil
}

// Upload parses an export file for one account and upserts its rows.
// Skipped lines are reported, not fatal.
func (s *SalesService) Upload(ctx context.Context, accountID string, r io.Reader) (*dto.UploadResponse, error) {
	exists, err := s.accountRepo.Exists(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("check account: %w", err)
	}
	if !exists {
		return nil, pgx.ErrNoRows
	}

	parsed, err := ingest.Parse(r, accountID)
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyFile) || errors.Is(err, ingest.ErrBadHeader) {
			return nil, invalidField("file", "%s", err)
		}
		return nil, fmt.Errorf("parse upload: %w", err)
	}

	resp := &dto.UploadResponse{
		AccountID: accountID,
		Skipped:   make([]dto.SkippedRow, 0, len(parsed.Skipped)),
		Zeroed:    make([]dto.SkippedRow, 0, len(parsed.Zeroed)),
	}
	for _, sk := range parsed.Skipped {
		resp.Skipped = append(resp.Skipped, dto.SkippedRow{Line: sk.Line, Reason: sk.Reason})
	}
	for _, z := range parsed.Zeroed {
		resp.Zeroed = append(resp.Zeroed, dto.SkippedRow{Line: z.Line, Reason: z.Reason})
	}
	salesRowsSkipped.Add(float64(len(parsed.Skipped)))

	if len(parsed.Records) > 0 {
		records := make([]*model.SalesRecord, len(parsed.Records))
		for i := range parsed.Records {
			records[i] = &parsed.Records[i]
		}
		if err := s.salesRepo.UpsertBatch(ctx, records); err != nil {
			return nil, err
		}
		salesRowsUpserted.WithLabelValues("csv").Add(float64(len(records)))
	}
	resp.Upserted = len(parsed.Records)

	log.Info().
		Str("account_id", accountID).
		Int("upserted", resp.Upserted).
		Int("skipped", len(resp.Skipped)).
		Int("zeroed", len(resp.Zeroed)).
		Msg("sales csv ingested")
	return resp, nil
}

// DeleteForAccount removes an account's rows, optionally limited to the
// inclusive [start, end] day range. Empty bounds are open.
func (s *SalesService) DeleteForAccount(ctx context.Context, accountID, start, end string) (int64, error) {
	var dr repository.DateRange
	if start != "" {
		from, err := dto.ParseDay(start)
		if err != nil {
			return 0, invalidField("start", "expected YYYY-MM-DD")
		}
		dr.From = &from
	}
	if end != "" {
		to, err := dto.ParseDay(end)
		if err != nil {
			return 0, invalidField("end", "expected YYYY-MM-DD")
		}
		dr.To = &to
	}
	if dr.From != nil && dr.To != nil && dr.To.Before(*dr.From) {
		return 0, invalidField("end", "must not be before start")
	}

	exists, err := s.accountRepo.Exists(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("check account: %w", err)
	}
	if !exists {
		return 0, pgx.ErrNoRows
	}
	return s.salesRepo.DeleteForAccount(ctx, accountID, dr)
}

func (s *SalesService) Coverage(ctx context.Context, accountID string) (repository.Coverage, error) {
	exists, err := s.accountRepo.Exists(ctx, accountID)
	if err != nil {
		return repository.Coverage{}, fmt.Errorf("check account: %w", err)
	}
	if !exists {
		return repository.Coverage{}, pgx.ErrNoRows
	}
	return s.salesRepo.Coverage(ctx, accountID)
}

// ExportRows loads the rows of a sales export together with the account
// usernames they are labelled with.
func (s *SalesService) ExportRows(ctx context.Context, p incentive.Period, accountID string) ([]model.SalesRecord, map[string]string, error) {
	records, err := s.salesRepo.ListRange(ctx, accountID, dateRange(p, s.clock()))
	if err != nil {
		return nil, nil, err
	}
	accounts, err := s.accountRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Username
	}
	return records, names, nil
}

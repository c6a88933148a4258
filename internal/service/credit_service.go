package service

import (
	"context"
	"fmt"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/dto"
	"github.com/say-lem/Ventree-Backend-sub001/internal/model"
	"github.com/say-lem/Ventree-Backend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CreditService is the ledger over credit sales: payments only ever shrink
// the outstanding balance, the status only ever moves forward, and the sum
// of recorded payments always equals the amount paid.
type CreditService interface {
	RecordPayment(ctx context.Context, shopID, staffID, saleID uuid.UUID, req dto.RecordPaymentRequest) (*dto.SaleResponse, error)
	CustomerCredit(ctx context.Context, shopID uuid.UUID, phone string) (*dto.CustomerCreditResponse, error)
	OverdueSales(ctx context.Context, shopID uuid.UUID, asOf time.Time) (*dto.OverdueListResponse, error)
	// ScanOverdue fires OnCreditOverdue for every overdue credit sale of the
	// shop. Used by the periodic scan; returns how many sales were flagged.
	ScanOverdue(ctx context.Context, shopID uuid.UUID) (int, error)
}

type creditService struct {
	sales     repository.SaleRepository
	directory repository.DirectoryRepository
	notifier  Notifier
	audit     AuditSink
	now       func() time.Time
}

func NewCreditService(
	sales repository.SaleRepository,
	directory repository.DirectoryRepository,
	notifier Notifier,
	audit AuditSink,
	now func() time.Time,
) CreditService {
	if now == nil {
		now = time.Now
	}
	return &creditService{sales: sales, directory: directory, notifier: notifier, audit: audit, now: now}
}

func (s *creditService) RecordPayment(ctx context.Context, shopID, staffID, saleID uuid.UUID, req dto.RecordPaymentRequest) (*dto.SaleResponse, error) {
	staff, err := s.directory.FindStaffByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff.ShopID != shopID {
		return nil, apierror.E(apierror.KindForbidden, "staff does not belong to this shop")
	}

	sale, err := s.sales.FindForShop(ctx, shopID, saleID)
	if err != nil {
		return nil, err
	}
	if !sale.IsCredit {
		return nil, apierror.ErrNotCreditSale
	}
	if sale.Refunded {
		return nil, apierror.ErrAlreadyRefunded
	}
	if sale.CreditStatus == model.CreditPaid {
		return nil, apierror.ErrCreditSettled
	}
	if !req.Amount.IsPositive() {
		return nil, apierror.E(apierror.KindValidation, "payment amount must be positive")
	}
	if req.Amount.GreaterThan(sale.AmountOwed) {
		return nil, apierror.ErrOverpayment
	}

	// The append re-checks every precondition inside its WHERE clause, so a
	// racing payment cannot slip past the read above.
	payment := &model.CreditPayment{
		SaleID:     saleID,
		Amount:     req.Amount,
		Method:     req.Method,
		ReceivedBy: staffID,
		PaidAt:     s.now(),
	}
	if err := s.sales.AppendPayment(ctx, saleID, payment); err != nil {
		return nil, err
	}

	if s.audit != nil {
		actor := staffID
		entity := saleID
		if aerr := s.audit.LogEvent(ctx, model.AuditPaymentRecorded, shopID, &actor, &entity,
			fmt.Sprintf("payment of %s against sale #%d", req.Amount.StringFixed(2), sale.SaleNumber)); aerr != nil {
			log.Warn().Err(aerr).Msg("credit: audit event failed")
		}
	}

	refreshed, err := s.sales.FindForShop(ctx, shopID, saleID)
	if err != nil {
		return nil, err
	}
	if refreshed.CreditStatus != sale.CreditStatus && !sale.CreditStatus.CanTransitionTo(refreshed.CreditStatus) {
		// The guard should make this unreachable; log loudly if it is not.
		log.Error().
			Str("from", string(sale.CreditStatus)).
			Str("to", string(refreshed.CreditStatus)).
			Int("sale_number", sale.SaleNumber).
			Msg("credit: unexpected status transition")
	}
	return saleToResponse(refreshed), nil
}

func (s *creditService) CustomerCredit(ctx context.Context, shopID uuid.UUID, phone string) (*dto.CustomerCreditResponse, error) {
	if phone == "" {
		return nil, apierror.E(apierror.KindValidation, "customer phone is required")
	}
	sales, err := s.sales.CustomerHistory(ctx, shopID, phone)
	if err != nil {
		return nil, err
	}

	resp := &dto.CustomerCreditResponse{
		CustomerPhone: phone,
		TotalOwed:     decimal.Zero,
		TotalPaid:     decimal.Zero,
		Sales:         make([]dto.SaleResponse, 0, len(sales)),
	}
	for i := range sales {
		sale := &sales[i]
		if resp.CustomerName == "" {
			resp.CustomerName = sale.CustomerName
		}
		if !sale.Refunded {
			resp.TotalOwed = resp.TotalOwed.Add(sale.AmountOwed)
			resp.TotalPaid = resp.TotalPaid.Add(sale.AmountPaid)
			if sale.AmountOwed.IsPositive() {
				resp.OpenSales++
			}
		}
		resp.Sales = append(resp.Sales, *saleToResponse(sale))
	}
	return resp, nil
}

func (s *creditService) OverdueSales(ctx context.Context, shopID uuid.UUID, asOf time.Time) (*dto.OverdueListResponse, error) {
	sales, err := s.sales.ListOverdue(ctx, shopID, asOf)
	if err != nil {
		return nil, err
	}
	resp := &dto.OverdueListResponse{Data: make([]dto.OverdueSaleResponse, 0, len(sales))}
	for i := range sales {
		sale := &sales[i]
		days := int(asOf.Sub(*sale.DueDate).Hours() / 24)
		resp.Data = append(resp.Data, dto.OverdueSaleResponse{
			Sale:        *saleToResponse(sale),
			DaysOverdue: days,
		})
	}
	resp.Total = len(resp.Data)
	return resp, nil
}

func (s *creditService) ScanOverdue(ctx context.Context, shopID uuid.UUID) (int, error) {
	asOf := s.now()
	sales, err := s.sales.ListOverdue(ctx, shopID, asOf)
	if err != nil {
		return 0, err
	}
	flagged := 0
	for i := range sales {
		sale := &sales[i]
		days := int(asOf.Sub(*sale.DueDate).Hours() / 24)
		if s.notifier != nil {
			if nerr := s.notifier.OnCreditOverdue(ctx, shopID, sale.ID, sale.CustomerName, sale.AmountOwed, days); nerr != nil {
				log.Warn().Err(nerr).Int("sale_number", sale.SaleNumber).Msg("credit: overdue notification failed")
				continue
			}
		}
		flagged++
	}
	return flagged, nil
}

package repository

import (
	"context"
	"log/slog"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/billscan/billscan/constants"
	"github.com/billscan/billscan/internal/entity"
)

// InvoiceFilters narrows searches, reports, and exports. Zero values mean
// "no constraint"; dates compare lexically in the stored YYYY-MM-DD and
// DD-Mon-YYYY forms, matching how the documents carry them.
type InvoiceFilters struct {
	InvoiceNumber string // exact match
	DateFrom      string
	DateTo        string
	MinAmount     float64
	MaxAmount     float64
	Status        string
}

type InvoiceRepository interface {
	Upsert(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	Search(ctx context.Context, f InvoiceFilters) ([]entity.Invoice, error)
	Summary(ctx context.Context, f InvoiceFilters) (*entity.ReportSummary, error)
}

type invoiceRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewInvoiceRepository(db *gorm.DB, logger *slog.Logger) InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceRepository{db: db, logger: logger}
}

// Upsert writes the invoice keyed by its derived ID, so re-processing the
// same document overwrites rather than duplicates.
func (r *invoiceRepository) Upsert(ctx context.Context, inv *entity.Invoice) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(inv).Error
	if err != nil {
		r.logger.Error("failed to upsert invoice", "invoice_id", inv.ID, "error", err)
	}
	return err
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) Search(ctx context.Context, f InvoiceFilters) ([]entity.Invoice, error) {
	query := r.applyFilters(r.db.WithContext(ctx), f)

	var invoices []entity.Invoice
	if err := query.Order("created_at DESC").Find(&invoices).Error; err != nil {
		r.logger.Error("failed to search invoices", "error", err)
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) applyFilters(query *gorm.DB, f InvoiceFilters) *gorm.DB {
	if f.InvoiceNumber != "" {
		query = query.Where("invoice_number = ?", f.InvoiceNumber)
	}
	if f.DateFrom != "" {
		query = query.Where("date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		query = query.Where("date <= ?", f.DateTo)
	}
	if f.MinAmount > 0 {
		query = query.Where("total >= ?", f.MinAmount)
	}
	if f.MaxAmount > 0 {
		query = query.Where("total <= ?", f.MaxAmount)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	return query
}

// Summary computes the financial report over both stores. Only the date
// bounds of the filter apply, mirroring the report's query surface.
func (r *invoiceRepository) Summary(ctx context.Context, f InvoiceFilters) (*entity.ReportSummary, error) {
	dateOnly := InvoiceFilters{DateFrom: f.DateFrom, DateTo: f.DateTo}

	var agg struct {
		TotalInvoices   int64
		PendingInvoices int64
		PaidInvoices    int64
		TotalAmount     float64
		TotalSubtotal   float64
		TotalTax        float64
		TotalDiscount   float64
		MinAmount       float64
		MaxAmount       float64
		AvgAmount       float64
	}
	err := r.applyFilters(r.db.WithContext(ctx).Model(&entity.Invoice{}), dateOnly).
		Select(
			"COUNT(*) as total_invoices, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) as pending_invoices, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) as paid_invoices, "+
				"COALESCE(SUM(total), 0) as total_amount, "+
				"COALESCE(SUM(subtotal), 0) as total_subtotal, "+
				"COALESCE(SUM(tax), 0) as total_tax, "+
				"COALESCE(SUM(discount), 0) as total_discount, "+
				"COALESCE(MIN(total), 0) as min_amount, "+
				"COALESCE(MAX(total), 0) as max_amount, "+
				"COALESCE(AVG(total), 0) as avg_amount",
			constants.InvoiceStatusPending, constants.InvoiceStatusPaid).
		Scan(&agg).Error
	if err != nil {
		r.logger.Error("failed to aggregate invoices", "error", err)
		return nil, err
	}

	var invalid struct {
		TotalInvalid int64
		UniqueErrors int64
	}
	err = r.applyFilters(r.db.WithContext(ctx).Model(&entity.InvalidInvoice{}), dateOnly).
		Select("COUNT(*) as total_invalid, COUNT(DISTINCT error_message) as unique_errors").
		Scan(&invalid).Error
	if err != nil {
		r.logger.Error("failed to aggregate invalid invoices", "error", err)
		return nil, err
	}

	var commonErrors []entity.ErrorCount
	err = r.applyFilters(r.db.WithContext(ctx).Model(&entity.InvalidInvoice{}), dateOnly).
		Select("error_message, COUNT(*) as count").
		Group("error_message").
		Order("count DESC").
		Limit(5).
		Scan(&commonErrors).Error
	if err != nil {
		r.logger.Error("failed to rank error messages", "error", err)
		return nil, err
	}

	return &entity.ReportSummary{
		TotalInvoices:   agg.TotalInvoices,
		PendingInvoices: agg.PendingInvoices,
		PaidInvoices:    agg.PaidInvoices,
		TotalAmount:     roundCents(agg.TotalAmount),
		TotalSubtotal:   roundCents(agg.TotalSubtotal),
		TotalTax:        roundCents(agg.TotalTax),
		TotalDiscount:   roundCents(agg.TotalDiscount),
		MinAmount:       roundCents(agg.MinAmount),
		MaxAmount:       roundCents(agg.MaxAmount),
		AvgAmount:       roundCents(agg.AvgAmount),
		InvalidCount:    invalid.TotalInvalid,
		UniqueErrors:    invalid.UniqueErrors,
		CommonErrors:    commonErrors,
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

package repository

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/billscan/billscan/internal/entity"
)

type InvalidInvoiceRepository interface {
	Create(ctx context.Context, inv *entity.InvalidInvoice) error
	List(ctx context.Context) ([]entity.InvalidInvoice, error)
}

type invalidInvoiceRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewInvalidInvoiceRepository(db *gorm.DB, logger *slog.Logger) InvalidInvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &invalidInvoiceRepository{db: db, logger: logger}
}

func (r *invalidInvoiceRepository) Create(ctx context.Context, inv *entity.InvalidInvoice) error {
	err := r.db.WithContext(ctx).Create(inv).Error
	if err != nil {
		r.logger.Error("failed to record invalid invoice", "error", err)
	}
	return err
}

func (r *invalidInvoiceRepository) List(ctx context.Context) ([]entity.InvalidInvoice, error) {
	var rows []entity.InvalidInvoice
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		r.logger.Error("failed to list invalid invoices", "error", err)
		return nil, err
	}
	return rows, nil
}

package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/billscan/billscan/constants"
	"github.com/billscan/billscan/internal/entity"
)

type ClientRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.Client, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Client, error)
	Create(ctx context.Context, client *entity.Client) (*entity.Client, error)
}

type clientRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewClientRepository(db *gorm.DB, logger *slog.Logger) ClientRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &clientRepository{db: db, logger: logger}
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*entity.Client, error) {
	var c entity.Client
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to look up client by email", "error", err)
		return nil, err
	}
	return &c, nil
}

func (r *clientRepository) GetByPhone(ctx context.Context, phone string) (*entity.Client, error) {
	var c entity.Client
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to look up client by phone", "error", err)
		return nil, err
	}
	return &c, nil
}

// Create inserts a new client row. When the unique email index rejects the
// insert because a concurrent caller won the race, the existing row is
// fetched and returned instead.
func (r *clientRepository) Create(ctx context.Context, client *entity.Client) (*entity.Client, error) {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if client.Status == "" {
		client.Status = constants.ClientStatusActive
	}

	err := r.db.WithContext(ctx).Create(client).Error
	if err != nil && client.Email != nil {
		if existing, lookupErr := r.GetByEmail(ctx, *client.Email); lookupErr == nil && existing != nil {
			r.logger.Debug("client insert lost the race, reusing existing row",
				"client_id", existing.ID)
			return existing, nil
		}
	}
	if err != nil {
		r.logger.Error("failed to create client", "name", client.Name, "error", err)
		return nil, err
	}
	return client, nil
}

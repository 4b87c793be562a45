package service

import (
	"context"
	"strings"

	"github.com/rkjewellers/billing-api/internal/domain/entity"
	"github.com/rkjewellers/billing-api/internal/domain/repository"
	"go.uber.org/zap"
)

// SettingsService handles the shop profile and whole-store maintenance
type SettingsService struct {
	transactor   repository.Transactor
	shopRepo     repository.ShopRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	revenueRepo  repository.RevenueRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(
	transactor repository.Transactor,
	shopRepo repository.ShopRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	revenueRepo repository.RevenueRepository,
) *SettingsService {
	return &SettingsService{
		transactor:   transactor,
		shopRepo:     shopRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		revenueRepo:  revenueRepo,
	}
}

// GetShop returns the saved shop profile, or the built-in default when none
// has been saved. The default is not written to storage.
func (s *SettingsService) GetShop(ctx context.Context) (*entity.ShopConfig, error) {
	shop, err := s.shopRepo.Get(ctx, entity.ShopConfigID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return entity.DefaultShopConfig(), nil
	}
	return shop, nil
}

// UpdateShopInput represents the input for updating the shop profile
type UpdateShopInput struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Address string  `json:"address" validate:"max=1000"`
	Mobile  string  `json:"mobile" validate:"max=100"`
	GSTIN   *string `json:"gstin" validate:"omitempty,max=20"`
}

// UpdateShop replaces the shop profile
func (s *SettingsService) UpdateShop(ctx context.Context, input *UpdateShopInput) (*entity.ShopConfig, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.GSTIN = normalizeOptional(input.GSTIN)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	shop := &entity.ShopConfig{
		ID:      entity.ShopConfigID,
		Name:    input.Name,
		Address: strings.TrimSpace(input.Address),
		Mobile:  strings.TrimSpace(input.Mobile),
		GSTIN:   input.GSTIN,
	}
	if err := s.shopRepo.Put(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

// WipeAllData empties every store: invoices, customers, revenue and the
// shop profile. It is all or nothing.
func (s *SettingsService) WipeAllData(ctx context.Context, code string) error {
	if err := checkResetCode(code); err != nil {
		return err
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.invoiceRepo.Clear(ctx); err != nil {
			return err
		}
		if err := s.customerRepo.Clear(ctx); err != nil {
			return err
		}
		if err := s.revenueRepo.Clear(ctx); err != nil {
			return err
		}
		return s.shopRepo.Clear(ctx)
	})
	if err != nil {
		return err
	}

	zap.L().Warn("all data wiped")
	return nil
}

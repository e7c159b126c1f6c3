package store

import (
	"context"
	"errors"
	"strings"

	"github.com/keywordforge/core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) scoped(ctx context.Context, tenantID string) *gorm.DB {
	return s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
}

// List returns the tenant's connected stores, newest first.
func (s *Service) List(ctx context.Context, tenantID string) ([]models.StoreModel, error) {
	var items []models.StoreModel
	err := s.scoped(ctx, tenantID).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (s *Service) GetByID(ctx context.Context, tenantID, id string) (*models.StoreModel, error) {
	var store models.StoreModel
	err := s.scoped(ctx, tenantID).First(&store, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// Create connects a Shopify store. The shop subdomain is normalized so
// "mystore.myshopify.com" and "mystore" refer to the same store.
func (s *Service) Create(ctx context.Context, tenantID string, dto *CreateStoreDTO) (*models.StoreModel, error) {
	shopURL := normalizeShopURL(dto.ShopURL)

	var existing models.StoreModel
	err := s.scoped(ctx, tenantID).Where("shop_url = ?", shopURL).First(&existing).Error
	if err == nil {
		return nil, errDuplicateStore
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	store := models.StoreModel{
		TenantOwned: models.TenantOwned{TenantID: tenantID},
		StoreName:   dto.StoreName,
		ShopURL:     shopURL,
		AccessToken: dto.AccessToken,
		BlogHandle:  dto.BlogHandle,
		AutoPublish: dto.AutoPublish,
		IsActive:    true,
	}
	if store.BlogHandle == "" {
		store.BlogHandle = "news"
	}
	return &store, s.db.WithContext(ctx).Create(&store).Error
}

func (s *Service) Update(ctx context.Context, tenantID, id string, dto *UpdateStoreDTO) (*models.StoreModel, error) {
	store, err := s.GetByID(ctx, tenantID, id)
	if err != nil || store == nil {
		return store, err
	}

	updates := map[string]interface{}{}
	if dto.StoreName != nil {
		updates["store_name"] = *dto.StoreName
	}
	if dto.AccessToken != nil {
		updates["access_token"] = *dto.AccessToken
	}
	if dto.BlogHandle != nil {
		updates["blog_handle"] = *dto.BlogHandle
	}
	if dto.AutoPublish != nil {
		updates["auto_publish"] = *dto.AutoPublish
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if len(updates) == 0 {
		return store, nil
	}

	if err := s.db.WithContext(ctx).Model(store).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, tenantID, id)
}

func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	res := s.scoped(ctx, tenantID).Delete(&models.StoreModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var errDuplicateStore = errors.New("store is already connected")

func normalizeShopURL(raw string) string {
	shop := strings.TrimSpace(strings.ToLower(raw))
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	shop = strings.TrimSuffix(shop, "/")
	return strings.TrimSuffix(shop, ".myshopify.com")
}

package store

// CreateStoreDTO connects a Shopify store.
type CreateStoreDTO struct {
	StoreName   string `json:"store_name" binding:"required"`
	ShopURL     string `json:"shop_url" binding:"required"`
	AccessToken string `json:"access_token" binding:"required"`
	BlogHandle  string `json:"blog_handle"`
	AutoPublish bool   `json:"auto_publish"`
}

// UpdateStoreDTO applies partial updates to a connected store.
type UpdateStoreDTO struct {
	StoreName   *string `json:"store_name"`
	AccessToken *string `json:"access_token"`
	BlogHandle  *string `json:"blog_handle"`
	AutoPublish *bool   `json:"auto_publish"`
	IsActive    *bool   `json:"is_active"`
}

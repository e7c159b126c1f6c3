package models

// StoreModel is a connected Shopify store that generated posts can be
// published to. ShopURL is the shop subdomain, e.g. "mystore" for
// mystore.myshopify.com.
type StoreModel struct {
	Base
	TenantOwned
	StoreName   string `json:"store_name"   gorm:"not null"`
	ShopURL     string `json:"shop_url"     gorm:"not null"`
	AccessToken string `json:"-"            gorm:"not null"`
	BlogHandle  string `json:"blog_handle"  gorm:"default:news"`
	AutoPublish bool   `json:"auto_publish" gorm:"default:false"`
	IsActive    bool   `json:"is_active"    gorm:"default:true"`
}

func (StoreModel) TableName() string { return "shopify_stores" }

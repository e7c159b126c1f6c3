package models

// CampaignModel groups an uploaded keyword batch and its generation settings.
type CampaignModel struct {
	Base
	TenantOwned
	Name         string `json:"name"          gorm:"not null"`
	Description  string `json:"description"`
	TemplateType string `json:"template_type" gorm:"default:ecommerce_general"`
	MinWords     int    `json:"min_words"     gorm:"default:2000"`
	FAQCount     int    `json:"faq_count"     gorm:"default:15"`
	AutoGenerate bool   `json:"auto_generate" gorm:"default:false"`
}

func (CampaignModel) TableName() string { return "keyword_campaigns" }

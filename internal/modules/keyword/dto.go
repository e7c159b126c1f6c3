package keyword

// ParseDTO stages a raw blob of keywords for preview.
type ParseDTO struct {
	Raw          string `json:"raw" binding:"required"`
	Mode         string `json:"mode"` // "lines" (default) | "csv"
	CampaignName string `json:"campaign_name"`
	TemplateType string `json:"template_type"`
}

// UploadDTO uploads pre-built records directly, bypassing staging.
type UploadDTO struct {
	Records      []Record `json:"records" binding:"required"`
	CampaignName string   `json:"campaign_name"`
	TemplateType string   `json:"template_type"`
}

// GenerateDTO queues blog generation for a set of keywords. When IDs is
// empty the current selection is used.
type GenerateDTO struct {
	IDs          []string `json:"ids"`
	StoreID      string   `json:"store_id"`
	TemplateType string   `json:"template_type"`
	AutoPublish  bool     `json:"auto_publish"`
}

// RetryDTO carries the generation target for a retry.
type RetryDTO struct {
	StoreID      string `json:"store_id"`
	TemplateType string `json:"template_type"`
	AutoPublish  bool   `json:"auto_publish"`
}

// BulkDeleteDTO names the keywords to remove.
type BulkDeleteDTO struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// SelectAllDTO controls whether selection is restricted to eligible keywords.
type SelectAllDTO struct {
	EligibleOnly bool `json:"eligible_only"`
}

// CreateCampaignDTO creates a keyword campaign.
type CreateCampaignDTO struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	TemplateType string `json:"template_type"`
	AutoGenerate bool   `json:"auto_generate"`
}

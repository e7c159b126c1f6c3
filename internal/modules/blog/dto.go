package blog

// GenerateDTO queues blog generation for specific keywords.
type GenerateDTO struct {
	KeywordIDs   []string `json:"keyword_ids" binding:"required,min=1"`
	StoreID      string   `json:"store_id" binding:"required"`
	TemplateType string   `json:"template_type"`
	AutoPublish  bool     `json:"auto_publish"`
}

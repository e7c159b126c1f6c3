package models

import "time"

// KeywordStatus is the lifecycle state of a persisted keyword.
type KeywordStatus string

const (
	KeywordPending    KeywordStatus = "pending"
	KeywordProcessing KeywordStatus = "processing"
	KeywordCompleted  KeywordStatus = "completed"
	KeywordFailed     KeywordStatus = "failed"
)

// KeywordModel is a persisted keyword plus its SEO metadata.
//
// Lifecycle: pending → processing → completed | failed. A failed keyword can
// be reset back to pending. BlogGenerated is only ever set together with
// status completed.
type KeywordModel struct {
	Base
	TenantOwned
	CampaignID        *string        `json:"campaign_id"        gorm:"type:char(36);index"`
	Campaign          *CampaignModel `json:"campaign,omitempty" gorm:"foreignKey:CampaignID"`
	Keyword           string         `json:"keyword"            gorm:"not null;index"`
	SearchVolume      *int           `json:"search_volume"`
	KeywordDifficulty *float64       `json:"keyword_difficulty"`
	Category          string         `json:"category"           gorm:"default:General"`
	Status            KeywordStatus  `json:"status"             gorm:"type:varchar(16);default:pending;index"`
	BlogGenerated     bool           `json:"blog_generated"     gorm:"default:false"`
	ProcessedAt       *time.Time     `json:"processed_at"`
}

func (KeywordModel) TableName() string { return "keywords" }

// Eligible reports whether the keyword can be queued for blog generation.
func (k KeywordModel) Eligible() bool {
	return k.Status == KeywordPending && !k.BlogGenerated
}

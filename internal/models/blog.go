package models

import "time"

// BlogStatus is the publication state of a generated blog draft.
type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
	BlogFailed    BlogStatus = "failed"
)

// GeneratedBlogModel is a blog post drafted for a keyword.
type GeneratedBlogModel struct {
	Base
	TenantOwned
	KeywordID        string        `json:"keyword_id"       gorm:"type:char(36);index;not null"`
	Keyword          *KeywordModel `json:"keyword,omitempty" gorm:"foreignKey:KeywordID"`
	StoreID          string        `json:"store_id"         gorm:"type:char(36);index"`
	Title            string        `json:"title"            gorm:"not null"`
	Content          string        `json:"content"          gorm:"type:longtext"`
	MetaDescription  string        `json:"meta_description"`
	WordCount        int           `json:"word_count"`
	Status           BlogStatus    `json:"status"           gorm:"type:varchar(16);default:draft;index"`
	ShopifyArticleID string        `json:"shopify_article_id"`
	LiveURL          string        `json:"live_url"`
	ErrorMessage     string        `json:"error_message"`
	PublishedAt      *time.Time    `json:"published_at"`
}

func (GeneratedBlogModel) TableName() string { return "generated_blogs" }

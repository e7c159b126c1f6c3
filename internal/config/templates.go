package config

// BlogTemplate describes the structure of a generated post.
type BlogTemplate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Sections    []string `json:"sections"`
	MinWords    int      `json:"min_words"`
	FAQCount    int      `json:"faq_count"`
}

// DefaultTemplateType is used when an upload or generation request does not
// name a template.
const DefaultTemplateType = "ecommerce_general"

// BlogTemplates is the built-in template catalog.
var BlogTemplates = map[string]BlogTemplate{
	"cbd_wellness": {
		Name:        "CBD & Wellness",
		Description: "Optimized for CBD and wellness products",
		Sections: []string{
			"Introduction",
			"Benefits & Science",
			"Usage Guidelines",
			"Safety Information",
			"Product Recommendations",
			"Comprehensive FAQ",
			"Conclusion",
		},
		MinWords: 2500,
		FAQCount: 18,
	},
	"ecommerce_general": {
		Name:        "E-commerce General",
		Description: "General product-focused content",
		Sections: []string{
			"Product Overview",
			"Key Features",
			"Benefits",
			"How to Choose",
			"Product Comparisons",
			"FAQ Section",
			"Conclusion",
		},
		MinWords: 2000,
		FAQCount: 15,
	},
	"service_business": {
		Name:        "Service Business",
		Description: "Service-oriented content",
		Sections: []string{
			"Service Overview",
			"Why Choose Us",
			"Process & Methodology",
			"Case Studies",
			"Pricing Guide",
			"FAQ Section",
			"Get Started",
		},
		MinWords: 1800,
		FAQCount: 12,
	},
}

// IsValidTemplateType reports whether the template type exists in the catalog.
func IsValidTemplateType(t string) bool {
	_, ok := BlogTemplates[t]
	return ok
}

// TemplateOr returns the named template, falling back to the default.
func TemplateOr(t string) BlogTemplate {
	if tpl, ok := BlogTemplates[t]; ok {
		return tpl
	}
	return BlogTemplates[DefaultTemplateType]
}

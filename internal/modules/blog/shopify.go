package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"github.com/keywordforge/core/internal/models"
)

// Publisher pushes a rendered article to a store's blog.
type Publisher interface {
	Publish(ctx context.Context, store *models.StoreModel, article *Article) (*PublishResult, error)
}

// Article is the payload sent to the store.
type Article struct {
	Title           string
	BodyHTML        string
	MetaDescription string
	Published       bool
}

// PublishResult identifies the created article.
type PublishResult struct {
	ArticleID string
	LiveURL   string
}

// shopifyPublisher talks to the Shopify Admin REST API.
type shopifyPublisher struct {
	client     *resty.Client
	apiVersion string
}

func NewShopifyPublisher(apiVersion string) Publisher {
	return &shopifyPublisher{
		client:     resty.New().SetTimeout(30 * time.Second),
		apiVersion: apiVersion,
	}
}

func (p *shopifyPublisher) baseURL(store *models.StoreModel) string {
	shop := strings.TrimSpace(store.ShopURL)
	shop = strings.TrimSuffix(shop, ".myshopify.com")
	return fmt.Sprintf("https://%s.myshopify.com/admin/api/%s", shop, p.apiVersion)
}

func (p *shopifyPublisher) storefrontURL(store *models.StoreModel) string {
	shop := strings.TrimSuffix(strings.TrimSpace(store.ShopURL), ".myshopify.com")
	return fmt.Sprintf("https://%s.myshopify.com", shop)
}

type shopifyBlog struct {
	ID     int64  `json:"id"`
	Handle string `json:"handle"`
	Title  string `json:"title"`
}

// Publish looks up the target blog by handle (falling back to the store's
// first blog) and creates the article. Transient failures are retried with
// backoff; 4xx responses are not.
func (p *shopifyPublisher) Publish(ctx context.Context, store *models.StoreModel, article *Article) (*PublishResult, error) {
	blogID, blogHandle, err := p.findBlog(ctx, store)
	if err != nil {
		return nil, err
	}

	var created struct {
		Article struct {
			ID     int64  `json:"id"`
			Handle string `json:"handle"`
		} `json:"article"`
	}

	payload := map[string]interface{}{
		"article": map[string]interface{}{
			"title":          article.Title,
			"body_html":      article.BodyHTML,
			"summary_html":   article.MetaDescription,
			"published":      article.Published,
			"metafields": []map[string]interface{}{
				{
					"key":       "description_tag",
					"namespace": "global",
					"value":     article.MetaDescription,
					"type":      "single_line_text_field",
				},
			},
		},
	}

	err = retry.Do(
		func() error {
			resp, reqErr := p.client.R().
				SetContext(ctx).
				SetHeader("X-Shopify-Access-Token", store.AccessToken).
				SetBody(payload).
				SetResult(&created).
				Post(fmt.Sprintf("%s/blogs/%d/articles.json", p.baseURL(store), blogID))
			if reqErr != nil {
				return reqErr
			}
			if resp.IsError() {
				apiErr := fmt.Errorf("shopify article create failed: %s: %s", resp.Status(), resp.String())
				if resp.StatusCode() >= 400 && resp.StatusCode() < 500 && resp.StatusCode() != 429 {
					return retry.Unrecoverable(apiErr)
				}
				return apiErr
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
	)
	if err != nil {
		return nil, err
	}
	if created.Article.ID == 0 {
		return nil, errors.New("shopify returned no article id")
	}

	return &PublishResult{
		ArticleID: fmt.Sprintf("%d", created.Article.ID),
		LiveURL:   fmt.Sprintf("%s/blogs/%s/%s", p.storefrontURL(store), blogHandle, created.Article.Handle),
	}, nil
}

// findBlog resolves the blog matching the store's configured handle, or the
// first blog when no handle matches.
func (p *shopifyPublisher) findBlog(ctx context.Context, store *models.StoreModel) (int64, string, error) {
	var listing struct {
		Blogs []shopifyBlog `json:"blogs"`
	}

	err := retry.Do(
		func() error {
			resp, reqErr := p.client.R().
				SetContext(ctx).
				SetHeader("X-Shopify-Access-Token", store.AccessToken).
				SetResult(&listing).
				Get(p.baseURL(store) + "/blogs.json")
			if reqErr != nil {
				return reqErr
			}
			if resp.IsError() {
				apiErr := fmt.Errorf("shopify blog lookup failed: %s", resp.Status())
				if resp.StatusCode() >= 400 && resp.StatusCode() < 500 && resp.StatusCode() != 429 {
					return retry.Unrecoverable(apiErr)
				}
				return apiErr
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
	)
	if err != nil {
		return 0, "", err
	}
	if len(listing.Blogs) == 0 {
		return 0, "", errors.New("store has no blogs")
	}

	for _, b := range listing.Blogs {
		if b.Handle == store.BlogHandle {
			return b.ID, b.Handle, nil
		}
	}
	first := listing.Blogs[0]
	return first.ID, first.Handle, nil
}

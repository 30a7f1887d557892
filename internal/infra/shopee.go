package infra

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ShopeeOffer is one affiliate product offer from productOfferV2.
type ShopeeOffer struct {
	ProductName    string `json:"productName"`
	ItemID         int64  `json:"itemId"`
	Price          string `json:"price"`
	ImageURL       string `json:"imageUrl"`
	ShopName       string `json:"shopName"`
	ProductLink    string `json:"productLink"`
	OfferLink      string `json:"offerLink"`
	Commission     string `json:"commission"`
	CommissionRate string `json:"commissionRate"`
}

// ShopeeClient talks to the Shopee affiliate GraphQL API. Requests are signed
// with sha256(appID + timestamp + payload + secret) over the compact JSON
// payload. A client without credentials degrades to empty results instead of
// failing, so affiliate enrichment is always best-effort.
type ShopeeClient struct {
	appID      string
	secret     string
	apiURL     string
	httpClient *http.Client
	// now is replaceable in tests to pin the signature timestamp
	now func() time.Time
}

func NewShopeeClient(appID, secret, apiURL string) *ShopeeClient {
	return &ShopeeClient{
		appID:      appID,
		secret:     secret,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

// Enabled reports whether affiliate credentials are configured.
func (c *ShopeeClient) Enabled() bool { return c.appID != "" && c.secret != "" }

const productOfferQuery = `query Fetch($keyword: String, $page: Int, $limit: Int) {
    productOfferV2(keyword: $keyword, page: $page, limit: $limit) {
        nodes {
            productName
            itemId
            commissionRate
            commission
            price
            imageUrl
            shopName
            productLink
            offerLink
        }
        pageInfo {
            page
            limit
            hasNextPage
        }
    }
}`

type shopeeGraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type shopeeGraphQLResponse struct {
	Data struct {
		ProductOfferV2 struct {
			Nodes []ShopeeOffer `json:"nodes"`
		} `json:"productOfferV2"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// SearchProducts queries productOfferV2 for the keyword. Missing credentials
// or upstream errors yield an empty slice, never a hard failure.
func (c *ShopeeClient) SearchProducts(ctx context.Context, keyword string, page, limit int) ([]ShopeeOffer, error) {
	if !c.Enabled() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	payload, err := json.Marshal(shopeeGraphQLRequest{
		Query:         productOfferQuery,
		OperationName: "Fetch",
		Variables: map[string]interface{}{
			"keyword": keyword,
			"page":    page,
			"limit":   limit,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("shopee: marshal payload: %w", err)
	}

	timestamp := c.now().Unix()
	signature := c.Sign(payload, timestamp)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("shopee: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization",
		fmt.Sprintf("SHA256 Credential=%s,Timestamp=%d,Signature=%s", c.appID, timestamp, signature))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopee: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopee: status %d", resp.StatusCode)
	}

	var result shopeeGraphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("shopee: decode response: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("shopee: %s", result.Errors[0].Message)
	}
	return result.Data.ProductOfferV2.Nodes, nil
}

// Sign computes the hex sha256 of appID + timestamp + payload + secret.
func (c *ShopeeClient) Sign(payload []byte, timestamp int64) string {
	base := c.appID + strconv.FormatInt(timestamp, 10) + string(payload) + c.secret
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}

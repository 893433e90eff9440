package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const createResponse = `{
  "data": {
    "productCreate": {
      "product": {
        "id": "gid://shopify/Product/1001",
        "title": "Red Snowboard",
        "handle": "red-snowboard",
        "status": "ACTIVE",
        "variants": {"edges": [{"node": {"id": "gid://shopify/ProductVariant/2002", "price": "0.00", "barcode": null, "createdAt": "2024-10-01T00:00:00Z"}}]}
      },
      "userErrors": []
    }
  }
}`

const updateResponse = `{
  "data": {
    "productVariantsBulkUpdate": {
      "productVariants": [{"id": "gid://shopify/ProductVariant/2002", "price": "100.00", "barcode": null, "createdAt": "2024-10-01T00:00:00Z"}],
      "userErrors": []
    }
  }
}`

type recordedRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{ShopDomain: "test.myshopify.com", AccessToken: "shpat_test"}, zaptest.NewLogger(t))
	client.endpoint = server.URL
	return client
}

func TestNewClient_Endpoint(t *testing.T) {
	c := NewClient(Config{ShopDomain: "https://demo.myshopify.com/", APIVersion: "2025-01"}, nil)
	assert.Equal(t, "https://demo.myshopify.com/admin/api/2025-01/graphql.json", c.Endpoint())

	c = NewClient(Config{ShopDomain: "demo.myshopify.com"}, nil)
	assert.Equal(t, "https://demo.myshopify.com/admin/api/"+DefaultAPIVersion+"/graphql.json", c.Endpoint())
}

func TestCreateSampleProduct(t *testing.T) {
	var requests []recordedRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req recordedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(req.Query, "productCreate") {
			w.Write([]byte(createResponse))
			return
		}
		w.Write([]byte(updateResponse))
	})

	result, err := client.CreateSampleProduct(context.Background(), "Red Snowboard", "100.00")
	require.NoError(t, err)

	require.Len(t, requests, 2)
	assert.Equal(t, map[string]interface{}{"title": "Red Snowboard"}, requests[0].Variables["input"])
	assert.Equal(t, "gid://shopify/Product/1001", requests[1].Variables["productId"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"id": "gid://shopify/ProductVariant/2002", "price": "100.00"},
	}, requests[1].Variables["variants"])

	assert.Equal(t, "gid://shopify/Product/1001", result.Product.ID)
	assert.Equal(t, "red-snowboard", result.Product.Handle)
	assert.Equal(t, "ACTIVE", result.Product.Status)
	require.Len(t, result.Product.Variants, 1)
	require.Len(t, result.Variant, 1)
	assert.Equal(t, "100.00", result.Variant[0].Price)
	assert.Equal(t, "1001", NumericID(result.Product.ID))

	// The result serializes with the {product, variant} shape.
	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"product":{"id":"gid://shopify/Product/1001"`)
	assert.Contains(t, string(out), `"variant":[{"id":"gid://shopify/ProductVariant/2002"`)
}

func TestCreateProduct_ReturnsIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(createResponse))
	})

	created, err := client.CreateProduct(context.Background(), "Red Snowboard")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Product/1001", created.ProductID)
	assert.Equal(t, "gid://shopify/ProductVariant/2002", created.VariantID)
}

func TestCreateProduct_RemoteFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{"http error", http.StatusUnauthorized, `{"errors":"[API] Invalid API key"}`, "HTTP 401"},
		{"graphql errors", http.StatusOK, `{"errors":[{"message":"Throttled"}]}`, "Throttled"},
		{"user errors", http.StatusOK, `{"data":{"productCreate":{"product":null,"userErrors":[{"field":["title"],"message":"can't be blank"}]}}}`, "title: can't be blank"},
		{"null data", http.StatusOK, `{"data":null}`, "no data"},
		{"missing product", http.StatusOK, `{"data":{"productCreate":{"product":null,"userErrors":[]}}}`, "no product returned"},
		{"garbage", http.StatusOK, `not json`, "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.CreateProduct(context.Background(), "Red Snowboard")
			var remoteErr *RemoteError
			require.True(t, errors.As(err, &remoteErr), "expected RemoteError, got %v", err)
			assert.Equal(t, "productCreate", remoteErr.Op)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestCreateProduct_NoVariants(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"productCreate":{"product":{"id":"gid://shopify/Product/1","variants":{"edges":[]}},"userErrors":[]}}}`))
	})

	_, err := client.CreateProduct(context.Background(), "Green Snowboard")
	assert.ErrorIs(t, err, ErrNoVariant)

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, "productCreate", remoteErr.Op)
	assert.Contains(t, err.Error(), "gid://shopify/Product/1")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("  short \n", 10))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))

	// Each kana is three bytes; cutting at 4 must back up to the rune start.
	got := truncate("エラーです", 4)
	assert.Equal(t, "エ...", got)
	assert.True(t, utf8.ValidString(got))

	body := strings.Repeat("認証に失敗しました", 30)
	assert.True(t, utf8.ValidString(truncate(body, 200)))
}

func TestCreateProduct_JapaneseErrorBodyStaysValidUTF8(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(strings.Repeat("アクセスが拒否されました", 20)))
	})

	_, err := client.CreateProduct(context.Background(), "Red Snowboard")
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestCreateProduct_EmptyTitle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := client.CreateProduct(context.Background(), "  ")
	assert.Error(t, err)
}

func TestCreateProduct_TransportError(t *testing.T) {
	client := NewClient(Config{ShopDomain: "unused", Timeout: time.Second}, nil)
	client.endpoint = "http://127.0.0.1:1/graphql.json"

	_, err := client.CreateProduct(context.Background(), "Red Snowboard")
	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Zero(t, remoteErr.StatusCode)
	assert.NotNil(t, remoteErr.Unwrap())
}

func TestCreateProduct_ContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(createResponse))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CreateProduct(ctx, "Red Snowboard")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetVariantPrice_ValidatesPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	for _, price := range []string{"", "abc", "10.001", "-5", "1,00"} {
		_, err := client.SetVariantPrice(context.Background(), "p", "v", price)
		assert.ErrorIs(t, err, ErrInvalidPrice, price)
	}
}

func TestSetVariantPrice_UserErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"productVariantsBulkUpdate":{"productVariants":[],"userErrors":[{"field":["variants","0","price"],"message":"is invalid"}]}}}`))
	})

	_, err := client.SetVariantPrice(context.Background(), "p", "v", "100.00")
	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, "productVariantsBulkUpdate", remoteErr.Op)
	assert.Equal(t, []string{"variants.0.price: is invalid"}, remoteErr.Messages)
}

func TestSampleTitle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		title := SampleTitle(rng, SampleColors, "Snowboard")
		assert.True(t, strings.HasSuffix(title, " Snowboard"), title)
		seen[strings.TrimSuffix(title, " Snowboard")] = true
	}
	assert.Len(t, seen, len(SampleColors))

	assert.Equal(t, "Blue", RandomColor(nil, []string{"Blue"}))
	assert.Contains(t, SampleColors, RandomColor(nil, nil))
}

func TestNumericID(t *testing.T) {
	assert.Equal(t, "42", NumericID("gid://shopify/Product/42"))
	assert.Equal(t, "gid://shopify/ProductVariant/1", NumericID("gid://shopify/ProductVariant/1"))
}

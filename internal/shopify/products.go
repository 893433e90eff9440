package shopify

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const productGIDPrefix = "gid://shopify/Product/"

// SampleColors are the colors a sample product title is drawn from.
var SampleColors = []string{"Red", "Orange", "Yellow", "Green"}

// Variant is a product variant as returned by the Admin API.
type Variant struct {
	ID        string `json:"id"`
	Price     string `json:"price"`
	Barcode   string `json:"barcode"`
	CreatedAt string `json:"createdAt"`
}

// Product is the subset of product fields the app reads back.
type Product struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Handle   string    `json:"handle"`
	Status   string    `json:"status"`
	Variants []Variant `json:"variants"`
}

// CreatedProduct identifies a newly created product and its first variant.
type CreatedProduct struct {
	ProductID string
	VariantID string
	Product   Product
}

// Result is the outcome of the create-then-price sequence.
type Result struct {
	Product Product   `json:"product"`
	Variant []Variant `json:"variant"`
}

const productCreateMutation = `mutation populateProduct($input: ProductInput!) {
  productCreate(input: $input) {
    product {
      id
      title
      handle
      status
      variants(first: 10) {
        edges {
          node {
            id
            price
            barcode
            createdAt
          }
        }
      }
    }
    userErrors {
      field
      message
    }
  }
}`

const variantsBulkUpdateMutation = `mutation updateVariantPrice($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkUpdate(productId: $productId, variants: $variants) {
    productVariants {
      id
      price
      barcode
      createdAt
    }
    userErrors {
      field
      message
    }
  }
}`

type productNode struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	Status   string `json:"status"`
	Variants struct {
		Edges []struct {
			Node Variant `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

func (n productNode) toProduct() Product {
	p := Product{ID: n.ID, Title: n.Title, Handle: n.Handle, Status: n.Status}
	for _, e := range n.Variants.Edges {
		p.Variants = append(p.Variants, e.Node)
	}
	return p
}

// CreateProduct creates a product with the given title and returns the ids of
// the product and its first variant.
func (c *Client) CreateProduct(ctx context.Context, title string) (*CreatedProduct, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("shopify: productCreate: title is required")
	}

	var data struct {
		ProductCreate struct {
			Product    *productNode `json:"product"`
			UserErrors []userError  `json:"userErrors"`
		} `json:"productCreate"`
	}
	vars := map[string]interface{}{
		"input": map[string]interface{}{"title": title},
	}
	if err := c.do(ctx, "productCreate", productCreateMutation, vars, &data); err != nil {
		return nil, err
	}
	if err := userErrorsToRemote("productCreate", data.ProductCreate.UserErrors); err != nil {
		return nil, err
	}
	if data.ProductCreate.Product == nil {
		return nil, &RemoteError{Op: "productCreate", Messages: []string{"no product returned"}}
	}

	product := data.ProductCreate.Product.toProduct()
	if len(product.Variants) == 0 {
		return nil, &RemoteError{
			Op:       "productCreate",
			Messages: []string{fmt.Sprintf("product %s was created without a variant to price", product.ID)},
			Err:      ErrNoVariant,
		}
	}

	c.logger.Info("product created", zap.String("product", product.ID), zap.String("title", product.Title))
	return &CreatedProduct{
		ProductID: product.ID,
		VariantID: product.Variants[0].ID,
		Product:   product,
	}, nil
}

var pricePattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// SetVariantPrice sets one variant's price and returns the updated variants.
func (c *Client) SetVariantPrice(ctx context.Context, productID, variantID, price string) ([]Variant, error) {
	if !pricePattern.MatchString(price) {
		return nil, fmt.Errorf("shopify: productVariantsBulkUpdate: %w: %q", ErrInvalidPrice, price)
	}

	var data struct {
		ProductVariantsBulkUpdate struct {
			ProductVariants []Variant   `json:"productVariants"`
			UserErrors      []userError `json:"userErrors"`
		} `json:"productVariantsBulkUpdate"`
	}
	vars := map[string]interface{}{
		"productId": productID,
		"variants": []map[string]interface{}{
			{"id": variantID, "price": price},
		},
	}
	if err := c.do(ctx, "productVariantsBulkUpdate", variantsBulkUpdateMutation, vars, &data); err != nil {
		return nil, err
	}
	if err := userErrorsToRemote("productVariantsBulkUpdate", data.ProductVariantsBulkUpdate.UserErrors); err != nil {
		return nil, err
	}

	c.logger.Info("variant priced", zap.String("variant", variantID), zap.String("price", price))
	return data.ProductVariantsBulkUpdate.ProductVariants, nil
}

// CreateSampleProduct creates a product titled title and prices its first
// variant.
func (c *Client) CreateSampleProduct(ctx context.Context, title, price string) (*Result, error) {
	created, err := c.CreateProduct(ctx, title)
	if err != nil {
		return nil, err
	}
	variants, err := c.SetVariantPrice(ctx, created.ProductID, created.VariantID, price)
	if err != nil {
		return nil, err
	}
	return &Result{Product: created.Product, Variant: variants}, nil
}

// SampleTitle builds a "<Color> <noun>" title from a randomly drawn color.
func SampleTitle(rng *rand.Rand, colors []string, noun string) string {
	return RandomColor(rng, colors) + " " + noun
}

// RandomColor picks one of colors, falling back to SampleColors when empty.
func RandomColor(rng *rand.Rand, colors []string) string {
	if len(colors) == 0 {
		colors = SampleColors
	}
	if rng == nil {
		return colors[rand.Intn(len(colors))]
	}
	return colors[rng.Intn(len(colors))]
}

// NumericID strips the product gid prefix, e.g. "gid://shopify/Product/42" -> "42".
func NumericID(gid string) string {
	return strings.TrimPrefix(gid, productGIDPrefix)
}

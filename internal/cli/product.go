package cli

import (
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"outline-fit/internal/shopify"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrShopNotConfigured is returned when shop.domain or the access token is
// missing.
var ErrShopNotConfigured = errors.New("shop not configured: set shop.domain and shop.access_token or SHOPIFY_SHOP and SHOPIFY_ACCESS_TOKEN")

func newCreateProductCommand(rt *runtime) *cobra.Command {
	var title, price string
	cmd := &cobra.Command{
		Use:   "create-product",
		Short: "Create a sample product and set its variant price",
		Long: `Creates a product through the Admin GraphQL API and then prices its first
variant. Without --title the product is named "<Color> <noun>" with a random
color from sample_product.colors. The created product and variant are
printed as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rt.cfg.ShopConfigured() {
				return ErrShopNotConfigured
			}
			sp := rt.cfg.SampleProduct
			if title == "" {
				rng := rand.New(rand.NewSource(time.Now().UnixNano()))
				title = shopify.SampleTitle(rng, sp.Colors, sp.Noun)
			}
			if price == "" {
				price = sp.Price
			}

			client := shopify.NewClient(rt.cfg.ShopifyConfig(), rt.logger)
			result, err := client.CreateSampleProduct(cmd.Context(), title, price)
			if err != nil {
				return err
			}
			rt.logger.Info("product created",
				zap.String("id", result.Product.ID),
				zap.String("title", result.Product.Title))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "product title (default: random sample title)")
	cmd.Flags().StringVar(&price, "price", "", "variant price such as 100.00 (default: sample_product.price)")
	return cmd
}

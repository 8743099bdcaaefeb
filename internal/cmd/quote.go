package cmd

import (
	"fmt"
	"io"
	"os"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/pricing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	quoteFile     string
	quoteShipping string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a cart from a JSON file",
	Long: `Read a cart (items and optional promotion, in the same shape the cart API
returns) and print its subtotal, discount, shipping and total.

Use "-" as the file to read from stdin.`,
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVarP(&quoteFile, "file", "f", "", "Cart JSON file")
	quoteCmd.Flags().StringVar(&quoteShipping, "shipping", "", "Shipping base cost (defaults to SHIPPING_BASE_COST)")
	_ = quoteCmd.MarkFlagRequired("file")
}

func runQuote(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if quoteFile != "-" {
		f, err := os.Open(quoteFile)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	shipping := cfg.ShippingBaseCost
	if quoteShipping != "" {
		d, err := decimal.NewFromString(quoteShipping)
		if err != nil {
			return fmt.Errorf("invalid --shipping: %w", err)
		}
		shipping = d
	}

	totals, err := quote(r, shipping)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(totals.Display())
}

func quote(r io.Reader, shipping decimal.Decimal) (pricing.Totals, error) {
	var c domain.Cart
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return pricing.Totals{}, fmt.Errorf("invalid cart: %w", err)
	}
	for i, line := range c.Items {
		if line.Quantity < 1 {
			return pricing.Totals{}, fmt.Errorf("line %d: %w", i+1, domain.ErrInvalidQuantity)
		}
	}
	return pricing.ComputeTotals(c, shipping), nil
}

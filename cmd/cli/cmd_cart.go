package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"storefront-service/internal/models"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and change the cart",
	Long: `Shows the cart with its totals. Subcommands change it:

  add <product-id>         add one unit
  set <product-id> <qty>   set the quantity (0 removes the line)
  remove <product-id>      remove the line
  coupon [code]            store a coupon (no code clears it)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderCart(app.out, app.storefront.Cart(cmd.Context(), localSession, nil))
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add one unit of a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := app.storefront.AddToCart(cmd.Context(), localSession, args[0])
		if err != nil {
			return err
		}
		renderCart(app.out, summary)
		return nil
	},
}

var cartSetCmd = &cobra.Command{
	Use:   "set <product-id> <qty>",
	Short: "Set the quantity of a line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity must be a whole number, got %q", args[1])
		}
		summary, err := app.storefront.SetCartQuantity(cmd.Context(), localSession, args[0], qty)
		if err != nil {
			return err
		}
		renderCart(app.out, summary)
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		renderCart(app.out, app.storefront.RemoveFromCart(cmd.Context(), localSession, args[0]))
		return nil
	},
}

var cartCouponCmd = &cobra.Command{
	Use:   "coupon [code]",
	Short: "Store the coupon used for totals and checkout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := ""
		if len(args) == 1 {
			code = args[0]
		}
		renderCart(app.out, app.storefront.SetCoupon(cmd.Context(), localSession, code))
		return nil
	},
}

var totalsCoupon string

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Price the cart, optionally previewing a coupon",
	RunE: func(cmd *cobra.Command, args []string) error {
		var coupon *string
		if cmd.Flags().Changed("coupon") {
			coupon = &totalsCoupon
		}
		summary := app.storefront.Cart(cmd.Context(), localSession, coupon)
		renderTotals(app.out, summary.Totals, summary.Coupon)
		return nil
	},
}

var checkoutReq models.CheckoutRequest

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Submit the cart as an order",
	Long: `Submits the cart as an order. The cart is cleared only once the backend
accepts the order.

Example:
  storefront checkout --name "Siti" --email siti@mail.test --address "Jl. Merdeka 1" --coupon HEMAT10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := checkoutReq
		if !cmd.Flags().Changed("coupon") {
			req.Coupon = app.storefront.Cart(cmd.Context(), localSession, nil).Coupon
		}

		result, err := app.checkout.Checkout(cmd.Context(), localSession, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(app.out, okStyle.Render(result.Message))
		renderTotals(app.out, result.Totals, req.Coupon)
		return nil
	},
}

func init() {
	cartCmd.AddCommand(cartAddCmd, cartSetCmd, cartRemoveCmd, cartCouponCmd)

	totalsCmd.Flags().StringVar(&totalsCoupon, "coupon", "", "coupon code to preview")

	f := checkoutCmd.Flags()
	f.StringVar(&checkoutReq.Name, "name", "", "buyer name")
	f.StringVar(&checkoutReq.Email, "email", "", "buyer email")
	f.StringVar(&checkoutReq.Address, "address", "", "delivery address")
	f.StringVar(&checkoutReq.Coupon, "coupon", "", "coupon code (default: the stored coupon)")
}

package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"ordering/app/ordering"
)

func orderCmd(s *session) *cobra.Command {
	c := &cobra.Command{
		Use:   "order",
		Short: "Create and manage orders",
	}

	c.AddCommand(orderCreateCmd(s))
	c.AddCommand(orderGetCmd(s))
	c.AddCommand(orderUpdateTotalCmd(s))
	c.AddCommand(orderDeleteCmd(s))
	return c
}

func orderCreateCmd(s *session) *cobra.Command {
	var customerID, total string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := s.appFor(cmd)
			if err != nil {
				return err
			}
			in := ordering.CreateOrderInput{CustomerID: optional(customerID), Total: amount(total)}
			return writeResult(cmd, app.Service.CreateOrder(cmd.Context(), in))
		},
	}

	cmd.Flags().StringVar(&customerID, "customer-id", "", "Customer UUID")
	cmd.Flags().StringVar(&total, "total", "", "Order total, at most two decimals")
	return cmd
}

func orderGetCmd(s *session) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show an order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := s.appFor(cmd)
			if err != nil {
				return err
			}
			return writeResult(cmd, app.Service.GetOrder(cmd.Context(), id))
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Order UUID")
	return cmd
}

func orderUpdateTotalCmd(s *session) *cobra.Command {
	var id, total string

	cmd := &cobra.Command{
		Use:   "update-total",
		Short: "Change the total of an order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := s.appFor(cmd)
			if err != nil {
				return err
			}
			in := ordering.UpdateOrderTotalInput{ID: id, Total: amount(total)}
			return writeResult(cmd, app.Service.UpdateOrderTotal(cmd.Context(), in))
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Order UUID")
	cmd.Flags().StringVar(&total, "total", "", "New total, at most two decimals")
	return cmd
}

func orderDeleteCmd(s *session) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Soft delete an order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := s.appFor(cmd)
			if err != nil {
				return err
			}
			return writeResult(cmd, app.Service.DeleteOrder(cmd.Context(), id))
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Order UUID")
	return cmd
}

// optional 空字符串视为未提供
func optional(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// amount 能解析为数字时按数字传入，否则保留原文交由金额校验
func amount(v string) any {
	if v == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

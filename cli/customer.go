package cli

import (
	"github.com/spf13/cobra"

	"ordering/app/ordering"
)

func customerCmd(s *session) *cobra.Command {
	c := &cobra.Command{
		Use:   "customer",
		Short: "Create and manage customers",
	}

	c.AddCommand(customerCreateCmd(s))
	c.AddCommand(customerGetCmd(s))
	c.AddCommand(customerUpdateCmd(s))
	return c
}

func customerCreateCmd(s *session) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a customer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := s.appFor(cmd)
			if err != nil {
				return err
			}
			in := ordering.CreateCustomerInput{Name: optional(name), Email: optional(email)}
			return writeResult(cmd, app.Service.CreateCustomer(cmd.Context(), in))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Customer name, at least 3 characters")
	cmd.Flags().StringVar(&email, "email", "", "Customer email")
	return cmd
}

func customerGetCmd(s *session) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a customer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := s.appFor(cmd)
			if err != nil {
				return err
			}
			return writeResult(cmd, app.Service.GetCustomer(cmd.Context(), id))
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Customer UUID")
	return cmd
}

func customerUpdateCmd(s *session) *cobra.Command {
	var id, name, email string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change the name or email of a customer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := s.appFor(cmd)
			if err != nil {
				return err
			}
			in := ordering.UpdateCustomerInput{ID: id}
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("email") {
				in.Email = &email
			}
			return writeResult(cmd, app.Service.UpdateCustomer(cmd.Context(), in))
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Customer UUID")
	cmd.Flags().StringVar(&name, "name", "", "New name (only applied when set)")
	cmd.Flags().StringVar(&email, "email", "", "New email (only applied when set)")
	return cmd
}

package main

import (
	"fmt"
	"strconv"

	"github.com/ashureev/nextgen-minds/internal/state"
	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the cart",
}

var cartAddCmd = &cobra.Command{
	Use:   "add ID...",
	Short: "Add one unit of each item",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			cli.store.Dispatch(state.AddItem{ID: id})
		}
		return listCart(cmd)
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli.store.Dispatch(state.RemoveItem{ID: args[0]})
		return listCart(cmd)
	},
}

var cartSetCmd = &cobra.Command{
	Use:   "set ID QUANTITY",
	Short: "Set the quantity of an item already in the cart (0 removes it)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := strconv.Atoi(args[1])
		if err != nil || qty < 0 {
			return fmt.Errorf("quantity must be a non-negative integer, got %q", args[1])
		}
		cli.store.Dispatch(state.SetQuantity{ID: args[0], Quantity: qty})
		return listCart(cmd)
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli.store.Dispatch(state.ClearCollection{})
		return listCart(cmd)
	},
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the cart",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listCart(cmd)
	},
}

func listCart(cmd *cobra.Command) error {
	s := cli.store.State()
	out := cmd.OutOrStdout()
	if len(s.Cart) == 0 {
		fmt.Fprintln(out, "Cart is empty.")
		return nil
	}
	for _, item := range s.Cart {
		fmt.Fprintf(out, "%-20s x%d\n", item.ID, item.Quantity)
	}
	fmt.Fprintf(out, "%d item(s)\n", s.CartCount())
	return nil
}

// searchCmd sets the in-memory search query. It is never persisted, so it
// only lives for the duration of the command.
var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Filter careers by skill using the session search query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli.store.Dispatch(state.SetSearchQuery{Query: args[0]})
		return printCareers(cmd, cli.store.State().SearchQuery, "")
	},
}

func init() {
	cartCmd.AddCommand(cartAddCmd, cartRemoveCmd, cartSetCmd, cartClearCmd, cartListCmd)
}

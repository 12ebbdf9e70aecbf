package main

import (
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/router"
)

func printJSON(v interface{}) error {
	bs, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(bs))
	return nil
}

func marketsCommand(opts *options) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "markets",
		Short: "lists the markets known to the router",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var res interface{}
			if opts.hostURL != "" {
				v, err := DoRequest(opts.hostURL, "hoops.markets", []interface{}{})
				if err != nil {
					return err
				}
				res = v
			} else {
				ha, err := loadApp(opts)
				if err != nil {
					return err
				}
				list, err := ha.Network().Markets()
				if err != nil {
					return err
				}
				res = list
			}
			if dump {
				spew.Dump(res)
				return nil
			}
			return printJSON(res)
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "prints the go values instead of json")
	return cmd
}

func quoteCommand(opts *options) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "quote [amount] [token_in] [token_out]",
		Short: "returns the best quote of the pair, every quote with --all",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := "hoops.quote"
			if all {
				method = "hoops.quotes"
			}
			if opts.hostURL != "" {
				res, err := DoRequest(opts.hostURL, method, []interface{}{args[0], args[1], args[2]})
				if err != nil {
					return err
				}
				return printJSON(res)
			}

			am, err := amount.ParseAmount(args[0])
			if err != nil {
				return err
			}
			ha, err := loadApp(opts)
			if err != nil {
				return err
			}
			net := ha.Network()
			in, err := net.Token(args[1])
			if err != nil {
				return err
			}
			out, err := net.Token(args[2])
			if err != nil {
				return err
			}
			list, err := net.Quotes(am, in, out)
			if err != nil {
				return err
			}
			if all {
				return printJSON(list)
			}
			best := router.BestQuote(list)
			if best == nil {
				return fmt.Errorf("no market quotes %v/%v", args[1], args[2])
			}
			return printJSON(best)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "returns the quote of every market")
	return cmd
}

func discoverCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "refreshes the markets of every seeded pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.hostURL != "" {
				res, err := DoRequest(opts.hostURL, "hoops.discover", []interface{}{})
				if err != nil {
					return err
				}
				fmt.Println(res)
				return nil
			}
			ha, err := loadApp(opts)
			if err != nil {
				return err
			}
			count, err := ha.Network().Discover()
			if err != nil {
				return err
			}
			fmt.Println(count)
			return nil
		},
	}
}

func tokensCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: "lists the token symbols and addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.hostURL != "" {
				res, err := DoRequest(opts.hostURL, "hoops.tokens", []interface{}{})
				if err != nil {
					return err
				}
				return printJSON(res)
			}
			ha, err := loadApp(opts)
			if err != nil {
				return err
			}
			net := ha.Network()
			for _, sym := range net.Symbols() {
				addr, err := net.Token(sym)
				if err != nil {
					return err
				}
				fmt.Println(sym, addr.String())
			}
			return nil
		},
	}
}

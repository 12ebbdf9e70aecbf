package main

import (
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	envFiles   []string
	hostURL    string
}

func main() {
	opts := &options{}
	var rootCmd = &cobra.Command{
		Use:          "hoops",
		Short:        "liquidity router sandbox over soroswap, aqua, phoenix and comet",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "toml or yaml config of the sandbox")
	rootCmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env", []string{".env"}, "dotenv files applied over the config")
	rootCmd.PersistentFlags().StringVar(&opts.hostURL, "host", "", "url of a running server, the local sandbox is used when empty")
	rootCmd.AddCommand(serveCommand(opts))
	rootCmd.AddCommand(marketsCommand(opts))
	rootCmd.AddCommand(quoteCommand(opts))
	rootCmd.AddCommand(discoverCommand(opts))
	rootCmd.AddCommand(tokensCommand(opts))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

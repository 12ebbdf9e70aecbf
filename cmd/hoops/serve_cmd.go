package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hoops-finance/hoops/cmd/app"
	"github.com/hoops-finance/hoops/cmd/closer"
	"github.com/hoops-finance/hoops/cmd/config"
	"github.com/hoops-finance/hoops/common/rlog"
	"github.com/hoops-finance/hoops/service/apiserver"
)

func loadApp(opts *options) (*app.HoopsApp, error) {
	cfg, err := config.Load(opts.configPath, opts.envFiles...)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return app.NewHoopsApp(cfg)
}

func serveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "builds the sandbox and serves the api",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ha, err := loadApp(opts)
			if err != nil {
				return err
			}
			cfg := ha.Config()
			s := apiserver.NewAPIServer(ha.Network(), apiserver.Options{
				CacheSize: cfg.API.CacheSize,
				CacheTTL:  time.Duration(cfg.API.CacheSeconds) * time.Second,
			})

			cm := closer.NewManager()
			cm.Add("apiserver", s)
			sigc := make(chan os.Signal, 1)
			signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigc
				cm.CloseAll()
			}()

			log := rlog.Named("serve")
			if err := s.Run(cfg.BindAddress()); err != nil && err != http.ErrServerClosed {
				log.Error("apiserver", zap.Error(err))
				cm.CloseAll()
				return err
			}
			cm.Wait()
			return nil
		},
	}
}

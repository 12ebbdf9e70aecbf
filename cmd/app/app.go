package app

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hoops-finance/hoops/cmd/config"
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/rlog"
	"github.com/hoops-finance/hoops/contract/network"
)

// HoopsApp is the sandbox network built from a config
type HoopsApp struct {
	cfg *config.Config
	net *network.Network
}

// Name returns the name of the application
func (app *HoopsApp) Name() string {
	return "HoopsApp"
}

// Version returns the version of the application
func (app *HoopsApp) Version() string {
	return "v0.1.0"
}

func (app *HoopsApp) Config() *config.Config {
	return app.cfg
}

func (app *HoopsApp) Network() *network.Network {
	return app.net
}

// NewHoopsApp configures the logger and builds the network the config describes
func NewHoopsApp(cfg *config.Config) (*HoopsApp, error) {
	if err := rlog.Configure(cfg.Log.Development, cfg.Log.Level); err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	spec, err := NetworkSpec(cfg)
	if err != nil {
		return nil, err
	}
	net, err := network.Build(spec)
	if err != nil {
		return nil, err
	}
	rlog.Named("app").Info("sandbox ready",
		zap.String("admin", spec.Admin.String()),
		zap.String("router", net.Router().String()),
		zap.String("deployer", net.Deployer().String()),
	)
	return &HoopsApp{
		cfg: cfg,
		net: net,
	}, nil
}

// NetworkSpec converts the config to a network spec
func NetworkSpec(cfg *config.Config) (*network.Spec, error) {
	admin, err := common.ParseAddress(cfg.Admin)
	if err != nil {
		return nil, errors.Wrapf(err, "admin %v", cfg.Admin)
	}
	spec := &network.Spec{
		Timestamp: cfg.Ledger.Timestamp,
		Sequence:  cfg.Ledger.Sequence,
		Admin:     admin,
		Usdc:      cfg.Usdc,
	}
	for _, h := range cfg.Holders {
		addr, err := common.ParseAddress(h)
		if err != nil {
			return nil, errors.Wrapf(err, "holder %v", h)
		}
		spec.Holders = append(spec.Holders, addr)
	}
	for _, t := range cfg.Tokens {
		if strings.TrimSpace(t.Symbol) == "" {
			return nil, errors.New("token without symbol")
		}
		spec.Tokens = append(spec.Tokens, &network.TokenSpec{
			Symbol: t.Symbol,
			Supply: t.Supply,
		})
	}
	for _, p := range cfg.Pools {
		spec.Pools = append(spec.Pools, &network.PoolSpec{
			Kind:     p.Kind,
			TokenA:   p.TokenA,
			TokenB:   p.TokenB,
			ReserveA: p.ReserveA,
			ReserveB: p.ReserveB,
		})
	}
	return spec, nil
}

package network

import (
	"sync"

	"github.com/hoops-finance/hoops/contract/account"
	aquaadapter "github.com/hoops-finance/hoops/contract/adapter/aqua"
	cometadapter "github.com/hoops-finance/hoops/contract/adapter/comet"
	phoenixadapter "github.com/hoops-finance/hoops/contract/adapter/phoenix"
	soroswapadapter "github.com/hoops-finance/hoops/contract/adapter/soroswap"
	"github.com/hoops-finance/hoops/contract/deployer"
	"github.com/hoops-finance/hoops/contract/external/aqua"
	"github.com/hoops-finance/hoops/contract/external/comet"
	"github.com/hoops-finance/hoops/contract/external/phoenix"
	"github.com/hoops-finance/hoops/contract/external/soroswap"
	"github.com/hoops-finance/hoops/contract/router"
	"github.com/hoops-finance/hoops/contract/token"
	"github.com/hoops-finance/hoops/core/types"
)

// Classes holds the class id of every contract a network deploys
type Classes struct {
	Token           uint64
	Router          uint64
	Account         uint64
	Deployer        uint64
	SoroswapFactory uint64
	AquaRouter      uint64
	PhoenixFactory  uint64
	CometFactory    uint64
	SoroswapAdapter uint64
	AquaAdapter     uint64
	PhoenixAdapter  uint64
	CometAdapter    uint64
}

var (
	classesOnce sync.Once
	classes     *Classes
	classesErr  error
)

// RegisterClasses registers the contract types once per process
func RegisterClasses() (*Classes, error) {
	classesOnce.Do(func() {
		classes, classesErr = registerClasses()
	})
	return classes, classesErr
}

func registerClasses() (*Classes, error) {
	c := &Classes{}
	list := []struct {
		cont types.Contract
		id   *uint64
	}{
		{&token.TokenContract{}, &c.Token},
		{&router.RouterContract{}, &c.Router},
		{&account.AccountContract{}, &c.Account},
		{&deployer.DeployerContract{}, &c.Deployer},
		{&soroswap.FactoryContract{}, &c.SoroswapFactory},
		{&soroswap.PairContract{}, nil},
		{&aqua.RouterContract{}, &c.AquaRouter},
		{&aqua.PoolContract{}, nil},
		{&phoenix.FactoryContract{}, &c.PhoenixFactory},
		{&phoenix.PoolContract{}, nil},
		{&comet.FactoryContract{}, &c.CometFactory},
		{&comet.PoolContract{}, nil},
		{&soroswapadapter.SoroswapAdapter{}, &c.SoroswapAdapter},
		{&aquaadapter.AquaAdapter{}, &c.AquaAdapter},
		{&phoenixadapter.PhoenixAdapter{}, &c.PhoenixAdapter},
		{&cometadapter.CometAdapter{}, &c.CometAdapter},
	}
	for _, v := range list {
		id, err := types.RegisterContractType(v.cont)
		if err != nil {
			return nil, err
		}
		if v.id != nil {
			*v.id = id
		}
	}
	return c, nil
}

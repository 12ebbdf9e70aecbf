package router

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/core/types"
)

func (cont *RouterContract) Front() interface{} {
	return &front{
		cont: cont,
	}
}

type front struct {
	cont *RouterContract
}

func (f *front) Initialize(cc *types.ContractContext, Admin common.Address) error {
	return f.cont.initialize(cc, Admin)
}

func (f *front) GetVersion(cc *types.ContractContext) uint32 {
	return f.cont.version(cc)
}

func (f *front) GetConfig(cc *types.ContractContext) (*CoreConfig, error) {
	return f.cont.config(cc)
}

func (f *front) SetUsdc(cc *types.ContractContext, Usdc common.Address) error {
	return f.cont.setUsdc(cc, Usdc)
}

//////////////////////////////////////////////////
// Adapters
//////////////////////////////////////////////////

func (f *front) AddAdapter(cc *types.ContractContext, AdapterID uint32, AdapterAddress common.Address) error {
	return f.cont.setAdapter(cc, AdapterID, AdapterAddress)
}

func (f *front) SetAdapter(cc *types.ContractContext, AdapterID uint32, AdapterAddress common.Address) error {
	return f.cont.setAdapter(cc, AdapterID, AdapterAddress)
}

func (f *front) RemoveAdapter(cc *types.ContractContext, AdapterID uint32) error {
	return f.cont.removeAdapter(cc, AdapterID)
}

func (f *front) GetAdapter(cc *types.ContractContext, AdapterID uint32) (common.Address, error) {
	return f.cont.adapterAddress(cc, AdapterID)
}

func (f *front) GetAdapters(cc *types.ContractContext) []*AdapterRegistration {
	return f.cont.adapters(cc)
}

//////////////////////////////////////////////////
// Markets
//////////////////////////////////////////////////

func (f *front) AddMarkets(cc *types.ContractContext, Markets []*MarketData) error {
	return f.cont.addMarkets(cc, Markets)
}

func (f *front) GetMarkets(cc *types.ContractContext) ([]*MarketData, error) {
	return f.cont.markets(cc)
}

func (f *front) DiscoverPools(cc *types.ContractContext, Kind uint32, Factory common.Address, Pairs []*TokenPair) (uint32, error) {
	return f.cont.discover(cc, PoolType(Kind), Factory, Pairs)
}

func (f *front) DiscoverSoroswapPools(cc *types.ContractContext, Factory common.Address, Pairs []*TokenPair) (uint32, error) {
	return f.cont.discover(cc, PoolSoroswap, Factory, Pairs)
}

func (f *front) DiscoverAquaPools(cc *types.ContractContext, Factory common.Address, Pairs []*TokenPair) (uint32, error) {
	return f.cont.discover(cc, PoolAqua, Factory, Pairs)
}

func (f *front) DiscoverPhoenixPools(cc *types.ContractContext, Factory common.Address, Pairs []*TokenPair) (uint32, error) {
	return f.cont.discover(cc, PoolPhoenix, Factory, Pairs)
}

func (f *front) DiscoverCometPools(cc *types.ContractContext, Factory common.Address, Pairs []*TokenPair) (uint32, error) {
	return f.cont.discover(cc, PoolComet, Factory, Pairs)
}

//////////////////////////////////////////////////
// Quotes
//////////////////////////////////////////////////

func (f *front) GetAllQuotes(cc *types.ContractContext, Amount *amount.Amount, TokenIn common.Address, TokenOut common.Address) ([]*SwapQuote, error) {
	return f.cont.getAllQuotes(cc, Amount, TokenIn, TokenOut)
}

// GetBestQuote returns nil when no market quotes the pair
func (f *front) GetBestQuote(cc *types.ContractContext, Amount *amount.Amount, TokenIn common.Address, TokenOut common.Address) (*SwapQuote, error) {
	return f.cont.getBestQuote(cc, Amount, TokenIn, TokenOut)
}

//////////////////////////////////////////////////
// Dispatch
//////////////////////////////////////////////////

func (f *front) Swap(cc *types.ContractContext, Amount *amount.Amount, TokenIn common.Address, TokenOut common.Address, BestHop common.Address, Sender common.Address, Deadline uint64, MinOut *amount.Amount) (*amount.Amount, error) {
	return f.cont.swap(cc, Amount, TokenIn, TokenOut, BestHop, Sender, Deadline, MinOut)
}

func (f *front) ProvideLiquidity(cc *types.ContractContext, Amount *amount.Amount, LpPlans []*LpPlan, Sender common.Address, Deadline uint64) ([]*amount.Amount, error) {
	return f.cont.provideLiquidity(cc, Amount, LpPlans, Sender, Deadline)
}

func (f *front) RedeemLiquidity(cc *types.ContractContext, LpToken common.Address, LpAmount *amount.Amount, Sender common.Address, Deadline uint64) (*amount.Amount, *amount.Amount, error) {
	return f.cont.redeemLiquidity(cc, LpToken, LpAmount, Sender, Deadline)
}

func (f *front) IdleFloat(cc *types.ContractContext, Owner common.Address) *amount.Amount {
	return f.cont.floatOf(cc, Owner)
}

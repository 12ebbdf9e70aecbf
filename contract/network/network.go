// Package network assembles a sandbox ledger: tokens, the reference
// protocols with seeded pools, one adapter per protocol, the router with
// its discovered markets, and an account deployer. The command line and
// the api server run on top of it.
package network

import (
	"math/big"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/common/bmath"
	"github.com/hoops-finance/hoops/common/rlog"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/contract/deployer"
	"github.com/hoops-finance/hoops/contract/router"
	"github.com/hoops-finance/hoops/contract/util"
	"github.com/hoops-finance/hoops/core/types"
)

// pool kinds a PoolSpec names
const (
	KindSoroswap   = "soroswap"
	KindAqua       = "aqua"
	KindAquaStable = "aqua_stable"
	KindPhoenix    = "phoenix"
	KindComet      = "comet"
)

// errors
var (
	ErrUnknownToken = errors.New("unknown token")
	ErrUnknownKind  = errors.New("unknown pool kind")
)

type TokenSpec struct {
	Symbol string
	Supply uint64
}

// PoolSpec seeds one pool, reserves are whole coins
type PoolSpec struct {
	Kind     string
	TokenA   string
	TokenB   string
	ReserveA uint64
	ReserveB uint64
}

type Spec struct {
	Timestamp uint64
	Sequence  uint32
	Admin     common.Address
	Holders   []common.Address
	Usdc      string
	Tokens    []*TokenSpec
	Pools     []*PoolSpec
}

// Network is a built sandbox, every call is serialized on its lock
type Network struct {
	sync.Mutex
	ctx      *types.Context
	classes  *Classes
	admin    common.Address
	tokens   map[string]common.Address
	symbols  []string
	router   common.Address
	deployer common.Address
	amms     map[router.PoolType]common.Address
	adapters map[uint32]common.Address
	pairs    map[router.PoolType][]*router.TokenPair
	log      *zap.Logger
}

// Build deploys what spec lists and runs a first discovery
func Build(spec *Spec) (*Network, error) {
	cls, err := RegisterClasses()
	if err != nil {
		return nil, err
	}
	n := &Network{
		ctx:      types.NewContext(types.Ledger{Timestamp: spec.Timestamp, Sequence: spec.Sequence}),
		classes:  cls,
		admin:    spec.Admin,
		tokens:   map[string]common.Address{},
		amms:     map[router.PoolType]common.Address{},
		adapters: map[uint32]common.Address{},
		pairs:    map[router.PoolType][]*router.TokenPair{},
		log:      rlog.Named("network"),
	}
	if err := n.deployTokens(spec); err != nil {
		return nil, err
	}
	if err := n.deployProtocols(); err != nil {
		return nil, err
	}
	if err := n.deployRouter(spec); err != nil {
		return nil, err
	}
	for _, p := range spec.Pools {
		if err := n.seedPool(p); err != nil {
			return nil, errors.Wrapf(err, "seed %v %v/%v", p.Kind, p.TokenA, p.TokenB)
		}
	}
	if _, err := n.Discover(); err != nil {
		return nil, err
	}
	n.log.Info("network built",
		zap.Int("tokens", len(n.tokens)),
		zap.Int("pools", len(spec.Pools)),
		zap.String("router", n.router.String()),
	)
	return n, nil
}

func (n *Network) exec(to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	return util.Exec(n.ctx, n.admin, to, method, args)
}

func (n *Network) deployTokens(spec *Spec) error {
	for _, t := range spec.Tokens {
		sym := strings.ToUpper(t.Symbol)
		if _, has := n.tokens[sym]; has {
			return errors.Errorf("duplicated token %v", sym)
		}
		addr, err := util.DeployToken(n.ctx, n.classes.Token, n.admin, sym, sym)
		if err != nil {
			return err
		}
		holders := append([]common.Address{n.admin}, spec.Holders...)
		for _, h := range holders {
			if _, err := n.exec(addr, "Mint", h, amount.NewCoinAmount(t.Supply, 0)); err != nil {
				return err
			}
		}
		n.tokens[sym] = addr
		n.symbols = append(n.symbols, sym)
	}
	return nil
}

func (n *Network) deploy(classID uint64, args []byte) (common.Address, error) {
	cont, err := n.ctx.DeployContract(n.admin, classID, args)
	if err != nil {
		return common.Address{}, err
	}
	return cont.Address(), nil
}

func (n *Network) deployProtocols() error {
	list := []struct {
		kind    router.PoolType
		amm     uint64
		adapter uint64
	}{
		{router.PoolSoroswap, n.classes.SoroswapFactory, n.classes.SoroswapAdapter},
		{router.PoolAqua, n.classes.AquaRouter, n.classes.AquaAdapter},
		{router.PoolPhoenix, n.classes.PhoenixFactory, n.classes.PhoenixAdapter},
		{router.PoolComet, n.classes.CometFactory, n.classes.CometAdapter},
	}
	for _, v := range list {
		amm, err := n.deploy(v.amm, nil)
		if err != nil {
			return err
		}
		adp, err := n.deploy(v.adapter, nil)
		if err != nil {
			return err
		}
		if _, err := n.exec(adp, "Initialize", v.kind.AdapterID(), amm); err != nil {
			return err
		}
		n.amms[v.kind] = amm
		n.adapters[v.kind.AdapterID()] = adp
	}
	return nil
}

func (n *Network) deployRouter(spec *Spec) error {
	rt, err := n.deploy(n.classes.Router, nil)
	if err != nil {
		return err
	}
	n.router = rt
	if _, err := n.exec(rt, "Initialize", n.admin); err != nil {
		return err
	}
	ids := make([]uint32, 0, len(n.adapters))
	for id := range n.adapters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if _, err := n.exec(rt, "AddAdapter", id, n.adapters[id]); err != nil {
			return err
		}
	}
	if spec.Usdc != "" {
		usdc, err := n.Token(spec.Usdc)
		if err != nil {
			return err
		}
		if _, err := n.exec(rt, "SetUsdc", usdc); err != nil {
			return err
		}
	}
	n.deployer, err = n.deploy(n.classes.Deployer, bin.MustWriterToBytes(&deployer.DeployerContractConstruction{
		AccountClassID: n.classes.Account,
		Router:         rt,
	}))
	return err
}

func bone(num, den int64) *amount.Amount {
	v := new(big.Int).Mul(bmath.BONE, big.NewInt(num))
	return &amount.Amount{Int: v.Quo(v, big.NewInt(den))}
}

func (n *Network) seedPool(p *PoolSpec) error {
	a, err := n.Token(p.TokenA)
	if err != nil {
		return err
	}
	b, err := n.Token(p.TokenB)
	if err != nil {
		return err
	}
	ra, rb := amount.NewCoinAmount(p.ReserveA, 0), amount.NewCoinAmount(p.ReserveB, 0)
	if common.AddressLess(b, a) {
		a, b, ra, rb = b, a, rb, ra
	}
	zero := amount.NewAmount(0)

	var kind router.PoolType
	switch strings.ToLower(p.Kind) {
	case KindSoroswap:
		kind = router.PoolSoroswap
		deadline := n.ctx.Ledger().Timestamp + 600
		if _, err := n.exec(n.adapters[adapter.ProtocolSoroswap], "AddLiquidity", a, b, ra, rb, zero, zero, n.admin, deadline); err != nil {
			return err
		}
	case KindAqua, KindAquaStable:
		kind = router.PoolAqua
		var is []interface{}
		if strings.ToLower(p.Kind) == KindAquaStable {
			is, err = n.exec(n.amms[kind], "InitStableswapPool", n.admin, []common.Address{a, b}, uint64(100), uint32(4))
		} else {
			is, err = n.exec(n.amms[kind], "InitConstantPool", n.admin, []common.Address{a, b}, uint32(30))
		}
		if err != nil {
			return err
		}
		pool, err := util.AddressResult(is, 0)
		if err != nil {
			return err
		}
		if _, err := n.exec(pool, "Deposit", n.admin, []*amount.Amount{ra, rb}, zero); err != nil {
			return err
		}
	case KindPhoenix:
		kind = router.PoolPhoenix
		is, err := n.exec(n.amms[kind], "CreateLiquidityPool", n.admin, a, b, uint32(30), uint32(100), uint32(1000))
		if err != nil {
			return err
		}
		pool, err := util.AddressResult(is, 0)
		if err != nil {
			return err
		}
		if _, err := n.exec(pool, "ProvideLiquidity", n.admin, ra, zero, rb, zero, uint32(0), uint64(0)); err != nil {
			return err
		}
	case KindComet:
		kind = router.PoolComet
		is, err := n.exec(n.amms[kind], "NewPool", n.admin, []common.Address{a, b}, []*amount.Amount{bone(5, 1), bone(5, 1)}, bone(3, 1000))
		if err != nil {
			return err
		}
		pool, err := util.AddressResult(is, 0)
		if err != nil {
			return err
		}
		if _, err := n.exec(pool, "Finalize", []*amount.Amount{ra, rb}); err != nil {
			return err
		}
	default:
		return errors.Wrap(ErrUnknownKind, p.Kind)
	}
	n.addPair(kind, a, b)
	return nil
}

func (n *Network) addPair(kind router.PoolType, a, b common.Address) {
	for _, p := range n.pairs[kind] {
		if p.TokenA == a && p.TokenB == b {
			return
		}
	}
	n.pairs[kind] = append(n.pairs[kind], &router.TokenPair{TokenA: a, TokenB: b})
}

// Discover refreshes the router markets of every seeded pair
func (n *Network) Discover() (uint32, error) {
	n.Lock()
	defer n.Unlock()

	total := uint32(0)
	for _, kind := range []router.PoolType{router.PoolSoroswap, router.PoolAqua, router.PoolPhoenix, router.PoolComet} {
		pairs := n.pairs[kind]
		if len(pairs) == 0 {
			continue
		}
		is, err := n.exec(n.router, "DiscoverPools", uint32(kind), n.amms[kind], pairs)
		if err != nil {
			return 0, errors.Wrapf(err, "discover %v", kind.String())
		}
		if c, ok := is[0].(uint32); ok {
			total += c
		}
	}
	n.log.Debug("markets discovered", zap.Uint32("count", total))
	return total, nil
}

// Token returns the address of the symbol, a hex address is returned as is
func (n *Network) Token(symbol string) (common.Address, error) {
	if addr, has := n.tokens[strings.ToUpper(symbol)]; has {
		return addr, nil
	}
	if common.IsHexAddress(symbol) {
		return common.HexToAddress(symbol), nil
	}
	return common.Address{}, errors.Wrap(ErrUnknownToken, symbol)
}

// Symbols returns the token symbols in deploy order
func (n *Network) Symbols() []string {
	return append([]string{}, n.symbols...)
}

// SymbolOf returns the symbol of a deployed token or the hex address
func (n *Network) SymbolOf(addr common.Address) string {
	for sym, v := range n.tokens {
		if v == addr {
			return sym
		}
	}
	return addr.String()
}

func (n *Network) Admin() common.Address {
	return n.admin
}

func (n *Network) Router() common.Address {
	return n.router
}

func (n *Network) Deployer() common.Address {
	return n.deployer
}

func (n *Network) Classes() *Classes {
	return n.classes
}

// Ledger returns the current ledger
func (n *Network) Ledger() types.Ledger {
	n.Lock()
	defer n.Unlock()
	return n.ctx.Ledger()
}

// AdvanceLedger closes n ledgers
func (n *Network) AdvanceLedger(count uint32) {
	n.Lock()
	defer n.Unlock()
	n.ctx.AdvanceLedger(count)
}

// OnReceipt registers fn for every committed transaction
func (n *Network) OnReceipt(fn func(*types.Receipt)) {
	n.Lock()
	defer n.Unlock()
	n.ctx.OnReceipt(fn)
}

// Execute runs a transaction against the sandbox
func (n *Network) Execute(tx *types.Transaction) (*types.Receipt, error) {
	n.Lock()
	defer n.Unlock()
	return n.ctx.Execute(tx)
}

// Query runs a read only call
func (n *Network) Query(to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	n.Lock()
	defer n.Unlock()
	return n.ctx.Query(to, method, args...)
}

func (n *Network) Markets() ([]*router.MarketData, error) {
	is, err := n.Query(n.router, "GetMarkets")
	if err != nil {
		return nil, err
	}
	list, _ := is[0].([]*router.MarketData)
	return list, nil
}

func (n *Network) Quotes(am *amount.Amount, tokenIn, tokenOut common.Address) ([]*router.SwapQuote, error) {
	is, err := n.Query(n.router, "GetAllQuotes", am, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	list, _ := is[0].([]*router.SwapQuote)
	return list, nil
}

// BestQuote returns nil when no market quotes the pair
func (n *Network) BestQuote(am *amount.Amount, tokenIn, tokenOut common.Address) (*router.SwapQuote, error) {
	is, err := n.Query(n.router, "GetBestQuote", am, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	q, _ := is[0].(*router.SwapQuote)
	return q, nil
}

func (n *Network) BalanceOf(token, addr common.Address) (*amount.Amount, error) {
	is, err := n.Query(token, "Balance", addr)
	if err != nil {
		return nil, err
	}
	return util.AmountResult(is, 0)
}

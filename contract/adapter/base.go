package adapter

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/common/hash"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

// Base carries the lifecycle, guard and pool registry logic shared by the
// protocol adapters. It implements every types.Contract method except Init
// and Front, which the embedding adapter provides.
type Base struct {
	addr   common.Address
	master common.Address
	proto  Protocol
}

// Bind is called from the embedding adapter's Init
func (b *Base) Bind(addr common.Address, master common.Address, proto Protocol) {
	b.addr = addr
	b.master = master
	b.proto = proto
}

func (b *Base) Address() common.Address {
	return b.addr
}

func (b *Base) Master() common.Address {
	return b.master
}

func (b *Base) Protocol() Protocol {
	return b.proto
}

// OnCreate leaves the adapter unbound until Initialize
func (b *Base) OnCreate(cc *types.ContractContext, Args []byte) error {
	return nil
}

//////////////////////////////////////////////////
// Lifecycle
//////////////////////////////////////////////////

func (b *Base) IsInitialized(cc *types.ContractContext) bool {
	return len(cc.ContractData([]byte{tagConfig})) > 0
}

func (b *Base) Config(cc *types.ContractContext) (*CoreConfig, error) {
	bs := cc.ContractData([]byte{tagConfig})
	if len(bs) == 0 {
		return nil, errors.WithStack(ErrNotInitialized)
	}
	cfg := &CoreConfig{}
	if _, err := cfg.ReadFrom(bytes.NewReader(bs)); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (b *Base) setConfig(cc *types.ContractContext, cfg *CoreConfig) {
	cc.SetContractData([]byte{tagConfig}, bin.MustWriterToBytes(cfg))
}

// Amm returns the protocol contract bound at Initialize
func (b *Base) Amm(cc *types.ContractContext) (common.Address, error) {
	cfg, err := b.Config(cc)
	if err != nil {
		return ZeroAddress, err
	}
	return cfg.Amm, nil
}

// Initialize binds the adapter to its protocol contract, the caller becomes admin
func (b *Base) Initialize(cc *types.ContractContext, AmmID uint32, AmmAddress common.Address) error {
	if b.IsInitialized(cc) {
		return errors.WithStack(ErrAlreadyInitialized)
	}
	if AmmID != b.proto.ID {
		return errors.Wrapf(ErrInvalidID, "%v adapter got protocol %v", b.proto.Name, AmmID)
	}
	b.setConfig(cc, &CoreConfig{
		Admin:     cc.From(),
		Amm:       AmmAddress,
		Version:   1,
		TTLThresh: DefaultTTLThreshold,
		TTLBump:   DefaultTTLBump,
	})
	b.emit(cc, EventInit, &InitEvent{Amm: AmmAddress})
	return b.Bump(cc)
}

// Upgrade records the new code hash, the host has no code to swap
func (b *Base) Upgrade(cc *types.ContractContext, NewCodeHash hash.Hash256) error {
	cfg, err := b.Config(cc)
	if err != nil {
		return err
	}
	if err := cc.RequireAuth(cfg.Admin); err != nil {
		return err
	}
	cfg.Version++
	b.setConfig(cc, cfg)
	cc.SetContractData([]byte{tagCodeHash}, NewCodeHash[:])
	b.emit(cc, EventUpgrade, NewCodeHash)
	return b.Bump(cc)
}

func (b *Base) Version(cc *types.ContractContext) uint32 {
	cfg, err := b.Config(cc)
	if err != nil {
		return 0
	}
	return cfg.Version
}

func (b *Base) CodeHash(cc *types.ContractContext) hash.Hash256 {
	var h hash.Hash256
	copy(h[:], cc.ContractData([]byte{tagCodeHash}))
	return h
}

// Bump keeps the instance alive, threshold and extension come from the config
func (b *Base) Bump(cc *types.ContractContext) error {
	thresh, bump := uint32(DefaultTTLThreshold), uint32(DefaultTTLBump)
	if cfg, err := b.Config(cc); err == nil {
		thresh, bump = cfg.TTLThresh, cfg.TTLBump
	}
	return cc.ExtendTTL(thresh, bump)
}

//////////////////////////////////////////////////
// Guards
//////////////////////////////////////////////////

// CheckReady fails unless the adapter is initialized and the deadline is not behind the ledger
func (b *Base) CheckReady(cc *types.ContractContext, deadline uint64) (*CoreConfig, error) {
	cfg, err := b.Config(cc)
	if err != nil {
		return nil, err
	}
	if cc.Timestamp() > deadline {
		return nil, errors.Wrapf(ErrDeadlinePassed, "now %v deadline %v", cc.Timestamp(), deadline)
	}
	return cfg, nil
}

// CheckAmount fails for nil or non positive amounts
func CheckAmount(ams ...*amount.Amount) error {
	for _, am := range ams {
		if !IsPlusAmount(am) {
			return errors.WithStack(ErrInvalidAmount)
		}
	}
	return nil
}

// CheckMin fails for nil or negative minimums
func CheckMin(ams ...*amount.Amount) error {
	for _, am := range ams {
		if am == nil || am.Int == nil || am.Sign() < 0 {
			return errors.WithStack(ErrInvalidAmount)
		}
	}
	return nil
}

// CheckPair returns the two hops of a single pool path
func CheckPair(path []common.Address) (common.Address, common.Address, error) {
	if len(path) < 2 {
		return ZeroAddress, ZeroAddress, errors.WithStack(ErrInvalidPath)
	}
	if len(path) > 2 {
		return ZeroAddress, ZeroAddress, errors.WithStack(ErrMultipathUnsupported)
	}
	if path[0] == path[1] {
		return ZeroAddress, ZeroAddress, errors.WithStack(ErrInvalidPath)
	}
	return path[0], path[1], nil
}

//////////////////////////////////////////////////
// Custody
//////////////////////////////////////////////////

// Pull takes am of token from the direct caller into dest
func (b *Base) Pull(cc *types.ContractContext, token common.Address, dest common.Address, am *amount.Amount) error {
	if err := TokenTransfer(cc, token, cc.From(), dest, am); err != nil {
		return External(err)
	}
	return nil
}

// Send pays am of token held by the adapter to to
func (b *Base) Send(cc *types.ContractContext, token common.Address, to common.Address, am *amount.Amount) error {
	if !am.IsPlus() {
		return nil
	}
	if err := TokenTransfer(cc, token, b.addr, to, am); err != nil {
		return External(err)
	}
	return nil
}

// Held returns the adapter's balance of token
func (b *Base) Held(cc *types.ContractContext, token common.Address) (*amount.Amount, error) {
	bal, err := TokenBalance(cc, token, b.addr)
	if err != nil {
		return nil, External(err)
	}
	return bal, nil
}

//////////////////////////////////////////////////
// Pool registry
//////////////////////////////////////////////////

// SetPoolForTokens maps the pair to a pool, admin only
func (b *Base) SetPoolForTokens(cc *types.ContractContext, Tokens []common.Address, Info *PoolInfo) error {
	cfg, err := b.Config(cc)
	if err != nil {
		return err
	}
	if err := cc.RequireAuth(cfg.Admin); err != nil {
		return err
	}
	if len(Tokens) != 2 || Tokens[0] == Tokens[1] || Info == nil {
		return errors.WithStack(ErrInvalidArgument)
	}
	b.StorePool(cc, Tokens[0], Tokens[1], Info)
	return b.Bump(cc)
}

// StorePool writes the registry without an auth check
func (b *Base) StorePool(cc *types.ContractContext, tokenA common.Address, tokenB common.Address, info *PoolInfo) {
	cc.SetContractData(makePoolKey(tokenA, tokenB), bin.MustWriterToBytes(info))
	if info.LpToken != ZeroAddress {
		cc.SetContractData(makeLpPoolKey(info.LpToken), info.Pool[:])
	}
}

// GetPoolForTokens returns nil for an unknown pair
func (b *Base) GetPoolForTokens(cc *types.ContractContext, Tokens []common.Address) *PoolInfo {
	if len(Tokens) != 2 {
		return nil
	}
	return b.PoolFor(cc, Tokens[0], Tokens[1])
}

func (b *Base) PoolFor(cc *types.ContractContext, tokenA common.Address, tokenB common.Address) *PoolInfo {
	bs := cc.ContractData(makePoolKey(tokenA, tokenB))
	if len(bs) == 0 {
		return nil
	}
	info := &PoolInfo{}
	if _, err := info.ReadFrom(bytes.NewReader(bs)); err != nil {
		return nil
	}
	return info
}

// PoolForLp returns the pool that issued the share token
func (b *Base) PoolForLp(cc *types.ContractContext, lp common.Address) (common.Address, bool) {
	bs := cc.ContractData(makeLpPoolKey(lp))
	if len(bs) == 0 {
		return ZeroAddress, false
	}
	return common.BytesToAddress(bs), true
}

package adapter

import (
	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

// Client calls an adapter from inside another contract
type Client struct {
	cc   *types.ContractContext
	addr common.Address
}

func NewClient(cc *types.ContractContext, addr common.Address) *Client {
	return &Client{
		cc:   cc,
		addr: addr,
	}
}

func (c *Client) Address() common.Address {
	return c.addr
}

func (c *Client) exec(method string, args ...interface{}) ([]interface{}, error) {
	return c.cc.Exec(c.cc, c.addr, method, args)
}

func (c *Client) Version() (uint32, error) {
	is, err := c.exec("Version")
	if err != nil {
		return 0, err
	}
	if len(is) != 1 {
		return 0, errors.Errorf("invalid result count %v", len(is))
	}
	v, ok := is[0].(uint32)
	if !ok {
		return 0, errors.Errorf("invalid result type %T", is[0])
	}
	return v, nil
}

func (c *Client) SwapExactIn(amountIn *amount.Amount, minOut *amount.Amount, path []common.Address, to common.Address, deadline uint64) (*amount.Amount, error) {
	is, err := c.exec("SwapExactIn", amountIn, minOut, path, to, deadline)
	if err != nil {
		return nil, err
	}
	return AmountResult(is, 0)
}

func (c *Client) SwapExactOut(amountOut *amount.Amount, maxIn *amount.Amount, path []common.Address, to common.Address, deadline uint64) (*amount.Amount, error) {
	is, err := c.exec("SwapExactOut", amountOut, maxIn, path, to, deadline)
	if err != nil {
		return nil, err
	}
	return AmountResult(is, 0)
}

// AddLiquidity returns the deposited amounts and the minted share
func (c *Client) AddLiquidity(tokenA common.Address, tokenB common.Address, amtA *amount.Amount, amtB *amount.Amount, amtAMin *amount.Amount, amtBMin *amount.Amount, to common.Address, deadline uint64) ([]*amount.Amount, error) {
	is, err := c.exec("AddLiquidity", tokenA, tokenB, amtA, amtB, amtAMin, amtBMin, to, deadline)
	if err != nil {
		return nil, err
	}
	return amountResults(is, 3)
}

func (c *Client) RemoveLiquidity(lpToken common.Address, lpAmount *amount.Amount, amtAMin *amount.Amount, amtBMin *amount.Amount, to common.Address, deadline uint64) ([]*amount.Amount, error) {
	is, err := c.exec("RemoveLiquidity", lpToken, lpAmount, amtAMin, amtBMin, to, deadline)
	if err != nil {
		return nil, err
	}
	return amountResults(is, 2)
}

func (c *Client) QuoteIn(pool common.Address, amountIn *amount.Amount, tokenIn common.Address, tokenOut common.Address) (*amount.Amount, error) {
	is, err := c.exec("QuoteIn", pool, amountIn, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	return AmountResult(is, 0)
}

func (c *Client) QuoteOut(pool common.Address, amountOut *amount.Amount, tokenIn common.Address, tokenOut common.Address) (*amount.Amount, error) {
	is, err := c.exec("QuoteOut", pool, amountOut, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	return AmountResult(is, 0)
}

func (c *Client) GetPoolForTokens(tokenA common.Address, tokenB common.Address) (*PoolInfo, error) {
	is, err := c.exec("GetPoolForTokens", []common.Address{tokenA, tokenB})
	if err != nil {
		return nil, err
	}
	if len(is) != 1 {
		return nil, errors.Errorf("invalid result count %v", len(is))
	}
	info, _ := is[0].(*PoolInfo)
	return info, nil
}

func amountResults(is []interface{}, n int) ([]*amount.Amount, error) {
	list := make([]*amount.Amount, n)
	for i := 0; i < n; i++ {
		am, err := AmountResult(is, i)
		if err != nil {
			return nil, err
		}
		list[i] = am
	}
	return list, nil
}

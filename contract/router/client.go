package router

import (
	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

// Client calls the router from inside another contract
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

func (c *Client) exec(method string, args ...interface{}) ([]interface{}, error) {
	return c.cc.Exec(c.cc, c.addr, method, args)
}

func (c *Client) Swap(am *amount.Amount, tokenIn common.Address, tokenOut common.Address, bestHop common.Address, sender common.Address, deadline uint64, minOut *amount.Amount) (*amount.Amount, error) {
	is, err := c.exec("Swap", am, tokenIn, tokenOut, bestHop, sender, deadline, minOut)
	if err != nil {
		return nil, err
	}
	return AmountResult(is, 0)
}

func (c *Client) ProvideLiquidity(budget *amount.Amount, plans []*LpPlan, sender common.Address, deadline uint64) error {
	_, err := c.exec("ProvideLiquidity", budget, plans, sender, deadline)
	return err
}

func (c *Client) RedeemLiquidity(lp common.Address, lpAmount *amount.Amount, sender common.Address, deadline uint64) error {
	_, err := c.exec("RedeemLiquidity", lp, lpAmount, sender, deadline)
	return err
}

// Package deployer creates accounts at addresses derived from the
// deployer, the owner and a salt, and initializes them in the same call.
package deployer

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/hoops-finance/hoops/contract/util"
)

// SaltLength is the size of a deploy salt
const SaltLength = 32

type DeployerContract struct {
	addr   common.Address
	master common.Address
}

func (cont *DeployerContract) Address() common.Address {
	return cont.addr
}

func (cont *DeployerContract) Master() common.Address {
	return cont.master
}

func (cont *DeployerContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *DeployerContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	if len(Args) == 0 {
		return nil
	}
	data := &DeployerContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	if data.AccountClassID != 0 && !types.IsValidClassID(data.AccountClassID) {
		return errors.WithStack(types.ErrInvalidClassID)
	}
	cc.SetContractData([]byte{tagAccountClassID}, bin.Uint64Bytes(data.AccountClassID))
	cc.SetContractData([]byte{tagRouter}, data.Router[:])
	return nil
}

// AccountAddress returns the first 20 bytes of keccak256(deployer || owner || salt)
func AccountAddress(deployer common.Address, owner common.Address, salt []byte) common.Address {
	h := sha3.NewLegacyKeccak256()
	h.Write(deployer[:])
	h.Write(owner[:])
	h.Write(salt)
	return common.BytesToAddress(h.Sum(nil)[:common.AddressLength])
}

func (cont *DeployerContract) defaultClassID(cc *types.ContractContext) uint64 {
	bs := cc.ContractData([]byte{tagAccountClassID})
	if len(bs) == 0 {
		return 0
	}
	return bin.Uint64(bs)
}

func (cont *DeployerContract) defaultRouter(cc *types.ContractContext) common.Address {
	bs := cc.ContractData([]byte{tagRouter})
	if len(bs) == 0 {
		return ZeroAddress
	}
	return common.BytesToAddress(bs)
}

func (cont *DeployerContract) accounts(cc *types.ContractContext, owner common.Address) ([]common.Address, error) {
	bs := cc.ContractData(makeAccountsKey(owner))
	if len(bs) == 0 {
		return []common.Address{}, nil
	}
	list := []common.Address{}
	if _, err := bin.NewSumReader().Addresses(bytes.NewReader(bs), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (cont *DeployerContract) addAccount(cc *types.ContractContext, owner common.Address, addr common.Address) error {
	list, err := cont.accounts(cc, owner)
	if err != nil {
		return err
	}
	list = append(list, addr)
	var buffer bytes.Buffer
	if _, err := bin.NewSumWriter().Addresses(&buffer, list); err != nil {
		return err
	}
	cc.SetContractData(makeAccountsKey(owner), buffer.Bytes())
	return nil
}

// deployAccount needs the owner's authorization once, the new account's
// initialize sees the same transaction signer
func (cont *DeployerContract) deployAccount(cc *types.ContractContext, owner common.Address, rt common.Address, classID uint64, salt []byte) (common.Address, error) {
	if err := cc.RequireAuth(owner); err != nil {
		return ZeroAddress, err
	}
	if len(salt) != SaltLength {
		return ZeroAddress, errors.Wrapf(ErrInvalidArgument, "salt of %v bytes", len(salt))
	}
	if classID == 0 {
		classID = cont.defaultClassID(cc)
	}
	if rt == ZeroAddress {
		rt = cont.defaultRouter(cc)
	}
	if classID == 0 || rt == ZeroAddress {
		return ZeroAddress, errors.Wrap(ErrInvalidArgument, "account class and router are required")
	}

	addr := AccountAddress(cont.addr, owner, salt)
	if cc.IsContract(addr) {
		return ZeroAddress, errors.Wrap(ErrAlreadyDeployed, addr.String())
	}
	if _, err := cc.DeployContractWithAddress(owner, classID, addr, nil); err != nil {
		return ZeroAddress, err
	}
	if _, err := cc.Exec(cc, addr, "Initialize", []interface{}{owner, rt}); err != nil {
		return ZeroAddress, err
	}
	if err := cont.addAccount(cc, owner, addr); err != nil {
		return ZeroAddress, err
	}
	cc.EmitEvent([]string{"deployer", "account"}, owner, addr, rt)
	return addr, nil
}

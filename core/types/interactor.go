package types

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/common/hash"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	errType     = reflect.TypeOf((*error)(nil)).Elem()
	bigIntType  = reflect.TypeOf(&big.Int{})
	amountType  = reflect.TypeOf(&amount.Amount{})
	addressType = reflect.TypeOf(common.Address{})
	hashType    = reflect.TypeOf(hash.Hash256{})
	bytesType   = reflect.TypeOf([]byte{})
	boolType    = reflect.TypeOf(true)
)

// ExecFunc calls MethodName of the contract at Addr on behalf of the contract running in Cc
type ExecFunc = func(Cc *ContractContext, Addr common.Address, MethodName string, Args []interface{}) ([]interface{}, error)

type interactor struct {
	ctx    *Context
	conMap map[common.Address]Contract
}

func newInteractor(ctx *Context) *interactor {
	return &interactor{
		ctx:    ctx,
		conMap: map[common.Address]Contract{},
	}
}

func exportedName(MethodName string) string {
	if MethodName == "" {
		return MethodName
	}
	return strings.ToUpper(MethodName[:1]) + MethodName[1:]
}

func (i *interactor) Exec(Cc *ContractContext, ContAddr common.Address, MethodName string, Args []interface{}) ([]interface{}, error) {
	if MethodName == "" {
		return nil, errors.WithStack(ErrMethodNotGiven)
	}
	if !i.ctx.IsContract(ContAddr) {
		return nil, errors.Wrap(ErrNotExistContract, ContAddr.String())
	}
	if Cc.depth+1 > MaxCallDepth {
		return nil, errors.WithStack(ErrCallDepthExceeded)
	}
	if liveUntil, has := i.ctx.LiveUntil(ContAddr); has && i.ctx.ledger.Sequence > liveUntil {
		return nil, errors.Wrapf(ErrArchivedContract, "%v live until %v", ContAddr.String(), liveUntil)
	}
	cont, err := i.getContract(ContAddr)
	if err != nil {
		return nil, err
	}
	MethodName = exportedName(MethodName)
	ecc := &ContractContext{
		cont:   ContAddr,
		from:   Cc.cont,
		method: MethodName,
		depth:  Cc.depth + 1,
		ctx:    i.ctx,
		Exec:   i.Exec,
	}
	result, err := _exec(ecc, cont, MethodName, Args)
	if err != nil {
		logger().Debug("call failed",
			zap.String("contract", ContAddr.String()),
			zap.String("method", MethodName),
			zap.Int("depth", ecc.depth),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}

func (i *interactor) getContract(Addr common.Address) (Contract, error) {
	if cont, has := i.conMap[Addr]; has {
		return cont, nil
	}
	cont, err := i.ctx.Contract(Addr)
	if err != nil {
		return nil, err
	}
	i.conMap[Addr] = cont
	return cont, nil
}

func _exec(ecc *ContractContext, cont Contract, MethodName string, Args []interface{}) (result []interface{}, err error) {
	ContAddr := cont.Address()
	rMethod, err := contractMethod(cont.Front(), ContAddr, MethodName)
	if err != nil {
		return nil, err
	}

	in, err := ContractInputsConv(Args, rMethod)
	if err != nil {
		return nil, errors.Wrapf(err, "call %v of %v", MethodName, ContAddr.String())
	}
	in = append([]reflect.Value{reflect.ValueOf(ecc)}, in...)

	sn := ecc.ctx.Snapshot()
	vs, err := func() (vs []reflect.Value, err error) {
		defer func() {
			if v := recover(); v != nil {
				err = errors.Errorf("occur error call method(%v) of contract(%v) message: %v", MethodName, ContAddr.String(), v)
			}
		}()
		return rMethod.Call(in), nil
	}()
	if err != nil {
		ecc.ctx.Revert(sn)
		return nil, err
	}

	result, err = getResults(rMethod.Type(), vs)
	if err != nil {
		ecc.ctx.Revert(sn)
		return nil, err
	}
	ecc.ctx.Commit(sn)
	return result, nil
}

func contractMethod(cont interface{}, addr common.Address, MethodName string) (reflect.Value, error) {
	vo := reflect.ValueOf(cont)
	if !vo.IsValid() {
		return reflect.Value{}, errors.New("wrong contract")
	}
	if vo.Kind() == reflect.Ptr && vo.IsNil() {
		return reflect.Value{}, errors.New("nil contract")
	}
	method := vo.MethodByName(MethodName)
	if !method.IsValid() {
		return reflect.Value{}, errors.New("method not exist: " + MethodName + " cont " + addr.String())
	}
	mt := method.Type()
	if mt.NumIn() < 1 || mt.In(0) != reflect.TypeOf(&ContractContext{}) {
		return reflect.Value{}, errors.New("method not callable: " + MethodName + " cont " + addr.String())
	}
	return method, nil
}

func getResults(mType reflect.Type, vs []reflect.Value) (result []interface{}, err error) {
	result = []interface{}{}
	for i, v := range vs {
		if mType.Out(i) == errType {
			if !v.IsNil() {
				err = v.Interface().(error)
			}
			continue
		}
		result = append(result, v.Interface())
	}
	return result, err
}

// ContractInputsConv converts call arguments to the parameter types of the method
func ContractInputsConv(Args []interface{}, rMethod reflect.Value) ([]reflect.Value, error) {
	mt := rMethod.Type()
	if mt.NumIn() < 1 {
		return nil, errors.New("not found")
	}
	if mt.NumIn() != len(Args)+1 {
		return nil, errors.Errorf("invalid inputs count got %v want %v", len(Args), mt.NumIn()-1)
	}
	in := make([]reflect.Value, len(Args))
	for i, v := range Args {
		mType := mt.In(i + 1)
		param, err := convertParam(v, mType)
		if err != nil {
			return nil, errors.Wrapf(err, "input %v", i)
		}
		in[i] = param
	}
	return in, nil
}

func convertParam(v interface{}, mType reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(mType), nil
	}
	param := reflect.ValueOf(v)
	if param.Type() == mType {
		return param, nil
	}
	if param.Type().AssignableTo(mType) {
		p := reflect.New(mType).Elem()
		p.Set(param)
		return p, nil
	}
	if isIntegerKind(param.Kind()) && isIntegerKind(mType.Kind()) {
		return param.Convert(mType), nil
	}

	switch pv := v.(type) {
	case *big.Int:
		switch {
		case mType == amountType:
			return reflect.ValueOf(&amount.Amount{Int: new(big.Int).Set(pv)}), nil
		case isIntegerKind(mType.Kind()):
			return reflect.ValueOf(pv.Int64()).Convert(mType), nil
		case mType == addressType:
			return reflect.ValueOf(common.BigToAddress(pv)), nil
		case mType == hashType:
			return reflect.ValueOf(hash.BigToHash(pv)), nil
		}
	case *amount.Amount:
		switch {
		case mType == bigIntType:
			return reflect.ValueOf(new(big.Int).Set(pv.Int)), nil
		case mType.Kind() == reflect.String:
			return reflect.ValueOf(pv.String()), nil
		}
	case []interface{}:
		if mType.Kind() == reflect.Slice {
			list := reflect.MakeSlice(mType, 0, len(pv))
			for _, t := range pv {
				e, err := convertParam(t, mType.Elem())
				if err != nil {
					return reflect.Value{}, err
				}
				list = reflect.Append(list, e)
			}
			return list, nil
		}
	case string:
		switch {
		case mType == boolType:
			return reflect.ValueOf(strings.ToLower(pv) == "true"), nil
		case mType == addressType:
			addr, err := common.ParseAddress(pv)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(addr), nil
		case mType == hashType:
			h, err := hash.ParseHash(pv)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(h), nil
		case mType == amountType:
			if am, err := amount.ParseAmount(pv); err == nil {
				return reflect.ValueOf(am), nil
			}
			bi, ok := new(big.Int).SetString(strings.TrimPrefix(pv, "0x"), 16)
			if ok && strings.HasPrefix(pv, "0x") {
				return reflect.ValueOf(&amount.Amount{Int: bi}), nil
			}
		case mType == bytesType:
			if bs, err := hex.DecodeString(strings.TrimPrefix(pv, "0x")); err == nil {
				return reflect.ValueOf(bs), nil
			}
		case mType == bigIntType || isIntegerKind(mType.Kind()):
			bi, ok := new(big.Int).SetString(pv, 0)
			if ok {
				if mType == bigIntType {
					return reflect.ValueOf(bi), nil
				}
				return reflect.ValueOf(bi.Int64()).Convert(mType), nil
			}
		}
	case []byte:
		switch {
		case mType == hashType:
			var h hash.Hash256
			copy(h[:], pv)
			return reflect.ValueOf(h), nil
		case mType == addressType:
			return reflect.ValueOf(common.BytesToAddress(pv)), nil
		case mType == amountType:
			return reflect.ValueOf(amount.NewAmountFromBytes(pv)), nil
		case mType == bigIntType:
			return reflect.ValueOf(new(big.Int).SetBytes(pv)), nil
		}
	}
	return reflect.Value{}, errors.Errorf("invalid input type get %v want %v value %v", param.Type(), mType, fmt.Sprint(v))
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

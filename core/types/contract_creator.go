package types

import (
	"reflect"
	"sync"

	"github.com/hoops-finance/hoops/common/hash"
	"github.com/pkg/errors"
)

var (
	gContractTypeLock sync.RWMutex
	gContractTypeMap  = map[uint64]reflect.Type{}
	gContractNameMap  = map[uint64]string{}
)

// ContractClassID returns the class id of the contract type without registering it
func ContractClassID(cont Contract) uint64 {
	return hash.Uint64([]byte(contractTypeName(cont)))
}

func contractTypeName(cont Contract) string {
	rt := reflect.TypeOf(cont)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	name := rt.Name()
	if pkgPath := rt.PkgPath(); len(pkgPath) > 0 {
		name = pkgPath + "." + name
	}
	return name
}

// RegisterContractType adds the contract type to the class registry.
// Registering the same type twice returns the same class id.
func RegisterContractType(cont Contract) (uint64, error) {
	rt := reflect.TypeOf(cont)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	name := contractTypeName(cont)
	ClassID := hash.Uint64([]byte(name))

	gContractTypeLock.Lock()
	defer gContractTypeLock.Unlock()

	if v, has := gContractNameMap[ClassID]; has {
		if name != v {
			return 0, errors.WithStack(ErrExistContractType)
		}
		return ClassID, nil
	}
	gContractNameMap[ClassID] = name
	gContractTypeMap[ClassID] = rt
	return ClassID, nil
}

// CreateContract returns a new instance bound to the define
func CreateContract(cd *ContractDefine) (Contract, error) {
	gContractTypeLock.RLock()
	rt, has := gContractTypeMap[cd.ClassID]
	gContractTypeLock.RUnlock()
	if !has {
		return nil, errors.WithStack(ErrInvalidClassID)
	}
	cont := reflect.New(rt).Interface().(Contract)
	cont.Init(cd.Address, cd.Owner)
	return cont, nil
}

func IsValidClassID(ClassID uint64) bool {
	gContractTypeLock.RLock()
	defer gContractTypeLock.RUnlock()
	_, has := gContractTypeMap[ClassID]
	return has
}

func ContractName(ClassID uint64) string {
	gContractTypeLock.RLock()
	defer gContractTypeLock.RUnlock()
	return gContractNameMap[ClassID]
}

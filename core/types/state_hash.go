package types

import (
	"bytes"
	"encoding/hex"
	"strconv"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/common/hash"
	"github.com/tidwall/btree"
)

const stateTreeDegree = 32

type stateItem struct {
	key   string
	value []byte
}

func (si *stateItem) Less(item btree.Item, ctx interface{}) bool {
	return si.key < item.(*stateItem).key
}

// stateTree returns the flattened view of every snapshot ordered by key
func (ctx *Context) stateTree() *btree.BTree {
	tr := btree.New(stateTreeDegree, nil)
	for _, ctd := range ctx.stack {
		for addr, cd := range ctd.ContractDefineMap {
			tr.ReplaceOrInsert(&stateItem{
				key:   "c" + string(addr[:]),
				value: bin.MustWriterToBytes(cd),
			})
		}
		for addr, seq := range ctd.TTLMap {
			tr.ReplaceOrInsert(&stateItem{
				key:   "t" + string(addr[:]),
				value: bin.Uint32Bytes(seq),
			})
		}
		for key, value := range ctd.DataMap {
			tr.ReplaceOrInsert(&stateItem{
				key:   "d" + key,
				value: value,
			})
		}
		for key := range ctd.DeletedDataMap {
			tr.Delete(&stateItem{key: "d" + key})
		}
	}
	return tr
}

// StateHash returns the keccak256 of the ordered state, equal states give equal hashes
func (ctx *Context) StateHash() hash.Hash256 {
	var buffer bytes.Buffer
	ctx.stateTree().Ascend(func(item btree.Item) bool {
		si := item.(*stateItem)
		buffer.Write(bin.Uint32Bytes(uint32(len(si.key))))
		buffer.WriteString(si.key)
		buffer.Write(bin.Uint32Bytes(uint32(len(si.value))))
		buffer.Write(si.value)
		return true
	})
	return hash.Hash(buffer.Bytes())
}

// ContractKeys returns the stored data keys of the contract in order
func (ctx *Context) ContractKeys(cont common.Address) [][]byte {
	keys := [][]byte{}
	prefix := "d" + string(cont[:])
	ctx.stateTree().AscendGreaterOrEqual(&stateItem{key: prefix}, func(item btree.Item) bool {
		si := item.(*stateItem)
		if len(si.key) < len(prefix) || si.key[:len(prefix)] != prefix {
			return false
		}
		keys = append(keys, []byte(si.key[len(prefix):]))
		return true
	})
	return keys
}

// Dump prints the ordered state
func (ctx *Context) Dump() string {
	var buffer bytes.Buffer
	buffer.WriteString("Ledger\n")
	buffer.WriteString(strconv.FormatUint(uint64(ctx.ledger.Sequence), 10))
	buffer.WriteString(":")
	buffer.WriteString(strconv.FormatUint(ctx.ledger.Timestamp, 10))
	buffer.WriteString("\n")
	ctx.stateTree().Ascend(func(item btree.Item) bool {
		si := item.(*stateItem)
		buffer.WriteString(hex.EncodeToString([]byte(si.key)))
		buffer.WriteString(":")
		buffer.WriteString(hash.Hash(si.value).String())
		buffer.WriteString("\n")
		return true
	})
	return buffer.String()
}

package types

import (
	"github.com/hoops-finance/hoops/common"
)

// Event is a contract event in emission order
type Event struct {
	Index    uint32         `json:"index"`
	Ledger   uint32         `json:"ledger"`
	Contract common.Address `json:"contract"`
	Topics   []string       `json:"topics"`
	Data     []interface{}  `json:"data"`
}

// HasTopic returns the event carries the topic at the position
func (e *Event) HasTopic(pos int, topic string) bool {
	return pos < len(e.Topics) && e.Topics[pos] == topic
}

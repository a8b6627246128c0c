package types

import (
	"errors"

	"github.com/Near-One/rainbow-bridge-sub000/common"
	"github.com/Near-One/rainbow-bridge-sub000/rlp"
)

// ErrMalformedLog is returned when a log entry's RLP does not decode to
// the [address, topics[], data] shape required by spec.md §6.
var ErrMalformedLog = errors.New("types: malformed log entry")

// Log is an Ethereum event log entry: RLP of [address, topics[], data].
type Log struct {
	Address common.H160
	Topics  []common.H256
	Data    []byte
}

// EncodeRLP returns the canonical RLP encoding of the log.
func (l *Log) EncodeRLP() []byte {
	topics := make([][]byte, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = rlp.EncodeBytes(t.Bytes())
	}
	return rlp.EncodeList(
		rlp.EncodeBytes(l.Address.Bytes()),
		rlp.EncodeList(topics...),
		rlp.EncodeBytes(l.Data),
	)
}

// DecodeLogRLP decodes a single log entry.
func DecodeLogRLP(raw []byte) (*Log, error) {
	item, err := rlp.DecodeAll(raw)
	if err != nil {
		return nil, errors.Join(ErrMalformedLog, err)
	}
	return decodeLogItem(item)
}

func decodeLogItem(item *rlp.Item) (*Log, error) {
	elems, err := item.Elems()
	if err != nil || len(elems) != 3 {
		return nil, ErrMalformedLog
	}
	addrB, err := elems[0].Bytes()
	if err != nil {
		return nil, errors.Join(ErrMalformedLog, err)
	}
	topicElems, err := elems[1].Elems()
	if err != nil {
		return nil, errors.Join(ErrMalformedLog, err)
	}
	topics := make([]common.H256, len(topicElems))
	for i, te := range topicElems {
		tb, err := te.Bytes()
		if err != nil {
			return nil, errors.Join(ErrMalformedLog, err)
		}
		topics[i] = common.BytesToH256(tb)
	}
	data, err := elems[2].Bytes()
	if err != nil {
		return nil, errors.Join(ErrMalformedLog, err)
	}
	return &Log{
		Address: common.BytesToH160(addrB),
		Topics:  topics,
		Data:    data,
	}, nil
}

// Equal reports deep equality between two logs, used by verify_log_entry
// to assert receipt.logs[log_index] == log (spec.md §4.G).
func (l *Log) Equal(other *Log) bool {
	if l.Address != other.Address || len(l.Topics) != len(other.Topics) {
		return false
	}
	for i := range l.Topics {
		if l.Topics[i] != other.Topics[i] {
			return false
		}
	}
	return string(l.Data) == string(other.Data)
}

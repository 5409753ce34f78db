package batch

import (
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/tendermint/tendermint/libs/common"

	"github.com/zcombinatorio/squads"
)

// Decorator unpacks a batch transaction and passes its messages down the
// stack one by one. Non-batch transactions pass through untouched.
type Decorator struct {
}

var _ squads.Decorator = Decorator{}

// NewDecorator returns a batch transaction decorator.
func NewDecorator() Decorator {
	return Decorator{}
}

// batchTx presents one embedded message as the transaction's own, keeping
// the original transaction's signatures visible to the stack below.
type batchTx struct {
	squads.Tx
	msg squads.Msg
}

func (tx *batchTx) GetMsg() (squads.Msg, error) {
	return tx.msg, nil
}

func (d Decorator) Check(ctx squads.Context, store squads.KVStore, tx squads.Tx, next squads.Checker) (*squads.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	batchMsg, ok := msg.(*ExecuteBatchMsg)
	if !ok {
		return next.Check(ctx, store, tx)
	}
	if err := batchMsg.Validate(); err != nil {
		return nil, err
	}

	checks := make([]*squads.CheckResult, len(batchMsg.Messages))
	for i, m := range batchMsg.Messages {
		checks[i], err = next.Check(ctx, store, &batchTx{Tx: tx, msg: m})
		if err != nil {
			return nil, err
		}
	}
	return combineChecks(checks)
}

func (d Decorator) Deliver(ctx squads.Context, store squads.KVStore, tx squads.Tx, next squads.Deliverer) (*squads.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	batchMsg, ok := msg.(*ExecuteBatchMsg)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}
	if err := batchMsg.Validate(); err != nil {
		return nil, err
	}

	delivers := make([]*squads.DeliverResult, len(batchMsg.Messages))
	for i, m := range batchMsg.Messages {
		delivers[i], err = next.Deliver(ctx, store, &batchTx{Tx: tx, msg: m})
		if err != nil {
			return nil, err
		}
	}
	return combineDelivers(delivers)
}

// combineChecks merges the per-message results: data bytes as an encoded
// array, logs joined by newlines, gas summed.
func combineChecks(checks []*squads.CheckResult) (*squads.CheckResult, error) {
	datas := make([][]byte, len(checks))
	logs := make([]string, len(checks))
	var allocated int64
	for i, r := range checks {
		datas[i] = r.Data
		logs[i] = r.Log
		allocated += r.GasAllocated
	}
	data, err := bin.MarshalBorsh(&datas)
	if err != nil {
		return nil, err
	}
	return &squads.CheckResult{
		Data:         data,
		Log:          strings.Join(logs, "\n"),
		GasAllocated: allocated,
	}, nil
}

// combineDelivers merges the per-message results the same way, and
// concatenates the tags.
func combineDelivers(delivers []*squads.DeliverResult) (*squads.DeliverResult, error) {
	datas := make([][]byte, len(delivers))
	logs := make([]string, len(delivers))
	var used int64
	var tags []common.KVPair
	for i, r := range delivers {
		datas[i] = r.Data
		logs[i] = r.Log
		used += r.GasUsed
		tags = append(tags, r.Tags...)
	}
	data, err := bin.MarshalBorsh(&datas)
	if err != nil {
		return nil, err
	}
	return &squads.DeliverResult{
		Data:    data,
		Log:     strings.Join(logs, "\n"),
		GasUsed: used,
		Tags:    tags,
	}, nil
}

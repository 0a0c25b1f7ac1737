package utils

import (
	"github.com/iov-one/safepay"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key holding the message path of a delivered
// transaction. Clients subscribe to "action='grant/complete'" to follow
// completed grants.
const ActionKey = "action"

// ActionTagger tags every successful delivery with its message path.
type ActionTagger struct{}

var _ safepay.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Checker) (*safepay.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Deliverer) (*safepay.DeliverResult, error) {
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	tag := common.KVPair{Key: []byte(ActionKey), Value: []byte(safepay.GetPath(tx))}
	res.Tags = append(res.Tags, tag)
	return res, nil
}

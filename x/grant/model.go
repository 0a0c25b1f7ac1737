package grant

import (
	"fmt"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/orm"
)

// BucketName is where grants are stored.
const BucketName = "grant"

// Stage of a grant lifecycle.
//
//   Uninitialized -> Funded -> Completed
//                           -> Cancelled
type Stage int32

const (
	Uninitialized Stage = 0
	Funded        Stage = 1
	Completed     Stage = 2
	Cancelled     Stage = 3
)

var stageNames = map[Stage]string{
	Uninitialized: "uninitialized",
	Funded:        "funded",
	Completed:     "completed",
	Cancelled:     "cancelled",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Stage(%d)", int32(s))
}

// Terminal returns true for stages no operation can leave.
func (s Stage) Terminal() bool {
	return s == Completed || s == Cancelled
}

// Grant is the record of a single escrow. It is stored under the derived
// state address and kept after reaching a terminal stage, so that the unique
// index cannot be used again.
type Grant struct {
	Metadata    *safepay.Metadata `json:"metadata"`
	UID         uint64            `json:"uid"`
	Sender      safepay.Address   `json:"sender"`
	Receiver    safepay.Address   `json:"receiver"`
	Mint        safepay.Address   `json:"mint"`
	Escrow      safepay.Address   `json:"escrow"`
	Amount      uint64            `json:"amount"`
	Stage       Stage             `json:"stage"`
	StateProof  uint8             `json:"state_proof"`
	EscrowProof uint8             `json:"escrow_proof"`
}

var _ orm.Model = (*Grant)(nil)

func (g *Grant) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", g.Metadata.Validate())
	errs = errors.AppendField(errs, "Sender", g.Sender.Validate())
	errs = errors.AppendField(errs, "Receiver", g.Receiver.Validate())
	errs = errors.AppendField(errs, "Mint", g.Mint.Validate())
	errs = errors.AppendField(errs, "Escrow", g.Escrow.Validate())
	if g.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", ErrInvalidAmount, "must be positive"))
	}
	if _, ok := stageNames[g.Stage]; !ok || g.Stage == Uninitialized {
		errs = errors.Append(errs, errors.Field("Stage", ErrWrongStage, "cannot store %s", g.Stage))
	}
	return errs
}

func (g *Grant) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(g)
}

func (g *Grant) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, g)
}

// AsGrant will safely type-cast any value from Bucket to a Grant.
func AsGrant(obj orm.Object) *Grant {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Grant)
}

// Bucket stores grants indexed by sender and receiver.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket for storing Grant entities.
func NewBucket() *Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Grant{})).
		WithIndex("sender", senderIndex, false).
		WithIndex("receiver", receiverIndex, false)
	return &Bucket{Bucket: b}
}

func senderIndex(obj orm.Object) ([]byte, error) {
	g := AsGrant(obj)
	if g == nil {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return g.Sender, nil
}

func receiverIndex(obj orm.Object) ([]byte, error) {
	g := AsGrant(obj)
	if g == nil {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return g.Receiver, nil
}

// GetGrant returns the grant stored under the state address. ErrNotFound is
// returned if there is none.
func (b *Bucket) GetGrant(db safepay.ReadOnlyKVStore, state safepay.Address) (*Grant, error) {
	obj, err := b.Get(db, state)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "grant %s", state)
	}
	return AsGrant(obj), nil
}

// Put saves the grant under the state address.
func (b *Bucket) Put(db safepay.KVStore, state safepay.Address, g *Grant) error {
	return b.Save(db, orm.NewSimpleObj(state, g))
}

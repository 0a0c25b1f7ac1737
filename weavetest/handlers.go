package weavetest

import "github.com/iov-one/safepay"

// Handler is a mock implementation of the safepay.Handler interface.
//
// Each method call is counted. Set CheckErr or DeliverErr to force an error
// response.
type Handler struct {
	calls

	CheckResult safepay.CheckResult
	CheckErr    error

	DeliverResult safepay.DeliverResult
	DeliverErr    error
}

var _ safepay.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	h.check++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	h.deliver++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// WriteHandler writes a key value pair to the store on every call and then
// returns Err. It is used to test that failed transactions are rolled back.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ safepay.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &safepay.CheckResult{}, h.Err
}

func (h *WriteHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &safepay.DeliverResult{}, h.Err
}

// PanicHandler panics on every call.
type PanicHandler struct {
	Msg string
}

var _ safepay.Handler = (*PanicHandler)(nil)

func (h *PanicHandler) Check(safepay.Context, safepay.KVStore, safepay.Tx) (*safepay.CheckResult, error) {
	panic(h.Msg)
}

func (h *PanicHandler) Deliver(safepay.Context, safepay.KVStore, safepay.Tx) (*safepay.DeliverResult, error) {
	panic(h.Msg)
}

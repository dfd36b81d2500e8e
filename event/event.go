package event

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/mixin-sdk-go"
	"github.com/gofrs/uuid"
)

const (
	KindMint                 = "Mint"
	KindTransfer             = "Transfer"
	KindApproval             = "Approval"
	KindApprovalForAll       = "ApprovalForAll"
	KindTokenURI             = "TokenURI"
	KindRedeem               = "Redeem"
	KindWithdraw             = "Withdraw"
	KindPaused               = "Paused"
	KindUnpaused             = "Unpaused"
	KindOwnershipTransferred = "OwnershipTransferred"

	KindNewListing         = "NewListing"
	KindListingPriceChange = "ListingPriceChange"
	KindCancelledListing   = "CancelledListing"
	KindPurchasedListing   = "PurchasedListing"
)

// Event is the structured record an operation leaves for off-chain indexers.
// Field meaning depends on Kind, e.g. a PurchasedListing carries the buyer in
// From and the seller in To. Approved is only meaningful for ApprovalForAll.
type Event struct {
	Sequence  uint64
	TraceId   uuid.UUID
	Contract  common.Address
	Kind      string
	TokenId   uint64
	From      common.Address
	To        common.Address
	Amount    *big.Int
	Currency  common.Address
	URI       string
	Approved  bool
	CreatedAt time.Time
}

type Log interface {
	WriteEvent(ev *Event) error
}

// Seal assigns the log position and the trace id derived from it, so the
// same history always yields the same trace ids.
func (ev *Event) Seal(seq uint64) {
	ev.Sequence = seq
	id := mixin.UniqueConversationID(ev.Contract.Hex(), fmt.Sprintf("%s:%d", ev.Kind, seq))
	ev.TraceId = uuid.FromStringOrNil(id)
}

func (ev *Event) String() string {
	if ev.Kind == KindApprovalForAll {
		return fmt.Sprintf("%d %s %s from=%s to=%s approved=%t", ev.Sequence, ev.Kind, ev.Contract.Hex(), ev.From.Hex(), ev.To.Hex(), ev.Approved)
	}
	return fmt.Sprintf("%d %s %s token=%d from=%s to=%s amount=%v", ev.Sequence, ev.Kind, ev.Contract.Hex(), ev.TokenId, ev.From.Hex(), ev.To.Hex(), ev.Amount)
}

package nft

import (
	"github.com/MixinNetwork/bnft/event"
	"github.com/MixinNetwork/bnft/fault"
	"github.com/ethereum/go-ethereum/common"
)

func (r *Registry) Approve(st State, caller, to common.Address, id uint64) error {
	t, err := r.Token(st, id)
	if err != nil {
		return err
	}
	if to == t.Owner {
		return fault.Invalid("approval to current owner")
	}
	if caller != t.Owner {
		ok, err := st.ReadOperator(t.Owner, caller)
		if err != nil {
			return err
		}
		if !ok {
			return fault.Unauthorized("approve caller %s is not owner nor approved for all", caller.Hex())
		}
	}
	t.Approved = to
	err = st.WriteToken(t)
	if err != nil {
		return err
	}
	return r.emit(st, &event.Event{Kind: event.KindApproval, TokenId: id, From: t.Owner, To: to})
}

func (r *Registry) SetApprovalForAll(st State, caller, operator common.Address, approved bool) error {
	if operator == caller {
		return fault.Invalid("approve to caller")
	}
	err := st.WriteOperator(caller, operator, approved)
	if err != nil {
		return err
	}
	return r.emit(st, &event.Event{Kind: event.KindApprovalForAll, From: caller, To: operator, Approved: approved})
}

func (r *Registry) GetApproved(st State, id uint64) (common.Address, error) {
	t, err := r.Token(st, id)
	if err != nil {
		return common.Address{}, err
	}
	return t.Approved, nil
}

func (r *Registry) IsApprovedForAll(st State, owner, operator common.Address) (bool, error) {
	return st.ReadOperator(owner, operator)
}

func (r *Registry) IsApprovedOrOwner(st State, spender common.Address, id uint64) (bool, error) {
	t, err := r.Token(st, id)
	if err != nil {
		return false, err
	}
	if spender == (common.Address{}) {
		return false, nil
	}
	if spender == t.Owner || spender == t.Approved {
		return true, nil
	}
	return st.ReadOperator(t.Owner, spender)
}

// TransferFrom moves a token on behalf of caller, who must be the owner,
// the approved address or an operator of the owner. Fails while paused.
func (r *Registry) TransferFrom(st State, caller, from, to common.Address, id uint64) error {
	c, err := r.Collection(st)
	if err != nil {
		return err
	}
	if c.Paused {
		return fault.New(fault.State, "token transfer while paused")
	}
	t, err := r.Token(st, id)
	if err != nil {
		return err
	}
	if t.Owner != from {
		return fault.Invalid("transfer of token %d from incorrect owner %s", id, from.Hex())
	}
	if to == (common.Address{}) {
		return fault.Invalid("transfer to the zero address")
	}
	ok, err := r.IsApprovedOrOwner(st, caller, id)
	if err != nil {
		return err
	}
	if !ok {
		return fault.Unauthorized("transfer caller %s is not owner nor approved", caller.Hex())
	}

	err = st.DeleteOwnerToken(from, id)
	if err != nil {
		return err
	}
	err = st.WriteOwnerToken(to, id)
	if err != nil {
		return err
	}
	t.Owner = to
	t.Approved = common.Address{}
	err = st.WriteToken(t)
	if err != nil {
		return err
	}
	return r.emit(st, &event.Event{Kind: event.KindTransfer, TokenId: id, From: from, To: to})
}

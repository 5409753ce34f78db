/*
Package client builds well-formed engine requests for external callers.
Every operation has one constructor returning the request object and the
addresses it will touch, so a caller can sign and submit without knowing
how the engine derives or stores anything.
*/
package client

import (
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/app"
	"github.com/zcombinatorio/squads/crypto"
	"github.com/zcombinatorio/squads/derive"
	"github.com/zcombinatorio/squads/x/batch"
	"github.com/zcombinatorio/squads/x/proposal"
	"github.com/zcombinatorio/squads/x/registry"
	"github.com/zcombinatorio/squads/x/sigs"
	"github.com/zcombinatorio/squads/x/spendlimit"
	"github.com/zcombinatorio/squads/x/vaulttx"
)

// Request is one operation, ready to sign. Touches lists every derived
// address the operation will read or write, so a caller can display the
// affected accounts or fetch them up front.
type Request struct {
	Tx      *app.Tx
	Touches []solana.PublicKey
}

// Sign adds a signature bound to the given chain and the signer's current
// sequence. Call once per signer; the private key never leaves the
// signer.
func (r *Request) Sign(signer crypto.Signer, chainID string, sequence uint64) error {
	sig, err := sigs.SignTx(signer, r.Tx, chainID, sequence)
	if err != nil {
		return err
	}
	r.Tx.Signatures = append(r.Tx.Signatures, sig)
	return nil
}

func request(msg squads.Msg, touches ...solana.PublicKey) (*Request, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &Request{
		Tx:      &app.Tx{Msg: msg},
		Touches: touches,
	}, nil
}

// CreateRegistry builds the request establishing a new member registry.
// The create key must co-sign the request.
func CreateRegistry(msg *registry.CreateMsg) (*Request, error) {
	addr, _, err := derive.Registry(derive.ProgramID, msg.CreateKey)
	if err != nil {
		return nil, err
	}
	return request(msg, addr)
}

// AddMember builds a request adding one member.
func AddMember(reg solana.PublicKey, member registry.Member) (*Request, error) {
	return request(&registry.AddMemberMsg{Registry: reg, NewMember: member}, reg)
}

// RemoveMember builds a request removing one member.
func RemoveMember(reg, key solana.PublicKey) (*Request, error) {
	return request(&registry.RemoveMemberMsg{Registry: reg, Key: key}, reg)
}

// ChangeThreshold builds a request setting a new approval threshold.
func ChangeThreshold(reg solana.PublicKey, threshold uint16) (*Request, error) {
	return request(&registry.ChangeThresholdMsg{Registry: reg, Threshold: threshold}, reg)
}

// SetConfigAuthority builds a request handing configuration control to a
// new key. The zero key makes the registry autonomous, permanently.
func SetConfigAuthority(reg, newAuthority solana.PublicKey) (*Request, error) {
	return request(&registry.SetConfigAuthorityMsg{Registry: reg, NewAuthority: newAuthority}, reg)
}

// SetTimeLock builds a request setting the execution delay in seconds.
func SetTimeLock(reg solana.PublicKey, seconds uint32) (*Request, error) {
	return request(&registry.SetTimeLockMsg{Registry: reg, TimeLock: seconds}, reg)
}

// SetRentCollector builds a request setting or clearing the account that
// receives storage deposits of closed accounts.
func SetRentCollector(reg solana.PublicKey, collector *solana.PublicKey) (*Request, error) {
	return request(&registry.SetRentCollectorMsg{Registry: reg, RentCollector: collector}, reg)
}

// CreateTransaction builds a request storing a compiled transaction under
// the registry's next free index. The caller passes the index it read
// from the registry, so Touches can name the claimed addresses.
func CreateTransaction(msg *vaulttx.CreateMsg, nextIndex uint64) (*Request, error) {
	txAddr, _, err := derive.Transaction(derive.ProgramID, msg.Registry, nextIndex)
	if err != nil {
		return nil, err
	}
	vaultAddr, _, err := derive.Vault(derive.ProgramID, msg.Registry, msg.VaultIndex)
	if err != nil {
		return nil, err
	}
	return request(msg, msg.Registry, txAddr, vaultAddr)
}

// CreateProposal builds a request opening the voting record for a stored
// transaction.
func CreateProposal(reg solana.PublicKey, txIndex uint64, draft bool) (*Request, error) {
	propAddr, _, err := derive.Proposal(derive.ProgramID, reg, txIndex)
	if err != nil {
		return nil, err
	}
	return request(&proposal.CreateMsg{Registry: reg, TransactionIndex: txIndex, Draft: draft}, reg, propAddr)
}

// Activate builds a request opening a draft proposal for voting.
func Activate(reg solana.PublicKey, txIndex uint64) (*Request, error) {
	propAddr, _, err := derive.Proposal(derive.ProgramID, reg, txIndex)
	if err != nil {
		return nil, err
	}
	return request(&proposal.ActivateMsg{Registry: reg, TransactionIndex: txIndex}, reg, propAddr)
}

// Approve builds an approve vote request.
func Approve(reg solana.PublicKey, txIndex uint64, memo string) (*Request, error) {
	propAddr, _, err := derive.Proposal(derive.ProgramID, reg, txIndex)
	if err != nil {
		return nil, err
	}
	return request(&proposal.ApproveMsg{Registry: reg, TransactionIndex: txIndex, Memo: memo}, reg, propAddr)
}

// Reject builds a reject vote request.
func Reject(reg solana.PublicKey, txIndex uint64, memo string) (*Request, error) {
	propAddr, _, err := derive.Proposal(derive.ProgramID, reg, txIndex)
	if err != nil {
		return nil, err
	}
	return request(&proposal.RejectMsg{Registry: reg, TransactionIndex: txIndex, Memo: memo}, reg, propAddr)
}

// Cancel builds a cancel vote request against an approved proposal.
func Cancel(reg solana.PublicKey, txIndex uint64, memo string) (*Request, error) {
	propAddr, _, err := derive.Proposal(derive.ProgramID, reg, txIndex)
	if err != nil {
		return nil, err
	}
	return request(&proposal.CancelMsg{Registry: reg, TransactionIndex: txIndex, Memo: memo}, reg, propAddr)
}

// Execute builds a request running an approved transaction. Touches
// includes the vault the stored message spends from.
func Execute(reg solana.PublicKey, txIndex uint64, vaultIndex uint8) (*Request, error) {
	txAddr, _, err := derive.Transaction(derive.ProgramID, reg, txIndex)
	if err != nil {
		return nil, err
	}
	propAddr, _, err := derive.Proposal(derive.ProgramID, reg, txIndex)
	if err != nil {
		return nil, err
	}
	vaultAddr, _, err := derive.Vault(derive.ProgramID, reg, vaultIndex)
	if err != nil {
		return nil, err
	}
	return request(&vaulttx.ExecuteMsg{Registry: reg, TransactionIndex: txIndex}, reg, txAddr, propAddr, vaultAddr)
}

// CreateSpendingLimit builds a request setting up a pre-authorized
// budget.
func CreateSpendingLimit(msg *spendlimit.CreateMsg) (*Request, error) {
	addr, _, err := derive.SpendingLimit(derive.ProgramID, msg.Registry, msg.CreateKey)
	if err != nil {
		return nil, err
	}
	vaultAddr, _, err := derive.Vault(derive.ProgramID, msg.Registry, msg.VaultIndex)
	if err != nil {
		return nil, err
	}
	return request(msg, msg.Registry, addr, vaultAddr)
}

// RemoveSpendingLimit builds a request deleting a spending limit.
func RemoveSpendingLimit(reg, limit solana.PublicKey) (*Request, error) {
	return request(&spendlimit.RemoveMsg{SpendingLimit: limit}, reg, limit)
}

// Batch combines several requests into one atomic submission, most
// commonly create transaction + create proposal + self-approve. The
// combined request touches the union of the parts.
func Batch(reqs ...*Request) (*Request, error) {
	msg := batch.ExecuteBatchMsg{Messages: make([]squads.Msg, 0, len(reqs))}
	var touches []solana.PublicKey
	seen := make(map[solana.PublicKey]bool)
	for _, r := range reqs {
		msg.Messages = append(msg.Messages, r.Tx.Msg)
		for _, addr := range r.Touches {
			if !seen[addr] {
				seen[addr] = true
				touches = append(touches, addr)
			}
		}
	}
	return request(&msg, touches...)
}

// UseSpendingLimit builds a request drawing from a spending limit.
func UseSpendingLimit(limit, destination solana.PublicKey, amount uint64, memo string) (*Request, error) {
	return request(&spendlimit.UseMsg{
		SpendingLimit: limit,
		Destination:   destination,
		Amount:        amount,
		Memo:          memo,
	}, limit, destination)
}

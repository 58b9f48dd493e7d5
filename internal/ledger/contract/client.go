// Package contract is the real-ledger variant of ledger.Client, talking to the voting
// contract through go-ethereum.
package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"votedesk/internal/ledger"
	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
)

// ErrReadOnly is returned by writes when no signing key was configured.
var ErrReadOnly = dErrors.New(dErrors.CodeLedgerCallFailed, "ledger client has no signing key")

// boundContract is the subset of *bind.BoundContract the client uses.
type boundContract interface {
	Call(opts *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

// chainBackend is the subset of *ethclient.Client needed outside the bound contract.
type chainBackend interface {
	BlockNumber(ctx context.Context) (uint64, error)
	Close()
}

type minedWaiter func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)

// Config selects the node, contract and signing key.
type Config struct {
	RPCURL          string
	ContractAddress string
	PrivateKey      string // hex; empty means read-only
}

// Client implements ledger.Client against a deployed voting contract.
type Client struct {
	contract boundContract
	backend  chainBackend
	opts     *bind.TransactOpts
	wait     minedWaiter
}

// Dial connects to the node and binds the contract. The chain id is read from the node
// to build the keyed transactor.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid contract address")
	}
	parsed, err := abi.JSON(strings.NewReader(votingABI))
	if err != nil {
		return nil, fmt.Errorf("parse voting abi: %w", err)
	}

	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNetworkUnreachable, "dial ledger rpc")
	}

	var opts *bind.TransactOpts
	if cfg.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			eth.Close()
			return nil, fmt.Errorf("invalid ledger private key: %w", err)
		}
		chainID, err := eth.ChainID(ctx)
		if err != nil {
			eth.Close()
			return nil, dErrors.Wrap(err, dErrors.CodeNetworkUnreachable, "read chain id")
		}
		opts, err = bind.NewKeyedTransactorWithChainID(key, chainID)
		if err != nil {
			eth.Close()
			return nil, fmt.Errorf("build transactor: %w", err)
		}
	}

	address := common.HexToAddress(cfg.ContractAddress)
	bound := bind.NewBoundContract(address, parsed, eth, eth, eth)
	wait := func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
		return bind.WaitMined(ctx, eth, tx)
	}
	return newClient(bound, eth, opts, wait), nil
}

func newClient(contract boundContract, backend chainBackend, opts *bind.TransactOpts, wait minedWaiter) *Client {
	return &Client{contract: contract, backend: backend, opts: opts, wait: wait}
}

func (c *Client) Mode() string { return ledger.ModeContract }

func (c *Client) Close() error {
	if c.backend != nil {
		c.backend.Close()
	}
	return nil
}

// Reachable asks the node for its head block.
func (c *Client) Reachable(ctx context.Context) error {
	if _, err := c.backend.BlockNumber(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeNetworkUnreachable, "ledger node unreachable")
	}
	return nil
}

func (c *Client) VerifyUser(ctx context.Context, voter domain.Address) (ledger.Receipt, error) {
	return c.transact(ctx, methodVerifyUser, voter.Common())
}

func (c *Client) ScheduleElection(ctx context.Context, spec ledger.ElectionSpec) (ledger.Receipt, error) {
	return c.transact(ctx, methodScheduleElection,
		new(big.Int).SetUint64(uint64(spec.ID)),
		spec.Name,
		big.NewInt(spec.StartTime),
		big.NewInt(spec.EndTime),
	)
}

func (c *Client) AddCandidate(ctx context.Context, spec ledger.CandidateSpec) (ledger.Receipt, error) {
	return c.transact(ctx, methodAddCandidate,
		new(big.Int).SetUint64(uint64(spec.ElectionID)),
		spec.Name,
		spec.Info,
	)
}

// transact sends the call and blocks until the transaction is mined.
func (c *Client) transact(ctx context.Context, method string, params ...interface{}) (ledger.Receipt, error) {
	if c.opts == nil {
		return ledger.Receipt{}, ErrReadOnly
	}
	opts := *c.opts
	opts.Context = ctx

	tx, err := c.contract.Transact(&opts, method, params...)
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("%s: send transaction: %w", method, err)
	}
	receipt, err := c.wait(ctx, tx)
	if err != nil {
		return ledger.Receipt{TxHash: tx.Hash().Hex()}, fmt.Errorf("%s: wait mined: %w", method, err)
	}
	return ledger.Receipt{
		TxHash:  receipt.TxHash.Hex(),
		Success: receipt.Status == types.ReceiptStatusSuccessful,
	}, nil
}

// Elections walks the contract's election table; ids are 1-based.
func (c *Client) Elections(ctx context.Context) ([]ledger.Election, error) {
	count, err := c.callUint(ctx, methodElectionCount)
	if err != nil {
		return nil, err
	}
	elections := make([]ledger.Election, 0, count)
	for id := uint64(1); id <= count; id++ {
		out, err := c.call(ctx, methodGetElection, new(big.Int).SetUint64(id))
		if err != nil {
			return nil, err
		}
		if len(out) != 3 {
			return nil, errUnexpectedOutput(methodGetElection)
		}
		name, okName := out[0].(string)
		start, okStart := out[1].(*big.Int)
		end, okEnd := out[2].(*big.Int)
		if !okName || !okStart || !okEnd {
			return nil, errUnexpectedOutput(methodGetElection)
		}
		elections = append(elections, ledger.Election{
			ID:        domain.ElectionID(id),
			Name:      name,
			StartTime: start.Int64(),
			EndTime:   end.Int64(),
		})
	}
	return elections, nil
}

func (c *Client) Candidates(ctx context.Context, electionID domain.ElectionID) ([]ledger.Candidate, error) {
	eid := new(big.Int).SetUint64(uint64(electionID))
	count, err := c.callUint(ctx, methodCandidateCount, eid)
	if err != nil {
		return nil, err
	}
	candidates := make([]ledger.Candidate, 0, count)
	for id := uint64(1); id <= count; id++ {
		out, err := c.call(ctx, methodGetCandidate, eid, new(big.Int).SetUint64(id))
		if err != nil {
			return nil, err
		}
		if len(out) != 2 {
			return nil, errUnexpectedOutput(methodGetCandidate)
		}
		name, okName := out[0].(string)
		info, okInfo := out[1].(string)
		if !okName || !okInfo {
			return nil, errUnexpectedOutput(methodGetCandidate)
		}
		candidates = append(candidates, ledger.Candidate{
			ID:         domain.CandidateID(id),
			ElectionID: electionID,
			Name:       name,
			Info:       info,
		})
	}
	return candidates, nil
}

func (c *Client) call(ctx context.Context, method string, params ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return out, nil
}

func (c *Client) callUint(ctx context.Context, method string, params ...interface{}) (uint64, error) {
	out, err := c.call(ctx, method, params...)
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, errUnexpectedOutput(method)
	}
	n, ok := out[0].(*big.Int)
	if !ok || !n.IsUint64() {
		return 0, errUnexpectedOutput(method)
	}
	return n.Uint64(), nil
}

func errUnexpectedOutput(method string) error {
	return errors.New(method + ": unexpected contract output")
}

var _ ledger.Client = (*Client)(nil)

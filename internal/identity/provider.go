package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
)

// WalletProvider is the injected wallet capability. Accounts returns the accounts the
// wallet has authorized for this session, most preferred first.
type WalletProvider interface {
	Accounts(ctx context.Context) ([]string, error)
}

// StaticProvider returns a fixed account list. Used in dummy mode and tests.
type StaticProvider struct {
	accounts []string
}

func NewStaticProvider(accounts ...string) *StaticProvider {
	return &StaticProvider{accounts: accounts}
}

func (p *StaticProvider) Accounts(_ context.Context) ([]string, error) {
	return append([]string(nil), p.accounts...), nil
}

// KeyProvider derives the single account controlled by a local ECDSA key.
type KeyProvider struct {
	address string
}

// NewKeyProvider parses a hex private key, with or without 0x prefix.
func NewKeyProvider(hexKey string) (*KeyProvider, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid wallet private key: %w", err)
	}
	return &KeyProvider{address: crypto.PubkeyToAddress(key.PublicKey).Hex()}, nil
}

func (p *KeyProvider) Accounts(_ context.Context) ([]string, error) {
	return []string{p.address}, nil
}

// rpcMethodNotFound is the JSON-RPC 2.0 code for unknown methods.
const rpcMethodNotFound = -32601

// RPCProvider asks a JSON-RPC wallet endpoint for its accounts. The connection is dialed
// lazily on the first Accounts call and reused until Close.
type RPCProvider struct {
	url string

	mu     sync.Mutex
	client *rpc.Client
}

func NewRPCProvider(url string) *RPCProvider {
	return &RPCProvider{url: url}
}

// Accounts calls eth_requestAccounts, falling back to eth_accounts on wallets that
// do not implement the request flow.
func (p *RPCProvider) Accounts(ctx context.Context) ([]string, error) {
	client, err := p.dial(ctx)
	if err != nil {
		return nil, err
	}

	var accounts []string
	err = client.CallContext(ctx, &accounts, "eth_requestAccounts")
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == rpcMethodNotFound {
		err = client.CallContext(ctx, &accounts, "eth_accounts")
	}
	if err != nil {
		return nil, fmt.Errorf("wallet rpc accounts: %w", err)
	}
	return accounts, nil
}

func (p *RPCProvider) dial(ctx context.Context) (*rpc.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	client, err := rpc.DialContext(ctx, p.url)
	if err != nil {
		return nil, fmt.Errorf("dial wallet rpc: %w", err)
	}
	p.client = client
	return client, nil
}

// Close releases the RPC connection. Safe to call more than once.
func (p *RPCProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
	return nil
}

var (
	_ WalletProvider = (*StaticProvider)(nil)
	_ WalletProvider = (*KeyProvider)(nil)
	_ WalletProvider = (*RPCProvider)(nil)
)

package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"namereg/internal/config"
	"namereg/internal/domain"
	"namereg/internal/domain/entity"
	domainService "namereg/internal/domain/service"
	"namereg/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.Provider = (*Provider)(nil)

// ErrClosed is returned for calls made after the bridge connection went away.
var ErrClosed = fmt.Errorf("%w: wallet connection closed", domain.ErrProviderUnavailable)

const eventBuffer = 16

// Provider speaks EIP-1193 JSON-RPC to a wallet bridge over a websocket. Responses
// are matched to calls by id; notifications become session events.
type Provider struct {
	conn        *websocket.Conn
	logger      *zap.Logger
	callTimeout time.Duration

	nextID  atomic.Uint64
	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[uint64]chan *message

	events    chan entity.SessionEvent
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the wallet bridge at cfg.URL.
func Dial(ctx context.Context, cfg config.ProviderConfig, logger *zap.Logger) (*Provider, error) {
	handshakeTimeout := cfg.HandshakeTimeout
	if handshakeTimeout <= 0 {
		handshakeTimeout = 10 * time.Second
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}

	logger.Debug("Dialing wallet bridge",
		zap.String("url", cfg.URL), zap.Duration("handshakeTimeout", handshakeTimeout))

	conn, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: wallet bridge dial to %s failed: %v",
			apperrors.ErrExternalServiceFailure, cfg.URL, err,
		)
	}

	return newProvider(conn, cfg.GetCallTimeout(), logger), nil
}

func newProvider(conn *websocket.Conn, callTimeout time.Duration, logger *zap.Logger) *Provider {
	p := &Provider{
		conn:        conn,
		logger:      logger.Named("WalletProvider"),
		callTimeout: callTimeout,
		pending:     make(map[uint64]chan *message),
		events:      make(chan entity.SessionEvent, eventBuffer),
		done:        make(chan struct{}),
	}
	go p.readLoop()
	return p
}

// Close tears down the bridge connection. Pending calls fail with ErrClosed.
func (p *Provider) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		err = p.conn.Close()
	})
	return err
}

// Events implements domainService.Provider.
func (p *Provider) Events() <-chan entity.SessionEvent {
	return p.events
}

func (p *Provider) readLoop() {
	defer close(p.events)
	defer p.Close()

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			select {
			case <-p.done:
			default:
				p.logger.Warn("Wallet bridge read failed, disconnecting", zap.Error(err))
			}
			return
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			p.logger.Warn("Dropping malformed bridge message", zap.ByteString("body", data), zap.Error(err))
			continue
		}

		if msg.ID != nil {
			p.deliver(&msg)
			continue
		}
		if msg.Method != "" {
			p.notify(&msg)
		}
	}
}

func (p *Provider) deliver(msg *message) {
	p.pendingMu.Lock()
	ch, ok := p.pending[*msg.ID]
	delete(p.pending, *msg.ID)
	p.pendingMu.Unlock()

	if !ok {
		p.logger.Debug("Response for unknown request id", zap.Uint64("id", *msg.ID))
		return
	}
	ch <- msg
}

func (p *Provider) notify(msg *message) {
	var params []json.RawMessage
	if err := json.Unmarshal(msg.Params, &params); err != nil || len(params) == 0 {
		p.logger.Warn("Dropping notification without params", zap.String("method", msg.Method))
		return
	}

	var ev entity.SessionEvent
	switch msg.Method {
	case "accountsChanged":
		var accounts []string
		if err := json.Unmarshal(params[0], &accounts); err != nil {
			p.logger.Warn("Bad accountsChanged payload", zap.Error(err))
			return
		}
		ev = entity.SessionEvent{Kind: entity.EventAccountsChanged, Accounts: accounts}
	case "chainChanged", "networkChanged":
		var raw string
		if err := json.Unmarshal(params[0], &raw); err != nil {
			p.logger.Warn("Bad chain change payload", zap.String("method", msg.Method), zap.Error(err))
			return
		}
		chainID, err := entity.NormalizeChainID(raw)
		if err != nil {
			p.logger.Warn("Bad chain id in notification", zap.String("chainId", raw), zap.Error(err))
			return
		}
		ev = entity.SessionEvent{Kind: entity.EventChainChanged, ChainID: chainID}
	default:
		p.logger.Debug("Ignoring bridge notification", zap.String("method", msg.Method))
		return
	}

	select {
	case p.events <- ev:
	case <-p.done:
	}
}

// call performs one JSON-RPC round trip. result may be nil when the answer is ignored.
func (p *Provider) call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	if p.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.callTimeout)
		defer cancel()
	}

	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	if params == nil {
		params = []interface{}{}
	}
	id := p.nextID.Add(1)
	payload, err := json.Marshal(request{Jsonrpc: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", apperrors.ErrInternal, method, err)
	}

	ch := make(chan *message, 1)
	p.pendingMu.Lock()
	p.pending[id] = ch
	p.pendingMu.Unlock()
	defer func() {
		p.pendingMu.Lock()
		delete(p.pending, id)
		p.pendingMu.Unlock()
	}()

	p.writeMu.Lock()
	err = p.conn.WriteMessage(websocket.TextMessage, payload)
	p.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", apperrors.ErrExternalServiceFailure, method, err)
	}

	select {
	case msg := <-ch:
		if err := msg.validate(); err != nil {
			return err
		}
		if result == nil || len(msg.Result) == 0 || bytes.Equal(msg.Result, []byte("null")) {
			return nil
		}
		if err := json.Unmarshal(msg.Result, result); err != nil {
			return fmt.Errorf("%w: decode %s result: %v", apperrors.ErrExternalServiceFailure, method, err)
		}
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s: %v", apperrors.ErrTimeout, method, ctx.Err())
		}
		return ctx.Err()
	case <-p.done:
		return ErrClosed
	}
}

// RequestAccounts implements domainService.Provider.
func (p *Provider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.call(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

// ChainID implements domainService.Provider.
func (p *Provider) ChainID(ctx context.Context) (string, error) {
	var raw string
	if err := p.call(ctx, &raw, "eth_chainId"); err != nil {
		return "", err
	}
	return entity.NormalizeChainID(raw)
}

// SwitchChain implements domainService.Provider.
func (p *Provider) SwitchChain(ctx context.Context, chainIDHex string) error {
	return p.call(ctx, nil, "wallet_switchEthereumChain", map[string]string{"chainId": chainIDHex})
}

type txArgs struct {
	From string        `json:"from"`
	To   string        `json:"to"`
	Data hexutil.Bytes `json:"data"`
}

// Call implements domainService.Provider.
func (p *Provider) Call(ctx context.Context, from, to string, data []byte) ([]byte, error) {
	var out hexutil.Bytes
	if err := p.call(ctx, &out, "eth_call", txArgs{From: from, To: to, Data: data}, "latest"); err != nil {
		return nil, err
	}
	return out, nil
}

// SendTransaction implements domainService.Provider.
func (p *Provider) SendTransaction(ctx context.Context, from, to string, data []byte) (string, error) {
	var hash string
	if err := p.call(ctx, &hash, "eth_sendTransaction", txArgs{From: from, To: to, Data: data}); err != nil {
		return "", err
	}
	return hash, nil
}

type receiptJSON struct {
	TransactionHash string         `json:"transactionHash"`
	Status          hexutil.Uint64 `json:"status"`
	BlockNumber     *hexutil.Big   `json:"blockNumber"`
}

// TransactionReceipt implements domainService.Provider.
func (p *Provider) TransactionReceipt(ctx context.Context, txHash string) (*domainService.Receipt, error) {
	var r *receiptJSON
	if err := p.call(ctx, &r, "eth_getTransactionReceipt", txHash); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	receipt := &domainService.Receipt{TxHash: r.TransactionHash, Status: uint64(r.Status)}
	if r.BlockNumber != nil {
		receipt.BlockNumber = r.BlockNumber.ToInt()
	}
	return receipt, nil
}

// Balance implements domainService.Provider.
func (p *Provider) Balance(ctx context.Context, account string) (*big.Int, error) {
	var wei hexutil.Big
	if err := p.call(ctx, &wei, "eth_getBalance", account, "latest"); err != nil {
		return nil, err
	}
	return wei.ToInt(), nil
}

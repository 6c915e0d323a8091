package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"loothound/internal/app/ports"
)

// Client speaks JSON-RPC 2.0 to the game gateway.
type Client struct {
	hc     *client.Client
	url    string
	nextID uint64
}

func NewClient(url string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	hc, err := client.NewClient(
		client.WithDialTimeout(timeout),
		client.WithClientReadTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("new rpc client: %w", err)
	}
	return &Client{hc: hc, url: url}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// RPCError carries the gateway failure verbatim; Message feeds the write
// classification.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc %d: %s", e.Code, e.Message)
}

// Call performs one RPC round trip. Transport failures and gateway 5xx
// come back as TransientError; gateway-level rejections as RPCError.
func (c *Client) Call(ctx context.Context, method string, params, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      atomic.AddUint64(&c.nextID, 1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", method, err)
	}

	req := protocol.AcquireRequest()
	res := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(res)

	req.SetRequestURI(c.url)
	req.SetMethod(consts.MethodPost)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	if err := c.hc.Do(ctx, req, res); err != nil {
		return &ports.TransientError{Err: fmt.Errorf("%s: %w", method, err)}
	}
	if status := res.StatusCode(); status >= 500 {
		return &ports.TransientError{Err: fmt.Errorf("%s: gateway status %d", method, status)}
	} else if status != consts.StatusOK {
		return fmt.Errorf("%s: gateway status %d", method, status)
	}

	var parsed rpcResponse
	if err := json.Unmarshal(res.Body(), &parsed); err != nil {
		return fmt.Errorf("decode %s: %w", method, err)
	}
	if parsed.Error != nil {
		return parsed.Error
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(parsed.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

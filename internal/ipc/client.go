package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Start requests the daemon to start the tracking run.
func (c *Client) Start() (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("ShortsPulse.Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop the tracking run.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("ShortsPulse.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("ShortsPulse.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Videos returns the dashboard rows, optionally limited to the top movers.
func (c *Client) Videos(top int) (*VideosResponse, error) {
	var resp VideosResponse
	if err := c.client.Call("ShortsPulse.Videos", VideosRequest{Top: top}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Series returns one video's full derived history.
func (c *Client) Series(videoID string) (*SeriesResponse, error) {
	var resp SeriesResponse
	if err := c.client.Call("ShortsPulse.Series", SeriesRequest{VideoID: videoID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DiscoveryLog returns the retained discovery pass log.
func (c *Client) DiscoveryLog() (*DiscoveryLogResponse, error) {
	var resp DiscoveryLogResponse
	if err := c.client.Call("ShortsPulse.DiscoveryLog", DiscoveryLogRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns daemon log lines.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("ShortsPulse.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WaitReady blocks until the baseline round lands or the run terminates.
func (c *Client) WaitReady(timeout time.Duration) (*WaitReadyResponse, error) {
	var resp WaitReadyResponse
	req := WaitReadyRequest{TimeoutMillis: int(timeout / time.Millisecond)}
	if err := c.client.Call("ShortsPulse.WaitReady", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("ShortsPulse.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

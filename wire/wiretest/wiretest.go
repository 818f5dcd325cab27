// Package wiretest provides minimal fake wire.Resource/wire.Client
// implementations for exercising other packages' tests without a real
// wire-protocol hosting library.
package wiretest

import "github.com/peppercomp/pepper/wire"

// Client is a fake wire.Client that records whether PostNoMemory was
// sent.
type Client struct {
	NoMemory bool
}

func (c *Client) PostNoMemory() { c.NoMemory = true }

// Resource is a fake wire.Resource bound to a Client, recording
// protocol errors posted on it.
type Resource struct {
	IDValue      uint32
	ClientValue  *Client
	ErrCode      uint32
	ErrMessage   string
	ErrPosted    bool
	Released     bool
}

// NewResource creates a Resource with id bound to a fresh Client.
func NewResource(id uint32) *Resource {
	return &Resource{IDValue: id, ClientValue: &Client{}}
}

func (r *Resource) ID() uint32 { return r.IDValue }

func (r *Resource) Client() wire.Client { return r.ClientValue }

func (r *Resource) PostError(code uint32, message string) {
	r.ErrCode, r.ErrMessage, r.ErrPosted = code, message, true
}

// Release implements buffer.Releaser.
func (r *Resource) Release() { r.Released = true }

// Callback is a fake wire.Callback recording frame-done delivery.
type Callback struct {
	Resource
	Fired bool
	Data  uint32
}

// NewCallback creates a Callback bound to a fresh Client.
func NewCallback(id uint32) *Callback {
	return &Callback{Resource: Resource{IDValue: id, ClientValue: &Client{}}}
}

func (c *Callback) Done(data uint32) {
	c.Fired = true
	c.Data = data
}

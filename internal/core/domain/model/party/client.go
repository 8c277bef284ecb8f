package party

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrClientIsNotConstructed is returned when a Client was not created via NewClient.
var ErrClientIsNotConstructed = errors.New("Client must be created via NewClient constructor")

// Client is the organizer placing orders, located where producers deliver.
type Client struct {
	id       kernel.ID
	name     string
	location kernel.Location

	isConstructed bool
}

// NewClient creates a client.
func NewClient(id kernel.ID, name string, location kernel.Location) (*Client, error) {
	c := &Client{isConstructed: true}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setLocation(location),
	); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate ensures the Client was created via NewClient.
func (c *Client) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrClientIsNotConstructed
	}
	return nil
}

// ID returns the client identifier.
func (c *Client) ID() kernel.ID { return c.id }

// Name returns the display name.
func (c *Client) Name() string { return c.name }

// Location returns the delivery location.
func (c *Client) Location() kernel.Location { return c.location }

func (c *Client) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Client) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *Client) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}

package nats

import (
	"errors"
	"os"

	"github.com/nats-io/nats.go"
)

// ErrNotConfigured is returned when NATS_URL is empty.
var ErrNotConfigured = errors.New("NATS_URL not set")

type Nats struct {
	Url   string
	Token string
	Conn  *nats.Conn
}

// Connect dials NATS_URL. The broker is optional for the catalog service, so
// an empty URL is reported as ErrNotConfigured instead of a default dial.
func Connect() (*Nats, error) {
	n := &Nats{
		Url:   os.Getenv("NATS_URL"),
		Token: os.Getenv("NATS_TOKEN"),
	}

	if n.Url == "" {
		return nil, ErrNotConfigured
	}

	opts := []nats.Option{
		nats.Name("catalog service"),
	}

	// if token provided
	if n.Token != "" {
		opts = append(opts, nats.Token(n.Token))
	}

	conn, err := nats.Connect(n.Url, opts...)
	if err != nil {
		return nil, err
	}

	n.Conn = conn

	return n, nil
}

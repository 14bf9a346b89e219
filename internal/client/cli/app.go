package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/handtohand/marketplace/internal/client/client"
	"github.com/handtohand/marketplace/internal/client/config"
	"github.com/urfave/cli/v2"
)

// Marketplace is the subset of client.GRPCClient the commands use.
type Marketplace interface {
	Ping(ctx context.Context) error
	FindMatches(ctx context.Context, kind string) (client.Document, error)
	ProposeExchange(ctx context.Context, partnerID, offerTitle, wishTitle string) (client.Document, error)
	GetActiveExchange(ctx context.Context, partnerID string) (client.Document, error)
	ApplyExchangeAction(ctx context.Context, exchangeID, action string) (client.Document, error)
	SubmitFeedback(ctx context.Context, exchangeID string, wouldExchangeAgain bool, comment string) (client.Document, error)
	GetUserStats(ctx context.Context, userID string) (client.Document, error)
	Close() error
}

type dialFunc func(addr, token string) (Marketplace, error)

func dialGRPC(addr, token string) (Marketplace, error) {
	return client.NewGRPCClient(addr, token)
}

var errTokenRequired = errors.New("access token required: use --token or HANDTOHAND_TOKEN")

type App struct {
	config *config.Config
	out    io.Writer
	dial   dialFunc
}

// NewApp builds the command tree bound to stdout and the gRPC client.
func NewApp() *cli.App {
	return newApp(os.Stdout, dialGRPC)
}

func newApp(w io.Writer, dial dialFunc) *cli.App {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	a := &App{config: cfg, out: w, dial: dial}

	return &cli.App{
		Name:      "handtohand",
		Usage:     "HandtoHand marketplace client",
		Flags:     config.Flags(cfg),
		Writer:    w,
		ErrWriter: w,
		Before: func(c *cli.Context) error {
			return config.Apply(c, cfg)
		},
		Commands: a.commands(),
	}
}

// run dials the server and calls fn under the request timeout. Unless
// public is set the access token is resolved first.
func (a *App) run(c *cli.Context, public bool, fn func(ctx context.Context, m Marketplace) error) error {
	token := a.config.AccessToken
	if !public && token == "" {
		var err error
		if token, err = promptToken(a.out); err != nil {
			return err
		}
	}

	m, err := a.dial(a.config.ServerEndpointAddr, token)
	if err != nil {
		return err
	}
	defer m.Close()

	ctx, cancel := context.WithTimeout(c.Context, a.config.Timeout)
	defer cancel()

	return fn(ctx, m)
}

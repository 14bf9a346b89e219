package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/handtohand/marketplace/internal/client/client"
	"github.com/urfave/cli/v2"
)

func (a *App) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "ping",
			Usage: "Check that the server is reachable",
			Action: func(c *cli.Context) error {
				return a.run(c, true, func(ctx context.Context, m Marketplace) error {
					if err := m.Ping(ctx); err != nil {
						return err
					}
					fmt.Fprintln(a.out, "OK")
					return nil
				})
			},
		},
		{
			Name:    "matches",
			Aliases: []string{"m"},
			Usage:   "List matches for your listings",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "type",
					Usage: "all, offers_for_wishes, wishes_for_offers or reciprocal",
				},
				&cli.BoolFlag{
					Name:  "json",
					Usage: "print the raw reply",
				},
			},
			Action: func(c *cli.Context) error {
				return a.run(c, false, func(ctx context.Context, m Marketplace) error {
					doc, err := m.FindMatches(ctx, c.String("type"))
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(a.out, doc)
					}
					printMatches(a.out, doc)
					return nil
				})
			},
		},
		{
			Name:  "propose",
			Usage: "Propose an exchange to another user",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "partner", Required: true, Usage: "user id of the other party"},
				&cli.StringFlag{Name: "offer", Usage: "what you bring"},
				&cli.StringFlag{Name: "wish", Usage: "what you want from them"},
			},
			Action: func(c *cli.Context) error {
				return a.run(c, false, func(ctx context.Context, m Marketplace) error {
					doc, err := m.ProposeExchange(ctx, c.String("partner"), c.String("offer"), c.String("wish"))
					if err != nil {
						return err
					}
					return printJSON(a.out, doc)
				})
			},
		},
		{
			Name:  "active",
			Usage: "Show the active exchange with a partner",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "partner", Required: true, Usage: "user id of the other party"},
			},
			Action: func(c *cli.Context) error {
				return a.run(c, false, func(ctx context.Context, m Marketplace) error {
					doc, err := m.GetActiveExchange(ctx, c.String("partner"))
					if err != nil {
						return err
					}
					if doc["exchange"] == nil {
						fmt.Fprintln(a.out, "No active exchange")
						return nil
					}
					return printJSON(a.out, doc)
				})
			},
		},
		{
			Name:      "act",
			Usage:     "Apply AGREE, COMPLETE or CANCEL to an exchange",
			ArgsUsage: "<exchange-id> <action>",
			Action: func(c *cli.Context) error {
				if c.NArg() != 2 {
					return cli.ShowCommandHelp(c, "act")
				}
				exchangeID, action := c.Args().Get(0), strings.ToUpper(c.Args().Get(1))
				return a.run(c, false, func(ctx context.Context, m Marketplace) error {
					doc, err := m.ApplyExchangeAction(ctx, exchangeID, action)
					if err != nil {
						return err
					}
					return printJSON(a.out, doc)
				})
			},
		},
		{
			Name:  "feedback",
			Usage: "Leave feedback on a completed exchange",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "exchange", Required: true, Usage: "exchange id"},
				&cli.BoolFlag{Name: "again", Required: true, Usage: "whether you would exchange with them again"},
				&cli.StringFlag{Name: "comment", Usage: "optional comment"},
			},
			Action: func(c *cli.Context) error {
				return a.run(c, false, func(ctx context.Context, m Marketplace) error {
					doc, err := m.SubmitFeedback(ctx, c.String("exchange"), c.Bool("again"), c.String("comment"))
					if err != nil {
						return err
					}
					return printJSON(a.out, doc)
				})
			},
		},
		{
			Name:  "stats",
			Usage: "Show exchange statistics for a user (default: you)",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "user", Usage: "user id"},
			},
			Action: func(c *cli.Context) error {
				return a.run(c, false, func(ctx context.Context, m Marketplace) error {
					doc, err := m.GetUserStats(ctx, c.String("user"))
					if err != nil {
						return err
					}
					printStats(a.out, doc)
					return nil
				})
			},
		},
	}
}

var _ Marketplace = (*client.GRPCClient)(nil)

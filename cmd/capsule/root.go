package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timecapsule/capsule/internal/config"
)

var outputFormats = []string{"table", "json", "yaml"}

type rootOptions struct {
	apiURL   string
	stateURL string
	output   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "capsule",
		Short:         "Schedule messages for future delivery",
		Long:          "capsule writes messages today that are delivered by email or SMS on a date you choose.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range outputFormats {
				if opts.output == f {
					return nil
				}
			}
			return fmt.Errorf("unknown output format %q (want table, json or yaml)", opts.output)
		},
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "messages API base URL (default: $CAPSULE_API_URL)")
	root.PersistentFlags().StringVar(&opts.stateURL, "state", "", "credential store URL (default: $CAPSULE_STATE_URL or ~/.capsule/state.db)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "output format: table, json or yaml")

	root.AddCommand(loginCmd(opts))
	root.AddCommand(registerCmd(opts))
	root.AddCommand(logoutCmd(opts))
	root.AddCommand(statusCmd(opts))
	root.AddCommand(messagesCmd(opts))
	root.AddCommand(profileCmd(opts))
	root.AddCommand(stubCmd(opts))

	return root
}

// loadConfig reads the environment, applies flag overrides and sets the
// log level.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.apiURL != "" {
		cfg.APIURL = strings.TrimRight(o.apiURL, "/")
	}
	if o.stateURL != "" {
		cfg.StateURL = o.stateURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setLogLevel(cfg.LogLevel)
	return cfg, nil
}

func (o *rootOptions) printer(w io.Writer) *printer {
	return &printer{w: w, format: o.output}
}

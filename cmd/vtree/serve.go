package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/vtree/pkg/inspector"
	"github.com/vango-dev/vtree/pkg/vtree"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr string
		key  string
	)

	cmd := &cobra.Command{
		Use:   "serve <scene>",
		Short: "Step through a scene from an HTTP inspector",
		Long: `Start the inspector for a scene. Each POST /step applies the
next step; GET /tree shows the host tree and GET /ops streams the
host operations of every step over a websocket.

Examples:
  vtree serve scenes/counter.yaml
  vtree serve --addr=0.0.0.0:7070 scenes/counter.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspector.Addr = addr
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sc, err := sceneLoader(cfg).Load(ctx, args[0])
			if err != nil {
				return err
			}

			s := inspector.New(inspector.Options{
				Scene:       sc,
				Key:         vtree.Key(key),
				TreeOptions: treeOptions(cfg, logger),
				Logger:      logger,
			})
			success(cmd.OutOrStdout(), "Inspector for %q on http://%s", sc.Name, cfg.Inspector.Addr)
			return s.Run(ctx, cfg.Inspector.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from vtree.yaml)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Root key (default from vtree.yaml)")

	return cmd
}

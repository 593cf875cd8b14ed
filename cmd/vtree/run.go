package main

import (
	"context"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/vango-dev/vtree/internal/scene"
	"github.com/vango-dev/vtree/pkg/middleware"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vtree"
)

type runOptions struct {
	key       string
	container string
	dump      bool
	quiet     bool
}

func runCmd(flags *globalFlags) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <scene>",
		Short: "Apply every step of a scene",
		Long: `Apply every step of a scene and print the host operations each
step produced, followed by the final host tree.

The scene may be a local path or an s3://bucket/key URI.

Examples:
  vtree run scenes/counter.yaml
  vtree run --dump scenes/counter.yaml
  vtree run s3://my-bucket/scenes/counter.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScene(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.key, "key", "k", "", "Root key (default from vtree.yaml)")
	cmd.Flags().StringVar(&opts.container, "container", "screen", "Name of the root host container")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "Dump built elements and the final host tree")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only print the final tree")

	return cmd
}

// dumper prints stable, address-free dumps.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                10,
}

func runScene(ctx context.Context, out, errOut io.Writer, flags *globalFlags, uri string, opts runOptions) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, errOut)

	sc, err := sceneLoader(cfg).Load(ctx, uri)
	if err != nil {
		return err
	}

	renderer := render.NewRenderer(render.RendererConfig{
		Pretty: true,
		Logger: logger,
		OnOp: func(op render.Op) {
			middleware.RecordHostOp(op.Kind.String())
		},
	})
	screen := render.NewContainer(opts.container)
	r := vtree.New(renderer, treeOptions(cfg, logger)...)
	p := scene.NewPlayer(sc, r, screen, vtree.Key(opts.key))

	for !p.Done() {
		renderer.Reset()
		i, err := p.Step(ctx)
		if err != nil {
			return err
		}
		step := &sc.Steps[i]
		if opts.quiet {
			continue
		}

		fmt.Fprintf(out, "── %s\n", step.Label(i))
		for _, op := range renderer.Ops() {
			info(out, "%s", op)
		}
		if opts.dump && step.Kind() == scene.StepRoot {
			el, err := sc.Build(i)
			if err != nil {
				return err
			}
			dumper.Fdump(out, el)
		}
	}

	markup, err := renderer.RenderToString(screen)
	if err != nil {
		return err
	}
	if !opts.quiet {
		fmt.Fprintln(out)
	}
	fmt.Fprint(out, markup)
	if opts.dump {
		dumper.Fdump(out, screen.Children())
	}

	if !opts.quiet {
		success(out, "%d steps applied", sc.Len())
	}
	return nil
}

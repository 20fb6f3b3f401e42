package main

import (
	"github.com/spf13/cobra"

	"github.com/pmclSF/hamlet/internal/cli"
	"github.com/pmclSF/hamlet/internal/cli/config"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert a test file or directory to another framework",
	Example: `  hamlet convert ./tests --from jest --to vitest --output ./converted
  hamlet convert Login.cy.js --from cypress --to playwright --output ./out
  hamlet convert ./src/test --from junit4 --to junit5 --output ./migrated --report json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, opts, logger, err := config.LoadAndValidate(cfgFile, profileName, verbose, cmd.Flags())
		if err != nil {
			return err
		}
		cfg.InputPath = args[0]
		return cli.Run(cmd.Context(), cfg, opts, logger)
	},
}

func init() {
	f := convertCmd.Flags()
	f.SortFlags = false
	f.String("from", "", "source framework name")
	f.String("to", "", "target framework name")
	f.String("language", "", "language hint for ambiguous framework names")
	f.String("emitter", "", "emission strategy: legacy, ir-patch or ir-full")
	f.String("output", "", "output directory")
	f.StringSlice("ignore", nil, "glob patterns to skip (repeatable)")
	f.Int64("max-file-size", 0, "skip files larger than this many bytes")
	f.Int("concurrency", 0, "worker count, 0 means GOMAXPROCS")
	f.String("on-error", "", "behaviour on file errors: continue or stop")
	f.Bool("skip-validation", false, "skip the post-emit validator pass")
	f.String("encoding", "", "fallback charset for undetectable input encodings")
	f.String("report", "", "report format: text, json, markdown or html")
	f.String("front-matter", "", "markdown front matter: yaml or toml")

	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.MarkFlagRequired("to")
	_ = convertCmd.MarkFlagRequired("output")
}

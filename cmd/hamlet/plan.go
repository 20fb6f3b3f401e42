package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmclSF/hamlet/internal/cli/config"
	"github.com/pmclSF/hamlet/pkg/migrate/project"
)

var planManifest string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the conversion order for a plan manifest",
	Long: `plan reads a manifest listing files and their dependencies, orders them so
that every file converts after the files it depends on, and prints the result
one path per line. Cycles are tolerated: each member still appears once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := config.LoadManifest(planManifest)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(m.Files))
		var deps []project.Dependency
		for _, entry := range m.Files {
			ids = append(ids, entry.Path)
			for _, d := range entry.DependsOn {
				deps = append(deps, project.Dependency{From: entry.Path, To: d})
			}
		}
		for _, id := range project.Order(ids, deps) {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planManifest, "manifest", "", "path to the plan manifest (yaml or json)")
	_ = planCmd.MarkFlagRequired("manifest")
}

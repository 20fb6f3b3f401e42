package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pmclSF/hamlet/pkg/migrate"
)

var frameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "List the registered framework adapters",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLANGUAGE\tPARADIGM\tEMITTERS")
		for _, def := range migrate.DefaultRegistry().List("") {
			emitters := "ir-patch"
			if def.Rewrite != nil {
				emitters += ", legacy"
			}
			if def.EmitTree != nil {
				emitters += ", ir-full"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Name, def.Language, def.Paradigm, emitters)
		}
		return w.Flush()
	},
}

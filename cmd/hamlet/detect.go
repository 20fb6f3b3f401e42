package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pmclSF/hamlet/pkg/migrate"
)

var detectLanguage string

var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Rank the registered frameworks by how strongly a file matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		content := string(raw)

		type candidate struct {
			name     string
			language string
			score    int
		}
		var ranked []candidate
		for _, def := range migrate.DefaultRegistry().List(detectLanguage) {
			score := def.Detect(content)
			if score < 0 {
				score = 0
			} else if score > 100 {
				score = 100
			}
			if score > 0 {
				ranked = append(ranked, candidate{def.Name, def.Language, score})
			}
		}
		if len(ranked) == 0 {
			fmt.Println("no framework detected")
			return nil
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].score != ranked[j].score {
				return ranked[i].score > ranked[j].score
			}
			return ranked[i].name < ranked[j].name
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FRAMEWORK\tLANGUAGE\tSCORE")
		for _, c := range ranked {
			fmt.Fprintf(w, "%s\t%s\t%d\n", c.name, c.language, c.score)
		}
		return w.Flush()
	},
}

func init() {
	detectCmd.Flags().StringVar(&detectLanguage, "language", "", "restrict candidates to one language")
}

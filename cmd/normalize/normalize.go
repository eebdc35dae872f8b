package normalize

import (
	"fmt"

	"github.com/dreamerjackson/mangacrawler/normalize"
	"github.com/spf13/cobra"
)

var NormalizeCmd = &cobra.Command{
	Use:          "normalize",
	Short:        "convert a snapshot into a typed dataset.",
	Long:         "convert a snapshot into a typed dataset.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := normalize.File(input, output)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleaned %d records saved to %s\n", n, output)

		return nil
	},
}

var (
	input  string
	output string
)

func init() {
	NormalizeCmd.Flags().StringVarP(
		&input, "input", "i", "manga_data_new.json", "set snapshot file")

	NormalizeCmd.Flags().StringVarP(
		&output, "output", "o", "cleaned_manga_data.json", "set output file")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/cardrom/internal/validator"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [image]",
	Short: "Check an image for inconsistent records",
	Long: `Verify loads an image and checks its records for consistency: text and list
data inside their arenas, card identifiers and links in range, duplicate
passwords, and that saving the unmodified image reproduces it byte for byte.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imagePath := args[0]

		s, _, err := openImage(imagePath)
		if err != nil {
			return err
		}

		v := validator.NewValidator(s)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Verification Results:")
		fmt.Fprintln(out, "---------------------")

		if len(results.Errors) == 0 {
			fmt.Fprintf(out, "✅ Image '%s' is consistent.\n", imagePath)
		} else {
			fmt.Fprintf(out, "❌ Image '%s' has %d errors:\n", imagePath, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Fprintf(out, "%d. %s\n", i+1, err)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Fprintln(out, "\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Fprintf(out, "%d. %s\n", i+1, warn)
			}
		}

		if len(results.Errors) > 0 {
			return fmt.Errorf("verification failed")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
}

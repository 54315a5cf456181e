package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avvvet/card-catalog/internal/catalogsvc/catalog"
	"github.com/spf13/cobra"
)

var (
	cardsDir string
	outPath  string
)

var rootCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Write the card image manifest",
	Long: `Scan the card image directory for .png, .jpg, .jpeg and .webp files and
write their names, sorted case-insensitively, as a JSON array. The default
output is cards.json in the parent of the cards directory.`,
	SilenceUsage: true,
	RunE:         runManifest,
}

func init() {
	rootCmd.Flags().StringVar(&cardsDir, "dir", "assets/cards", "Card image directory")
	rootCmd.Flags().StringVar(&outPath, "out", "", "Output path (defaults to <dir>/../cards.json)")
}

func runManifest(cmd *cobra.Command, args []string) error {
	info, err := os.Stat(cardsDir)
	if err != nil || !info.IsDir() {
		abs, _ := filepath.Abs(cardsDir)
		return fmt.Errorf("folder not found: %s", abs)
	}

	out := outPath
	if out == "" {
		out = catalog.DefaultManifestPath(cardsDir)
	}

	n, err := catalog.WriteManifest(cardsDir, out)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s\n", n, out)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

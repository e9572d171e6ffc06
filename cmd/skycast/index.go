package skycast

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skycast-ai/skycast/pkg/app"
)

var indexCmd = &cobra.Command{
	Use:   "index [pdf-path]",
	Short: "Build the vector index from a PDF",
	Long: `Extract text from the PDF, split it into overlapping chunks, embed each
chunk, and store the vectors in the Qdrant collection. The collection is
recreated, so indexing replaces whatever was stored before.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		application, err := app.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer func() {
			if err := application.Close(); err != nil {
				fmt.Printf("Warning: failed to close vector store: %v\n", err)
			}
		}()

		idx, err := application.Index(ctx, args[0])
		if err != nil {
			return fmt.Errorf("index build failed: %w", err)
		}

		fmt.Printf("Indexed %s\n", args[0])
		fmt.Printf("  document:   %s\n", idx.DocumentID)
		fmt.Printf("  chunks:     %d\n", idx.ChunkCount)
		fmt.Printf("  vector dim: %d\n", idx.VectorSize)
		fmt.Printf("  collection: %s\n", cfg.Qdrant.Collection)
		return nil
	},
}

package skycast

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skycast-ai/skycast/pkg/app"
	"github.com/skycast-ai/skycast/pkg/domain"
)

var (
	askPDF      string
	askLocation string
	showSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question",
	Long: `Route a single question through the execution graph and print the answer.
Without --pdf the rag branch is unavailable and every query resolves to
the weather branch. With --pdf the file is indexed first, enabling rag
for this invocation.`,
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

		if askPDF != "" {
			idx, err := application.Index(ctx, askPDF)
			if err != nil {
				return fmt.Errorf("failed to index %s: %w", askPDF, err)
			}
			fmt.Printf("Indexed %s: %d chunks\n\n", askPDF, idx.ChunkCount)
		}

		resp, err := application.Query(ctx, domain.QueryRequest{
			Query:    args[0],
			Location: askLocation,
		})
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}

		fmt.Println(resp.Answer)
		fmt.Printf("\n(route: %s, elapsed: %s)\n", resp.Route, resp.Elapsed)

		if showSources && len(resp.Sources) > 0 {
			fmt.Println("\nSources:")
			for i, src := range resp.Sources {
				fmt.Printf("--- chunk %d ---\n%s\n", i+1, src)
			}
		}

		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askPDF, "pdf", "", "PDF file to index before asking (enables the rag branch)")
	askCmd.Flags().StringVar(&askLocation, "location", "", "explicit location for the weather branch")
	askCmd.Flags().BoolVar(&showSources, "sources", false, "print the retrieved chunks for rag answers")
}

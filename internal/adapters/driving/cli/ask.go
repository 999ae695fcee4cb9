package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

var askConversation int64

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Retrieves the most relevant passages, asks the language model to answer
from them, and records the exchange in a conversation.

Without --conversation a new conversation is started and its id printed,
so follow-up questions can continue it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Int64VarP(&askConversation, "conversation", "c", 0, "conversation id to continue")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	question := strings.Join(args, " ")
	answer, err := assistantService.Ask(cmd.Context(), askConversation, question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Println(answer.Text)
	cmd.Println()

	if len(answer.Sources) > 0 {
		cmd.Println("Sources:")
		for i, s := range answer.Sources {
			cmd.Printf("  [%d] %s (chunk %d)\n", i+1, s.Filename, s.ChunkID)
		}
		cmd.Println()
	}
	cmd.Printf("Conversation: %d\n", answer.ConversationID)
}

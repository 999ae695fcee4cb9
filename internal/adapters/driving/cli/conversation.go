package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

var conversationCmd = &cobra.Command{
	Use:     "conversation",
	Aliases: []string{"conv"},
	Short:   "Manage conversations",
}

var conversationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations, newest first",
	Args:  cobra.NoArgs,
	RunE:  runConversationList,
}

var conversationShowCmd = &cobra.Command{
	Use:   "show [conversation-id]",
	Short: "Print the messages of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationShow,
}

var conversationNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Start an empty conversation",
	RunE:  runConversationNew,
}

func init() {
	conversationCmd.AddCommand(conversationListCmd)
	conversationCmd.AddCommand(conversationShowCmd)
	conversationCmd.AddCommand(conversationNewCmd)
	rootCmd.AddCommand(conversationCmd)
}

func runConversationList(cmd *cobra.Command, _ []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	convs, err := conversationService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(convs) == 0 {
		cmd.Println("No conversations yet.")
		return nil
	}

	for _, c := range convs {
		cmd.Printf("  %-6d %s  %s\n", c.ID, c.CreatedAt.Local().Format(timeLayout), c.Title)
	}
	cmd.Printf("\nTotal: %d conversations\n", len(convs))
	return nil
}

func runConversationShow(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	msgs, err := conversationService.Messages(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load conversation: %w", err)
	}

	if len(msgs) == 0 {
		cmd.Printf("Conversation %d has no messages.\n", id)
		return nil
	}

	for _, m := range msgs {
		cmd.Printf("[%s] %s:\n%s\n\n", m.CreatedAt.Local().Format(timeLayout), m.Role, m.Content)
	}
	return nil
}

func runConversationNew(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	id, err := conversationService.Start(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to start conversation: %w", err)
	}

	cmd.Printf("Started conversation %d\n", id)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

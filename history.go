package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var showLogCmd = &cobra.Command{
	Use:   "show-log [log-id]",
	Short: "Print one automation run from the local log",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowLog,
}

var showCardCmd = &cobra.Command{
	Use:   "show-card [trello-card-id]",
	Short: "Print the local record of a created card",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowCard,
}

func runShowLog(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid log id %q: %w", args[0], err)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	entry, err := a.store.GetLog(cmd.Context(), uint(id))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Log %d (%s) at %s\n", entry.ID, entry.Status, entry.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Input: %s\n", entry.InputText)
	fmt.Fprintf(out, "  Processed Data: %s\n", entry.ProcessedData)
	if entry.ErrorMessage != "" {
		fmt.Fprintf(out, "  Error: %s\n", entry.ErrorMessage)
	}
	if entry.Card != nil {
		fmt.Fprintf(out, "  Card: %s (%s)\n", entry.Card.TrelloID, entry.Card.URL)
	}
	return nil
}

func runShowCard(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	card, err := a.store.GetCardByTrelloID(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Card %s: %s\n", card.TrelloID, card.Name)
	fmt.Fprintf(out, "  List: %s\n", card.ListName)
	fmt.Fprintf(out, "  Labels: %v\n", []string(card.Labels))
	if card.DueDate != nil {
		fmt.Fprintf(out, "  Due: %s\n", card.DueDate.Format("2006-01-02"))
	}
	fmt.Fprintf(out, "  URL: %s\n", card.URL)
	if card.EventID != "" {
		fmt.Fprintf(out, "  Calendar Event: %s\n", card.EventID)
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cardText string
	cardList string
)

var createCardCmd = &cobra.Command{
	Use:   "create-card",
	Short: "Create one card from text and print the result",
	Example: `  trello-automation create-card --text "New service request from ABC Corp"
  trello-automation create-card --text "Metal pickup, 1500 lbs" --list Doing`,
	RunE: runCreateCard,
}

var testConnectionCmd = &cobra.Command{
	Use:   "test-connection",
	Short: "Check the Trello credentials and list the board's lists",
	RunE:  runTestConnection,
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Print the board's lists",
	RunE:  runLists,
}

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Print the board's labels",
	RunE:  runLabels,
}

func init() {
	createCardCmd.Flags().StringVar(&cardText, "text", "", "request text to turn into a card")
	createCardCmd.Flags().StringVar(&cardList, "list", "", "target list name (default from trello.default_list)")
	_ = createCardCmd.MarkFlagRequired("text")
}

func runCreateCard(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	listName := cardList
	if listName == "" {
		listName = a.cfg.Trello.DefaultList
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processing text: %q\n", cardText)

	result := a.service.CreateCardFromText(cmd.Context(), cardText, listName)
	if !result.Success {
		return fmt.Errorf("failed to create card (log %d): %s", result.LogID, result.Error)
	}

	processed, err := json.MarshalIndent(result.ProcessedData, "  ", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Card created successfully!")
	fmt.Fprintf(out, "  Card ID: %s\n", result.CardID)
	fmt.Fprintf(out, "  Card Name: %s\n", result.CardName)
	fmt.Fprintf(out, "  Card URL: %s\n", result.CardURL)
	fmt.Fprintf(out, "  Processed Data: %s\n", processed)
	return nil
}

func runTestConnection(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Testing Trello API connection...")
	result := a.service.TestConnection(cmd.Context())
	if !result.Success {
		return fmt.Errorf("connection failed: %s", result.Error)
	}

	fmt.Fprintln(out, result.Message)
	for _, l := range result.Lists {
		fmt.Fprintf(out, "  - %s (ID: %s)\n", l.Name, l.ID)
	}
	return nil
}

func runLists(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	for _, l := range a.service.GetBoardLists(cmd.Context()) {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s (ID: %s)\n", l.Name, l.ID)
	}
	return nil
}

func runLabels(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	for _, l := range a.service.GetBoardLabels(cmd.Context()) {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s [%s] (ID: %s)\n", l.Name, l.Color, l.ID)
	}
	return nil
}

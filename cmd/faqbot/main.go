package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgPath    string
	corpusPath string
	verbose    bool

	// search flags
	searchLimit int
	// transfers flags
	transfersLimit int
	// serve flags
	serveAddr string
)

var rootCmd = &cobra.Command{
	Use:   "faqbot",
	Short: "FAQ assistant with lexical retrieval and human handoff",
	Long: `faqbot answers customer questions from a FAQ knowledge base.

Questions are matched lexically against the corpus. Matching answers can be
rephrased by an OpenAI-compatible model, and anything the bot cannot handle
is handed off to a human agent.`,
	SilenceUsage: true,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat (type salir, exit or quit to leave)",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question and print the outcome as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var faqsCmd = &cobra.Command{
	Use:   "faqs [category]",
	Short: "List the loaded FAQ records, optionally for one category",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFAQs,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Show the retrieval scores for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var transfersCmd = &cobra.Command{
	Use:   "transfers",
	Short: "List recent transfer tickets from the sqlite handoff queue",
	Args:  cobra.NoArgs,
	RunE:  runTransfers,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (default: ./config.yaml or ~/.config/faqbot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&corpusPath, "corpus", "", "FAQ corpus file, overrides corpus.path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "Number of candidates to show")
	transfersCmd.Flags().IntVarP(&transfersLimit, "limit", "n", 20, "Number of tickets to show")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overrides server.addr")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(faqsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(transfersCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

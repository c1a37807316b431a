package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"faqbot/internal/server"
	"faqbot/internal/tui"
)

func runChat(cmd *cobra.Command, args []string) error {
	a, err := setupChat()
	if err != nil {
		return err
	}
	defer a.Close()

	summary := fmt.Sprintf("%d preguntas frecuentes en %d categorías · %s · logs: %s",
		a.store.Len(), len(a.store.Categories()), a.cfg.Corpus.Path, a.cfg.Logging.File)
	_, err = tea.NewProgram(tui.New(a.policy, summary), tea.WithAltScreen()).Run()
	return err
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	out := a.policy.Answer(commandContext(cmd), strings.Join(args, " "))
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	if a.cfg.Logging.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.RouterConfig{
		ChatHandler:    server.NewChatHandler(a.policy),
		CatalogHandler: server.NewCatalogHandler(a.store),
		Log:            a.log,
	})

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, addr, router, a.log)
}

func runFAQs(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	records := a.store.All()
	if len(args) == 1 {
		records = a.store.ByCategory(args[0])
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tQUESTION\tANSWER")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Category, r.Question, r.Answer)
	}
	return w.Flush()
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	query := strings.Join(args, " ")
	ranked := a.matcher.Rank(query)
	if searchLimit > 0 && len(ranked) > searchLimit {
		ranked = ranked[:searchLimit]
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "threshold=%.2f\n", a.matcher.Threshold())
	fmt.Fprintln(w, "SCORE\tMATCH\tCATEGORY\tQUESTION")
	for _, c := range ranked {
		match := ""
		if c.Score > a.matcher.Threshold() {
			match = "*"
		}
		fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n", c.Score, match, c.Record.Category, c.Record.Question)
	}
	return w.Flush()
}

func runTransfers(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.queue == nil {
		return errors.New("transfers are only recorded with handoff.type: sqlite")
	}
	tickets, err := a.queue.Recent(commandContext(cmd), transfersLimit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tKIND\tQUESTION\tREASON")
	for _, t := range tickets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"), t.ReasonKind, t.Question, t.Reason)
	}
	return w.Flush()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

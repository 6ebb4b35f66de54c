package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/porndb"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/reconcile"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/stash"
)

// consolePrompter answers the manual-mode prompts on the terminal. When
// stdin is not a TTY every prompt degrades to the skip/reject answer so
// unattended runs never block.
type consolePrompter struct {
	in  io.Reader
	out io.Writer
	tty bool
}

func newConsolePrompter() *consolePrompter {
	return &consolePrompter{
		in:  os.Stdin,
		out: os.Stdout,
		tty: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
}

func (p *consolePrompter) ChooseCandidate(scene stash.Scene, candidates []porndb.Scene) (int, error) {
	if !p.tty {
		return 0, nil
	}

	rows := make([]table.Row, 0, len(candidates))
	for i, candidate := range candidates {
		site := ""
		if candidate.Site != nil {
			site = candidate.Site.Name
		}
		rows = append(rows, table.Row{i + 1, site, candidate.Date, candidate.Title})
	}
	fmt.Fprintln(p.out, "Found ambiguous result. Which should we select?")
	fmt.Fprintln(p.out, renderTable(table.Row{"#", "Site", "Date", "Title"}, rows, 1))
	fmt.Fprintln(p.out, "0: None of the above, skip this scene.")

	reader := bufio.NewReader(p.in)
	for {
		fmt.Fprint(p.out, "Selection: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, fmt.Errorf("read selection: %w", err)
		}
		selection, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || selection < 0 || selection > len(candidates) {
			fmt.Fprintln(p.out, "Invalid selection")
			continue
		}
		return selection, nil
	}
}

func (p *consolePrompter) ConfirmAlias(siteName, parentName, site string) (reconcile.AliasDecision, error) {
	if !p.tty {
		return reconcile.AliasReject, nil
	}

	fmt.Fprintf(p.out, "Found %s as a performer in scene, which ThePornDB indicates is an alias of %s (site: %s).\n", siteName, parentName, site)
	fmt.Fprint(p.out, "Should we trust that? (Y)es / (N)o / (A)lways / Always for this (S)ite: ")

	reader := bufio.NewReader(p.in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return reconcile.AliasReject, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return reconcile.AliasAcceptOnce, nil
	case "a", "always":
		return reconcile.AliasAcceptAlways, nil
	case "s", "site":
		return reconcile.AliasAcceptSite, nil
	default:
		return reconcile.AliasReject, nil
	}
}

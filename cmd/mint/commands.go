package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/viant/mint/progress"
	"github.com/viant/mint/service/issuer"
	"github.com/viant/mint/service/ledger"
	"github.com/viant/mint/service/prompt"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	issueBatch     string
	issueQuantity  int
	issueDryRun    bool
	issueOverwrite bool
	issueRasterize bool

	listBatches  []string
	listStatuses []string
	listJSON     bool
)

func runInit(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()
	srv, err := newService(ctx, cmd)
	if err != nil {
		return err
	}
	if err = srv.InitLedger(ctx); err != nil {
		if errors.Is(err, ledger.ErrExists) {
			return fmt.Errorf("ledger %v already exists", srv.Config().Ledger.URL)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created ledger %v\n", srv.Config().Ledger.URL)
	return nil
}

func runIssue(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()
	srv, err := newService(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = srv.Close(ctx) }()

	asked := &prompt.IssueOutput{}
	if err = srv.Prompt().Issue(ctx, &prompt.IssueInput{Batch: issueBatch, Quantity: issueQuantity}, asked); err != nil {
		return err
	}
	ctx, _ = progress.WithNewTracker(ctx, "", asked.Batch, func(p progress.Progress) {
		logger.Debug("progress",
			zap.Int("issued", p.Issued),
			zap.Int("requested", p.Requested),
			zap.Int("stamped", p.Stamped),
			zap.Int("rasterized", p.Rasterized),
			zap.Int("failed", p.Failed))
	})
	output, err := srv.Issue(ctx, &issuer.Input{
		Batch:     asked.Batch,
		Quantity:  asked.Quantity,
		DryRun:    issueDryRun,
		Overwrite: issueOverwrite,
		Rasterize: issueRasterize,
	})
	out := cmd.OutOrStdout()
	if output != nil {
		for _, note := range output.Notes {
			fmt.Fprintf(out, "[OK] %v\n", note.ID)
		}
	}
	if err != nil {
		return err
	}
	if issueDryRun {
		fmt.Fprintf(out, "dry run: %d notes, ledger diff (+%d -%d):\n%s", len(output.Notes), output.DiffStats.Added, output.DiffStats.Removed, output.Diff)
		return nil
	}
	fmt.Fprintf(out, "issued %d notes in batch %v\n", len(output.Notes), output.Batch)
	fmt.Fprintf(out, "output: %v\n", srv.Config().Output.URL)
	if output.Circulation != "" {
		fmt.Fprintf(out, "circulation: %v\n", output.Circulation)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()
	srv, err := newService(ctx, cmd)
	if err != nil {
		return err
	}
	notes, err := srv.Notes(ctx, upper(listBatches), listStatuses)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if listJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		return encoder.Encode(notes)
	}
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tBATCH\tSTATUS\tISSUED\tDENOMINATION")
	for _, note := range notes {
		fmt.Fprintf(writer, "%v\t%v\t%v\t%v\t%d\n", note.ID, note.Batch, note.Status, note.IssueDate, note.Denomination)
	}
	return writer.Flush()
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()
	srv, err := newService(ctx, cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	failed := 0
	for _, id := range args {
		result, err := srv.Verify(ctx, id)
		if err != nil {
			return err
		}
		if result.Valid() {
			fmt.Fprintf(out, "%v: valid\n", result.ID)
			continue
		}
		failed++
		fmt.Fprintf(out, "%v: invalid (%v)\n", result.ID, result.Reason)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d identifiers failed verification", failed, len(args))
	}
	return nil
}

func runVoid(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()
	srv, err := newService(ctx, cmd)
	if err != nil {
		return err
	}
	for _, id := range args {
		note, err := srv.Void(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%v: %v\n", note.ID, note.Status)
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	config.Resolve("")
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func upper(values []string) []string {
	ret := make([]string, 0, len(values))
	for _, value := range values {
		ret = append(ret, strings.ToUpper(strings.TrimSpace(value)))
	}
	return ret
}

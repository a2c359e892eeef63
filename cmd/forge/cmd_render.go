// Package main render command: parse a template, build the context, render,
// optionally append derived constraints and store a snapshot.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"promptforge/internal/constraint"
	"promptforge/internal/gitmeta"
	"promptforge/internal/loader"
	"promptforge/internal/prompt"
	"promptforge/internal/snapshot"
	"promptforge/internal/types"
)

var (
	renderTopicPath     string
	renderSpecPath      string
	renderStandardsPath string
	renderSEOPath       string
	renderStrict        bool
	renderNoStrict      bool
	renderConstraints   bool
	renderSnapshot      bool
	renderPreview       bool
	renderOutPath       string
)

var renderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "Render a template for a topic",
	Long: `Renders a template against a topic plus optional research spec,
content standards and SEO guidelines.

Parse errors report every offending variable at once. With --strict, the
render additionally fails if any context variable is never referenced or
any live variable is unresolved, again listing every offender.

Example:
  forge render research_brief.txt --topic topics/turmeric.json --constraints --snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderTopicPath, "topic", "", "topic JSON file (required)")
	renderCmd.Flags().StringVar(&renderSpecPath, "spec", "", "research spec JSON file")
	renderCmd.Flags().StringVar(&renderStandardsPath, "standards", "", "content standards JSON file")
	renderCmd.Flags().StringVar(&renderSEOPath, "seo", "", "SEO guidelines JSON file")
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "enable strict-mode variable audits")
	renderCmd.Flags().BoolVar(&renderNoStrict, "no-strict", false, "disable strict mode even if the config default enables it")
	renderCmd.Flags().BoolVar(&renderConstraints, "constraints", false, "derive and append guardrail constraints")
	renderCmd.Flags().BoolVar(&renderSnapshot, "snapshot", false, "store the render as a content-addressed snapshot")
	renderCmd.Flags().BoolVar(&renderPreview, "preview", false, "render markdown preview to the terminal")
	renderCmd.Flags().StringVarP(&renderOutPath, "out", "o", "", "write rendered text to file instead of stdout")
	_ = renderCmd.MarkFlagRequired("topic")
}

func runRender(cmd *cobra.Command, args []string) error {
	name, source, err := loader.LoadTemplate(cfg.TemplatesDir, args[0])
	if err != nil {
		return err
	}

	tpl, err := prompt.Parse(name, source)
	if err != nil {
		var parseErr *prompt.ParseError
		if errors.As(err, &parseErr) {
			printParseIssues(parseErr)
		}
		return err
	}

	topic, spec, standards, seo, err := loadDomainObjects()
	if err != nil {
		return err
	}

	ctx := prompt.BuildContext(topic, spec, standards, seo)

	opts := prompt.RenderOptions{Strict: strictEnabled()}
	if renderConstraints {
		c := constraint.Build(topic, spec, standards)
		opts.Constraints = &c
		logger.Debug("constraints derived", zap.Int("rules", c.Len()))
	}

	rendered, err := prompt.Render(tpl, ctx, opts)
	if err != nil {
		return err
	}

	if renderSnapshot {
		commit, branch := gitmeta.Capture(cmd.Context(), workspace)
		snap := snapshot.Create(rendered, name, snapshot.TemplateVersion(source),
			topic.ID, commit, branch, time.Time{})
		path, err := snapshot.Store(snap, cfg.SnapshotsDir)
		if err != nil {
			return err
		}
		recordInLedger(snap)
		logger.Info("snapshot stored",
			zap.String("hash", snap.Hash), zap.String("path", path))
		fmt.Fprintf(os.Stderr, "snapshot %s -> %s\n", snap.Hash, path)
	}

	return emitRendered(rendered)
}

func loadDomainObjects() (types.Topic, *types.ResearchSpec, *types.ContentStandards, *types.SEOGuidelines, error) {
	topic, err := loader.LoadTopic(renderTopicPath)
	if err != nil {
		return types.Topic{}, nil, nil, nil, err
	}

	var spec *types.ResearchSpec
	if renderSpecPath != "" {
		if spec, err = loader.LoadResearchSpec(renderSpecPath); err != nil {
			return types.Topic{}, nil, nil, nil, err
		}
	}
	var standards *types.ContentStandards
	if renderStandardsPath != "" {
		if standards, err = loader.LoadContentStandards(renderStandardsPath); err != nil {
			return types.Topic{}, nil, nil, nil, err
		}
	}
	var seo *types.SEOGuidelines
	if renderSEOPath != "" {
		if seo, err = loader.LoadSEOGuidelines(renderSEOPath); err != nil {
			return types.Topic{}, nil, nil, nil, err
		}
	}
	return topic, spec, standards, seo, nil
}

func strictEnabled() bool {
	if renderNoStrict {
		return false
	}
	return renderStrict || cfg.StrictDefault
}

func emitRendered(rendered string) error {
	if renderOutPath != "" {
		return os.WriteFile(renderOutPath, []byte(rendered), 0644)
	}
	if renderPreview {
		pretty, err := glamour.Render(rendered, "auto")
		if err == nil {
			fmt.Print(pretty)
			return nil
		}
		logger.Debug("glamour preview failed, falling back to plain output", zap.Error(err))
	}
	fmt.Print(rendered)
	return nil
}

func printParseIssues(parseErr *prompt.ParseError) {
	fmt.Fprintf(os.Stderr, "template %s has %d issue(s):\n", parseErr.Template, len(parseErr.Issues))
	for _, issue := range parseErr.Issues {
		fmt.Fprintf(os.Stderr, "  - %s\n", issue)
	}
}

// recordInLedger indexes a stored snapshot; ledger trouble never fails the
// render.
func recordInLedger(snap snapshot.Snapshot) {
	ledger, err := snapshot.OpenLedger(cfg.SnapshotsDir)
	if err != nil {
		logger.Warn("ledger unavailable", zap.Error(err))
		return
	}
	defer ledger.Close()
	if err := ledger.Record(snap); err != nil {
		logger.Warn("ledger record failed", zap.Error(err))
	}
}

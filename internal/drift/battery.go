// Package drift provides YAML-defined drift batteries: suites of
// (template, topic) checks rendered live and diffed against their latest
// stored snapshot to continuously detect unintended prompt drift.
package drift

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"promptforge/internal/constraint"
	"promptforge/internal/diff"
	"promptforge/internal/loader"
	"promptforge/internal/logging"
	"promptforge/internal/prompt"
	"promptforge/internal/snapshot"
	"promptforge/internal/types"
)

// Battery is a collection of drift checks plus the suite-wide optional
// domain objects every check renders with.
type Battery struct {
	Version   int     `yaml:"version"`
	Spec      string  `yaml:"spec,omitempty"`      // research spec JSON path
	Standards string  `yaml:"standards,omitempty"` // content standards JSON path
	SEO       string  `yaml:"seo,omitempty"`       // SEO guidelines JSON path
	Checks    []Check `yaml:"checks"`
}

// Check is a single drift check: render this template for this topic and
// compare against the last stored snapshot.
type Check struct {
	ID          string `yaml:"id"`
	Template    string `yaml:"template"`
	Topic       string `yaml:"topic"`
	Strict      bool   `yaml:"strict,omitempty"`
	Constraints bool   `yaml:"constraints,omitempty"`
}

// Result captures the outcome of one check.
type Result struct {
	CheckID string
	Drifted bool
	Missing bool // no baseline snapshot stored yet
	Added   int
	Removed int
	Err     error
}

// Dirs locates the workspace resources a battery run needs.
type Dirs struct {
	Workspace    string
	TemplatesDir string
	SnapshotsDir string
}

// suiteObjects are the optional domain objects shared by every check.
type suiteObjects struct {
	spec      *types.ResearchSpec
	standards *types.ContentStandards
	seo       *types.SEOGuidelines
}

// LoadBattery reads a YAML battery file from disk.
func LoadBattery(path string) (*Battery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Battery
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse battery YAML: %w", err)
	}
	return &b, nil
}

// Run executes every check. Checks are independent (each render reads only
// its own inputs), so they fan out on a bounded errgroup; results come back
// in battery order. A check error lands in its Result rather than aborting
// the run - the battery's job is a complete report.
func Run(ctx context.Context, b *Battery, dirs Dirs) ([]Result, error) {
	if b == nil || len(b.Checks) == 0 {
		return nil, nil
	}

	runID := uuid.NewString()[:8]
	logging.Drift("battery run %s: %d check(s)", runID, len(b.Checks))

	objs, err := loadSuiteObjects(b, dirs.Workspace)
	if err != nil {
		return nil, err
	}

	// The ledger is an optimization for baseline lookup; a broken ledger
	// falls back to scanning metadata sidecars.
	ledger, err := snapshot.OpenLedger(dirs.SnapshotsDir)
	if err != nil {
		logging.Drift("run %s: ledger unavailable: %v", runID, err)
		ledger = nil
	} else {
		defer ledger.Close()
	}

	results := make([]Result, len(b.Checks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, check := range b.Checks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{CheckID: check.ID, Err: err}
				return nil
			}
			results[i] = runCheck(check, objs, dirs, ledger)
			logging.DriftDebug("run %s check %s: drifted=%v err=%v",
				runID, check.ID, results[i].Drifted, results[i].Err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Drifted reports whether any check in the results drifted.
func Drifted(results []Result) bool {
	for _, r := range results {
		if r.Drifted {
			return true
		}
	}
	return false
}

// Failed reports whether any check ended in a hard error.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

func loadSuiteObjects(b *Battery, workspace string) (suiteObjects, error) {
	var objs suiteObjects
	var err error

	if b.Spec != "" {
		if objs.spec, err = loader.LoadResearchSpec(resolve(workspace, b.Spec)); err != nil {
			return objs, fmt.Errorf("suite spec: %w", err)
		}
	}
	if b.Standards != "" {
		if objs.standards, err = loader.LoadContentStandards(resolve(workspace, b.Standards)); err != nil {
			return objs, fmt.Errorf("suite standards: %w", err)
		}
	}
	if b.SEO != "" {
		if objs.seo, err = loader.LoadSEOGuidelines(resolve(workspace, b.SEO)); err != nil {
			return objs, fmt.Errorf("suite seo: %w", err)
		}
	}
	return objs, nil
}

// runCheck renders one check live and diffs it (normalized) against the
// latest stored snapshot for the same (template, topic) pair.
func runCheck(check Check, objs suiteObjects, dirs Dirs, ledger *snapshot.Ledger) Result {
	res := Result{CheckID: check.ID}

	name, source, err := loader.LoadTemplate(dirs.TemplatesDir, check.Template)
	if err != nil {
		res.Err = err
		return res
	}
	tpl, err := prompt.Parse(name, source)
	if err != nil {
		res.Err = err
		return res
	}

	topic, err := loader.LoadTopic(resolve(dirs.Workspace, check.Topic))
	if err != nil {
		res.Err = err
		return res
	}

	ctx := prompt.BuildContext(topic, objs.spec, objs.standards, objs.seo)
	opts := prompt.RenderOptions{Strict: check.Strict}
	if check.Constraints {
		c := constraint.Build(topic, objs.spec, objs.standards)
		opts.Constraints = &c
	}

	rendered, err := prompt.Render(tpl, ctx, opts)
	if err != nil {
		res.Err = err
		return res
	}

	baseline, err := latestBaseline(name, topic.ID, dirs.SnapshotsDir, ledger)
	if err != nil {
		res.Err = err
		return res
	}
	if baseline == "" {
		res.Missing = true
		return res
	}

	stored, err := snapshot.Load(baseline, name, topic.ID, dirs.SnapshotsDir)
	if err != nil {
		res.Err = err
		return res
	}

	d := diff.CompareNormalized(stored.RenderedText, rendered)
	res.Drifted = d.HasChanges()
	res.Added = d.Added
	res.Removed = d.Removed
	return res
}

func latestBaseline(templateName, topicID, snapshotsDir string, ledger *snapshot.Ledger) (string, error) {
	if ledger != nil {
		hash, err := ledger.Latest(templateName, topicID)
		if err == nil && hash != "" {
			return hash, nil
		}
	}
	return snapshot.LatestStored(templateName, topicID, snapshotsDir)
}

func resolve(workspace, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workspace, path)
}

package initcmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/colonyops/rollbook/internal/core/doctor"
	"github.com/colonyops/rollbook/internal/core/styles"
	"github.com/colonyops/rollbook/internal/printer"
)

const (
	sourceRemote   = "remote"
	sourceFixtures = "fixtures"
	sourceNone     = "none"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool // skip prompts, use defaults
	Force      bool // overwrite existing config

	// Preset answers, used as prompt defaults.
	Config ConfigOptions
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	answers := w.opts.Config
	if !w.opts.Yes {
		var err error
		answers, err = w.promptUser(answers)
		if err != nil {
			return err
		}
	}

	cfg := GenerateConfig(answers)
	cfg.DataDir = w.opts.DataDir
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid answers: %w", err)
	}

	backupPath, err := BackupConfig(w.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("backup config: %w", err)
	}
	if backupPath != "" {
		p.Successf("Backed up config to: %s", backupPath)
	}

	if err := WriteConfig(cfg, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	p.Printf("")
	result := NewInitCheck(w.opts.ConfigPath, w.opts.DataDir).Run(ctx)

	p.Section(result.Name)
	for _, item := range result.Items {
		switch item.Status {
		case doctor.StatusPass:
			p.CheckItem(item.Label, item.Detail)
		case doctor.StatusWarn:
			p.WarnItem(item.Label, item.Detail)
		case doctor.StatusFail:
			p.FailItem(item.Label, item.Detail)
		}
	}

	w.printNextSteps(p, answers)
	return nil
}

func (w *Wizard) promptUser(preset ConfigOptions) (ConfigOptions, error) {
	source := sourceNone
	switch {
	case len(preset.Fixtures) > 0:
		source = sourceFixtures
	case preset.LookupURL != "":
		source = sourceRemote
	}

	lookupURL := preset.LookupURL
	fixtures := strings.Join(preset.Fixtures, ", ")
	if fixtures == "" {
		fixtures = "lookups/*.json"
	}
	cacheTTL := preset.CacheTTL.String()
	schedule := preset.RefreshSchedule
	theme := preset.Theme
	if theme == "" {
		theme = styles.DefaultTheme
	}
	startEmpty := preset.StartEmpty

	themes := make([]huh.Option[string], 0, len(styles.ThemeNames()))
	for _, name := range styles.ThemeNames() {
		themes = append(themes, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Lookup source").
				Description("Where customers, qualities and other reference data come from").
				Options(
					huh.NewOption("Remote lookup service", sourceRemote),
					huh.NewOption("Local fixture files", sourceFixtures),
					huh.NewOption("None for now", sourceNone),
				).
				Value(&source),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Lookup URL").
				Description("Requests are sent as GET <url>?LookupCode=<category>").
				Value(&lookupURL).
				Validate(requireNonEmpty("lookup url")),
			huh.NewInput().
				Title("Cache TTL").
				Description("How long fetched records are reused, 0 disables caching").
				Value(&cacheTTL).
				Validate(validDuration),
			huh.NewInput().
				Title("Refresh schedule").
				Description("Cron expression for background refreshes, empty to disable").
				Value(&schedule),
		).WithHideFunc(func() bool { return source != sourceRemote }),
		huh.NewGroup(
			huh.NewInput().
				Title("Fixture patterns").
				Description("Comma-separated globs, relative to the config file").
				Value(&fixtures).
				Validate(requireNonEmpty("fixture pattern")),
		).WithHideFunc(func() bool { return source != sourceFixtures }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&theme),
			huh.NewConfirm().
				Title("Start new orders empty?").
				Description("Otherwise new orders begin with sample line items").
				Value(&startEmpty),
		),
	)
	if err := form.Run(); err != nil {
		return ConfigOptions{}, err
	}

	out := ConfigOptions{Theme: theme, StartEmpty: startEmpty}
	switch source {
	case sourceRemote:
		out.LookupURL = lookupURL
		out.RefreshSchedule = schedule
		out.CacheTTL, _ = time.ParseDuration(cacheTTL)
	case sourceFixtures:
		out.Fixtures = splitList(fixtures)
	}
	return out, nil
}

func (w *Wizard) printNextSteps(p *printer.Printer, answers ConfigOptions) {
	p.Printf("")
	p.Section("Next Steps")

	step := 1
	if len(answers.Fixtures) > 0 {
		p.Printf("  %d. Place lookup files matching %s", step, strings.Join(answers.Fixtures, ", "))
		step++
	}
	if answers.LookupURL != "" {
		p.Printf("  %d. Run 'rollbook doctor --autofix' to prime the lookup cache", step)
		step++
	}

	p.Printf("  %d. Run 'rollbook' to start a new order", step)
}

func requireNonEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func validDuration(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("use a duration like 72h or 30m")
	}
	if d < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

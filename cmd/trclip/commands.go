package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/thesavant42/timerange-clipboard/internal/config"
	"github.com/thesavant42/timerange-clipboard/internal/db"
	"github.com/thesavant42/timerange-clipboard/internal/models"
	"github.com/thesavant42/timerange-clipboard/internal/navigator"
	"github.com/thesavant42/timerange-clipboard/internal/state"
	"github.com/thesavant42/timerange-clipboard/internal/timerange"
	"github.com/thesavant42/timerange-clipboard/internal/ui"
)

var errCancelled = errors.New("cancelled")

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

func interactive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// resolveURL picks the page URL from, in order: --url, the first argument,
// the system clipboard, or an interactive prompt.
func resolveURL(flagURL string, fromClipboard bool, args []string, title string) (string, error) {
	u := flagURL
	if u == "" && len(args) > 0 {
		u = args[0]
	}
	if u == "" && fromClipboard {
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		u = text
	}
	if u == "" && interactive() {
		value, cancelled, err := ui.PromptForURL(title, "")
		if err != nil {
			return "", err
		}
		if cancelled {
			return "", errCancelled
		}
		u = value
	}
	u = strings.TrimSpace(u)
	if u == "" {
		return "", errors.New("no URL given; pass --url, an argument, or --clipboard")
	}
	return u, nil
}

func (a *app) copy(args []string) error {
	fs := newFlagSet("copy")
	rawURL := fs.StringP("url", "u", "", "page URL")
	fromClipboard := fs.BoolP("clipboard", "c", false, "read the URL from the system clipboard")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := resolveURL(*rawURL, *fromClipboard, fs.Args(), "Copy time range")
	if err != nil {
		return err
	}

	s := a.store.Dispatch(state.SetActiveURL{URL: u})
	if s.ActiveFormat == nil {
		return fmt.Errorf("no URL format matches %s", u)
	}
	if s.ActiveRange == nil {
		return fmt.Errorf("no time range found in %s", u)
	}

	site, err := navigator.SiteOf(u)
	if err != nil {
		a.logger.Debug("No site label", "url", u, "err", err)
	}
	clip, err := a.db.SaveClip(*s.ActiveRange, u, site)
	if err != nil {
		return fmt.Errorf("failed to save clip: %w", err)
	}
	a.store.Dispatch(state.SetClipped{Range: &clip.Range})

	ui.PrintSuccess("Copied time range")
	ui.PrintRange("Range", s.ActiveRange, s.ActiveDisplay)
	if site != "" {
		ui.PrintField("Site", site)
	}
	return nil
}

func (a *app) paste(args []string) error {
	fs := newFlagSet("paste")
	rawURL := fs.StringP("url", "u", "", "page URL to rewrite")
	useClipboard := fs.BoolP("clipboard", "c", false, "read the URL from the system clipboard and write the result back")
	timeout := fs.Duration("timeout", 5*time.Second, "how long to wait for the page to settle")
	if err := fs.Parse(args); err != nil {
		return err
	}

	clip, err := a.db.LatestClip()
	if errors.Is(err, db.ErrNoClip) {
		return errors.New("nothing clipped yet; run trclip copy first")
	}
	if err != nil {
		return err
	}

	u, err := resolveURL(*rawURL, *useClipboard, fs.Args(), "Paste time range into")
	if err != nil {
		return err
	}
	s := a.store.Dispatch(state.SetActiveURL{URL: u})
	if s.ActiveFormat == nil {
		return fmt.Errorf("no URL format matches %s", u)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	page := navigator.NewPage(u, a.logger)
	var (
		target   string
		strategy navigator.Strategy
	)
	apply := func() error {
		var err error
		target, strategy, err = navigator.Paste(ctx, a.engine, page, clip.Range, s.ActiveFormat)
		return err
	}
	if interactive() {
		err = ui.RunWithSpinner("Applying time range...", apply)
	} else {
		err = apply()
	}
	if err != nil {
		return err
	}

	if *useClipboard {
		if err := clipboard.WriteAll(target); err != nil {
			return fmt.Errorf("failed to write clipboard: %w", err)
		}
	}

	if !isTerminal(os.Stdout) {
		fmt.Println(target)
		return nil
	}
	ui.PrintSuccess("Pasted time range")
	ui.PrintRange("Range", &clip.Range, s.ActiveDisplay)
	ui.PrintField("Applied", strategy.String())
	ui.PrintField("URL", target)
	return nil
}

func (a *app) show(args []string) error {
	fs := newFlagSet("show")
	rawURL := fs.StringP("url", "u", "", "page URL")
	fromClipboard := fs.BoolP("clipboard", "c", false, "read the URL from the system clipboard")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := resolveURL(*rawURL, *fromClipboard, fs.Args(), "Show time range")
	if err != nil {
		return err
	}
	s := a.store.Dispatch(state.SetActiveURL{URL: u})

	ui.PrintField("URL", ui.TruncateMiddle(u, 70))
	if s.ActiveFormat == nil {
		ui.PrintField("Format", ui.RenderDim("no format matches"))
	} else {
		ui.PrintField("Format", ui.DescribeFormat(s.ActiveFormat))
	}
	ui.PrintRange("Active", s.ActiveRange, s.ActiveDisplay)

	clip, err := a.db.LatestClip()
	switch {
	case errors.Is(err, db.ErrNoClip):
		ui.PrintRange("Clipped", nil, s.ActiveDisplay)
	case err != nil:
		return err
	default:
		ui.PrintRange("Clipped", &clip.Range, s.ActiveDisplay)
	}
	ui.PrintField("Zone", timerange.DisplayTimeZone(s.ActiveDisplay))
	return nil
}

func (a *app) set(args []string) error {
	fs := newFlagSet("set")
	from := fs.String("from", "", `range start: RFC3339, epoch ms, or text like "yesterday 3pm"`)
	to := fs.String("to", "now", "range end, same forms as --from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *from == "" {
		return errors.New("--from is required")
	}

	now := time.Now()
	start, err := parseTime(*from, now)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	end, err := parseTime(*to, now)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}
	r := models.TimeRange{Start: start.UnixMilli(), End: end.UnixMilli()}
	if r.Start > r.End {
		a.logger.Warn("Range ends before it starts", "from", start, "to", end)
	}

	clip, err := a.db.SaveClip(r, "", "")
	if err != nil {
		return fmt.Errorf("failed to save clip: %w", err)
	}
	a.store.Dispatch(state.SetClipped{Range: &clip.Range})

	ui.PrintSuccess("Clipped time range")
	ui.PrintRange("Range", &clip.Range, a.cfg.Config.DisplayOptions)
	return nil
}

func (a *app) history(args []string) error {
	fs := newFlagSet("history")
	limit := fs.IntP("limit", "n", 20, "number of entries; 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	clips, err := a.db.ClipHistory(*limit)
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		fmt.Println("No clipped time ranges.")
		return nil
	}
	ui.PrintClipTable(clips, a.cfg.Config.DisplayOptions)
	return nil
}

func (a *app) clear(args []string) error {
	fs := newFlagSet("clear")
	yes := fs.BoolP("yes", "y", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	clips, err := a.db.ClipHistory(0)
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		fmt.Println("Nothing to clear.")
		return nil
	}
	if !*yes {
		if !interactive() {
			return errors.New("refusing to clear without --yes")
		}
		ok, err := ui.ConfirmClear(len(clips))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	n, err := a.db.ClearClips()
	if err != nil {
		return err
	}
	a.store.Dispatch(state.SetClipped{})
	ui.PrintSuccess(fmt.Sprintf("Cleared %d clipped time range(s)", n))
	return nil
}

func (a *app) config(args []string) error {
	if len(args) == 0 {
		return errors.New("config needs a subcommand: init, show, path, import, reset")
	}
	sub, args := args[0], args[1:]
	switch sub {
	case "init":
		return a.configInit(args)
	case "show":
		return a.configShow(args)
	case "path":
		ui.PrintField("Config", a.configFile())
		ui.PrintField("Database", a.dbPath)
		return nil
	case "import":
		return a.configImport(args)
	case "reset":
		if err := a.db.DeleteConfigDocument(); err != nil {
			return err
		}
		ui.PrintSuccess("Removed stored config")
		return nil
	}
	return fmt.Errorf("unknown config subcommand %q", sub)
}

// configFile is the file the effective config came from, or where
// `config init` would write one.
func (a *app) configFile() string {
	if a.cfg.Path != "" {
		return a.cfg.Path
	}
	return config.DefaultPath(config.FormatYAML)
}

func (a *app) configInit(args []string) error {
	fs := newFlagSet("config init")
	formatName := fs.String("format", "yaml", "yaml or toml")
	output := fs.StringP("output", "o", "", "file to write; defaults to ~/.trclip/config.<format>")
	force := fs.BoolP("force", "f", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := config.ParseFormat(*formatName)
	if err != nil {
		return err
	}
	data := config.DefaultYAML
	if format != config.FormatYAML {
		if data, err = config.Convert(config.DefaultYAML, config.FormatYAML, format); err != nil {
			return err
		}
	}

	path := *output
	if path == "" {
		path = config.DefaultPath(format)
	}
	if _, err := os.Stat(path); err == nil && !*force {
		if !interactive() {
			return fmt.Errorf("%s exists; use --force to overwrite", path)
		}
		ok, err := ui.ConfirmOverwrite(path)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	ui.PrintSuccess("Wrote " + path)
	return nil
}

func (a *app) configShow(args []string) error {
	fs := newFlagSet("config show")
	as := fs.String("as", "", "print the document converted to yaml or toml")
	sample := fs.Bool("sample", false, "print the annotated sample config instead")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *sample {
		fmt.Print(string(config.SampleYAML))
		return nil
	}

	doc := a.cfg.Document
	if *as != "" {
		to, err := config.ParseFormat(*as)
		if err != nil {
			return err
		}
		if doc, err = config.Convert(doc, a.cfg.Format, to); err != nil {
			return err
		}
	}

	if isTerminal(os.Stdout) {
		ui.PrintField("Source", string(a.cfg.Source))
		if a.cfg.Path != "" {
			ui.PrintField("Path", a.cfg.Path)
		}
		ui.PrintField("Formats", fmt.Sprintf("%d", len(a.cfg.Config.URLFormats)))
		ui.PrintField("Zone", timerange.DisplayTimeZone(a.cfg.Config.DisplayOptions))
		fmt.Println()
	}
	fmt.Print(string(doc))
	return nil
}

func (a *app) configImport(args []string) error {
	fs := newFlagSet("config import")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: trclip config import FILE")
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	format := config.FormatForPath(path)
	cfg, err := config.Parse(data, format)
	if err != nil {
		return err
	}
	if err := a.db.SaveConfigDocument(string(data), string(format)); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Stored config with %d URL format(s)", len(cfg.URLFormats)))
	if a.cfg.Source == config.SourceFlag || a.cfg.Source == config.SourceEnv {
		ui.PrintField("Note", ui.RenderDim(fmt.Sprintf("%s still takes precedence", a.cfg.Path)))
	}
	return nil
}

func (a *app) popup(args []string) error {
	fs := newFlagSet("popup")
	rawURL := fs.StringP("url", "u", "", "page URL to start with")
	fromClipboard := fs.BoolP("clipboard", "c", false, "start with the URL on the system clipboard")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !interactive() {
		return errors.New("popup needs a terminal")
	}

	u := *rawURL
	if u == "" && fs.NArg() > 0 {
		u = fs.Arg(0)
	}
	if u == "" && *fromClipboard {
		text, err := clipboard.ReadAll()
		if err != nil {
			return fmt.Errorf("failed to read clipboard: %w", err)
		}
		u = strings.TrimSpace(text)
	}

	clip, err := a.db.LatestClip()
	switch {
	case err == nil:
		a.store.Dispatch(state.SetClipped{Range: &clip.Range})
	case !errors.Is(err, db.ErrNoClip):
		return err
	}

	page := navigator.NewPage(u, a.logger)
	final, err := ui.RunPopup(ui.PopupConfig{
		Store:   a.store,
		Engine:  a.engine,
		Page:    page,
		Clips:   a.db,
		Logger:  a.logger,
		Version: version,
	})
	if err != nil {
		return err
	}
	if final.ActiveURL != "" && final.ActiveURL != u {
		fmt.Println(final.ActiveURL)
	}
	return nil
}

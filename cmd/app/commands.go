package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/starford/kamus/internal"
	"github.com/starford/kamus/internal/export"
	"github.com/starford/kamus/internal/i18n"
	"github.com/starford/kamus/internal/mcpserver"
	"github.com/starford/kamus/internal/secret"
	pkgconfig "github.com/starford/kamus/pkg/config"
)

// newRootCommand builds the CLI. extra options are appended when the app
// is built; tests use them to swap the AI backend.
func newRootCommand(extra ...internal.Option) *cli.Command {
	return &cli.Command{
		Name:    "kamus",
		Usage:   "English-Indonesian vocabulary builder with AI translations",
		Version: version,
		Action:  serve(extra),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the web UI and JSON API",
				Action: serve(extra),
			},
			{
				Name:      "add",
				Usage:     "Translate a word and add it to the list",
				ArgsUsage: "<word>",
				Action:    withApp(extra, addAction),
			},
			{
				Name:      "import",
				Usage:     "Extract vocabulary from a URL or text (\"-\" reads stdin)",
				ArgsUsage: "<url|text|->",
				Action:    withApp(extra, importAction),
			},
			{
				Name:   "list",
				Usage:  "Print the list, newest first",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Print JSON"}},
				Action: withApp(extra, listAction),
			},
			{
				Name:      "toggle",
				Usage:     "Flip the memorized flag of an entry",
				ArgsUsage: "<id>",
				Action:    withApp(extra, toggleAction),
			},
			{
				Name:      "remove",
				Usage:     "Remove an entry",
				ArgsUsage: "<id>",
				Action:    withApp(extra, removeAction),
			},
			{
				Name:   "clear",
				Usage:  "Remove every entry",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"}},
				Action: withApp(extra, clearAction),
			},
			{
				Name:      "export",
				Usage:     "Write the list to an XLSX file",
				ArgsUsage: "<file.xlsx>",
				Action:    withApp(extra, exportAction),
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools on stdin/stdout",
				Action: withApp(extra, mcpAction),
			},
			{
				Name:  "key",
				Usage: "Manage the AI API key in the OS keyring",
				Commands: []*cli.Command{
					{
						Name:      "set",
						Usage:     "Store the key (reads stdin when omitted)",
						ArgsUsage: "[key]",
						Action:    keySetAction,
					},
					{
						Name:   "delete",
						Usage:  "Remove the stored key",
						Action: keyDeleteAction,
					},
				},
			},
		},
	}
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	path := cmd.String("config")
	cfg := internal.NewDefaultConfig()
	loaded, err := pkgconfig.LoadOptional(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !loaded {
		slog.Debug("config file not found, using defaults", slog.String("path", path))
	}
	return cfg, nil
}

func serve(extra []internal.Option) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts := append([]internal.Option{internal.WithConfig(cfg)}, extra...)
		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

type appAction func(ctx context.Context, cmd *cli.Command, app *internal.App) error

// withApp builds the app with a stderr text logger so stdout stays clean
// for command output and the MCP transport.
func withApp(extra []internal.Option, fn appAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.App.LogLevel}))
		slog.SetDefault(logger)

		opts := append([]internal.Option{internal.WithConfig(cfg), internal.WithLogger(logger)}, extra...)
		app, err := internal.NewApp(opts...)
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				logger.Error("storage close failed", slog.String("error", err.Error()))
			}
		}()
		return fn(ctx, cmd, app)
	}
}

func out(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func in(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

func addAction(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	word, err := requireArg(cmd, "word")
	if err != nil {
		return err
	}
	e, err := app.Service.Add(ctx, word)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out(cmd), "%s\t%s → %s\n%s\n", e.ID, e.English, e.Indonesian, e.Note)
	return err
}

func importAction(ctx context.Context, cmd *cli.Command, app *internal.App) error {
	source, err := requireArg(cmd, "source")
	if err != nil {
		return err
	}
	if source == "-" {
		data, err := io.ReadAll(in(cmd))
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		source = string(data)
	}
	added, err := app.Service.Import(ctx, source)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	for _, e := range added {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, e.English, e.Indonesian)
	}
	return w.Flush()
}

func listAction(_ context.Context, cmd *cli.Command, app *internal.App) error {
	entries := app.Service.List()
	if cmd.Bool("json") {
		enc := json.NewEncoder(out(cmd))
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	msgs := app.Msgs
	st := app.Service.Stats()
	w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s: %d / %d (%d%%)\n\n", msgs.T(i18n.UIProgress), st.Memorized, st.Total, st.Progress)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\tID\n",
		msgs.T(i18n.UIColNo), msgs.T(i18n.UIColEnglish), msgs.T(i18n.UIColIndonesian),
		msgs.T(i18n.UIColStatus), msgs.T(i18n.UIColNote))
	for i, e := range entries {
		status := msgs.T(i18n.UIStatusLearning)
		if e.IsMemorized {
			status = msgs.T(i18n.UIStatusMemorized)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", len(entries)-i, e.English, e.Indonesian, status, e.Note, e.ID)
	}
	return w.Flush()
}

func toggleAction(_ context.Context, cmd *cli.Command, app *internal.App) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	e, err := app.Service.Toggle(id)
	if err != nil {
		return fmt.Errorf("toggle %s: %w", id, err)
	}
	status := app.Msgs.T(i18n.UIStatusLearning)
	if e.IsMemorized {
		status = app.Msgs.T(i18n.UIStatusMemorized)
	}
	_, err = fmt.Fprintf(out(cmd), "%s: %s\n", e.English, status)
	return err
}

func removeAction(_ context.Context, cmd *cli.Command, app *internal.App) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := app.Service.Remove(id); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	return nil
}

func clearAction(_ context.Context, cmd *cli.Command, app *internal.App) error {
	confirmed := cmd.Bool("yes")
	if !confirmed {
		fmt.Fprintf(out(cmd), "%s [y/N] ", app.Msgs.T(i18n.UIConfirmClear))
		line, _ := bufio.NewReader(in(cmd)).ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			_, err := fmt.Fprintln(out(cmd), "cancelled")
			return err
		}
		confirmed = true
	}
	return app.Service.ClearAll(confirmed)
}

func exportAction(_ context.Context, cmd *cli.Command, app *internal.App) error {
	path, err := requireArg(cmd, "file")
	if err != nil {
		return err
	}
	if err := export.SaveXLSX(path, app.Service.List(), app.Msgs); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out(cmd), "%s\n", path)
	return err
}

func mcpAction(_ context.Context, _ *cli.Command, app *internal.App) error {
	return mcpserver.New(app.Service, version).ServeStdio()
}

func keySetAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	key := strings.TrimSpace(cmd.Args().First())
	if key == "" {
		line, err := bufio.NewReader(in(cmd)).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read key: %w", err)
		}
		key = strings.TrimSpace(line)
	}
	if err := secret.Set(cfg.AI.Provider, key); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out(cmd), "stored %s key\n", cfg.AI.Provider)
	return err
}

func keyDeleteAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return secret.Delete(cfg.AI.Provider)
}

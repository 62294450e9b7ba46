package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/kriansa/ordo-mount/internal/command"
	"github.com/kriansa/ordo-mount/internal/config"
	"github.com/kriansa/ordo-mount/internal/drive"
	"github.com/kriansa/ordo-mount/internal/log"
	"github.com/kriansa/ordo-mount/internal/mount"
	"github.com/kriansa/ordo-mount/internal/notify"
	"github.com/kriansa/ordo-mount/internal/paths"
	"github.com/kriansa/ordo-mount/internal/rclone"
	"github.com/kriansa/ordo-mount/internal/tui"
	"github.com/kriansa/ordo-mount/internal/version"
)

func main() {
	pathFlag := &cli.StringFlag{
		Name:    "path",
		Aliases: []string{"p"},
		Usage:   "Mount point (defaults to <base-dir>/<remote>)",
	}

	cmd := &cli.Command{
		Name:  version.Name,
		Usage: "Mount rclone remotes as local drives",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file path",
				Value:   config.DefaultPath(),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"V"},
				Usage:   "Print version information",
			},
			&cli.StringFlag{
				Name:    "base-dir",
				Aliases: []string{"b"},
				Usage:   "Directory holding one mount point per remote",
			},
			&cli.StringFlag{
				Name:  "rclone",
				Usage: "rclone executable",
			},
			&cli.StringFlag{
				Name:  "rclone-config",
				Usage: "rclone configuration file",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for every external command",
			},
			&cli.StringFlag{
				Name:  "probe",
				Usage: "Mount state probe: mountpoint or procmounts",
			},
			&cli.BoolFlag{
				Name:  "notify",
				Usage: "Send desktop notifications after mount and unmount",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file while the terminal UI runs",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			log.Setup(cmd.Bool("verbose"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List configured remotes",
				Action: runList,
			},
			{
				Name:      "mount",
				Usage:     "Mount a remote",
				ArgsUsage: "<remote>",
				Flags:     []cli.Flag{pathFlag},
				Action:    runMount,
			},
			{
				Name:      "unmount",
				Usage:     "Unmount a remote",
				ArgsUsage: "<remote>",
				Flags:     []cli.Flag{pathFlag},
				Action:    runUnmount,
			},
			{
				Name:      "status",
				Usage:     "Print whether a remote is mounted",
				ArgsUsage: "<remote>",
				Flags:     []cli.Flag{pathFlag},
				Action:    runStatus,
			},
			{
				Name:   "ui",
				Usage:  "Start the interactive terminal UI (default)",
				Action: runUI,
			},
		},
		Action: runRoot,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// app holds the wired components shared by every subcommand
type app struct {
	cfg      *config.Config
	manager  *drive.Service
	notifier notify.Notifier
}

func (a *app) Close() {
	if err := a.notifier.Close(); err != nil {
		log.Debug("failed to close notifier", "error", err)
	}
}

func setup(cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	o := config.Overrides{
		BaseDir:      cmd.String("base-dir"),
		Rclone:       cmd.String("rclone"),
		RcloneConfig: cmd.String("rclone-config"),
		Timeout:      cmd.Duration("timeout"),
		Probe:        cmd.String("probe"),
	}
	if cmd.IsSet("notify") {
		notifyOn := cmd.Bool("notify")
		o.Notify = &notifyOn
	}
	cfg.Merge(o)

	baseDir, err := paths.CurrentBaseDir()
	if err != nil {
		log.Warn("unable to resolve home directory", "error", err)
	}
	cfg.ApplyDefaults(baseDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log.Debug("configuration loaded",
		"base_dir", cfg.BaseDir,
		"rclone", cfg.Rclone,
		"timeout", cfg.Timeout.Duration,
		"probe", cfg.Probe,
		"notify", cfg.Notify,
	)

	runner := command.NewExecRunner(cfg.Timeout.Duration)
	rc := rclone.NewCLI(runner, cfg.Rclone, cfg.RcloneConfig)

	prober, err := mount.NewProber(cfg.Probe, runner, cfg.Mountpoint)
	if err != nil {
		return nil, fmt.Errorf("create prober: %w", err)
	}

	notifier := notify.New(cfg.Notify, version.Name)
	return &app{
		cfg:      cfg,
		manager:  drive.NewService(rc, mount.NewRcloneMounter(runner, rc, cfg.Fusermount, cfg.MountArgs), prober, notifier),
		notifier: notifier,
	}, nil
}

func runRoot(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("version") {
		fmt.Println(version.String())
		return nil
	}
	if cmd.Args().Present() {
		return fmt.Errorf("unknown command %q", cmd.Args().First())
	}
	return runUI(ctx, cmd)
}

func runList(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	remotes, err := a.manager.ListRemotes(ctx)
	if err != nil {
		return err
	}
	for _, r := range remotes {
		fmt.Println(r)
	}
	return nil
}

func runMount(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	remote, path, err := target(cmd, a.cfg)
	if err != nil {
		return err
	}

	res, err := a.manager.Mount(ctx, remote, path)
	if err != nil {
		return fmt.Errorf("mount %q: %w", remote, err)
	}
	printOutput(res)
	if !res.Succeeded() {
		return cli.Exit(failureMessage("mount", remote, res), exitCode(res))
	}

	fmt.Printf("%s mounted at %s\n", remote, path)
	return nil
}

func runUnmount(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	remote, path, err := target(cmd, a.cfg)
	if err != nil {
		return err
	}

	res := a.manager.Unmount(ctx, path)
	printOutput(res)
	if !res.Succeeded() {
		return cli.Exit(failureMessage("unmount", remote, res), exitCode(res))
	}

	fmt.Printf("%s unmounted from %s\n", remote, path)
	return nil
}

func runStatus(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	_, path, err := target(cmd, a.cfg)
	if err != nil {
		return err
	}

	state := drive.FromProbe(a.manager.IsMounted(ctx, path))
	if state != drive.Mounted {
		fmt.Println("unmounted")
		return cli.Exit("", 1)
	}
	fmt.Println("mounted")
	return nil
}

func runUI(ctx context.Context, cmd *cli.Command) error {
	if logFile := cmd.String("log-file"); logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f, cmd.Bool("verbose"))
	} else {
		log.Discard()
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(ctx, a.manager, drive.NewSession(a.cfg.BaseDir))
}

// target resolves the remote argument and its mount point
func target(cmd *cli.Command, cfg *config.Config) (rclone.Remote, string, error) {
	if cmd.Args().Len() != 1 {
		return "", "", fmt.Errorf("expected exactly one remote, got %d arguments", cmd.Args().Len())
	}

	remote := normalizeRemote(cmd.Args().First())
	path := cmd.String("path")
	if path == "" {
		path = paths.DefaultPathFor(remote, cfg.BaseDir)
	}
	return remote, path, nil
}

// normalizeRemote accepts "work" as shorthand for "work:"
func normalizeRemote(arg string) rclone.Remote {
	if strings.Contains(arg, ":") {
		return arg
	}
	return arg + ":"
}

func printOutput(res command.Result) {
	if out := strings.TrimRight(res.Output, "\n"); out != "" {
		fmt.Fprintln(os.Stderr, out)
	}
}

// failureMessage describes a failed command for the exit error. The raw
// tool output has already been printed by printOutput.
func failureMessage(op string, remote rclone.Remote, res command.Result) string {
	return fmt.Sprintf("error: %s %q: %s", op, remote, res.Outcome())
}

// exitCode maps a failed command to the process exit code
func exitCode(res command.Result) int {
	if res.ExitCode > 0 {
		return res.ExitCode
	}
	return 1
}

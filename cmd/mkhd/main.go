// Command mkhd is the daemon's CLI entrypoint: the informative surface
// around the core spec (§6) — service lifecycle, config discovery,
// reload signalling, and two dry-run modes for testing a DSL fragment
// without a running daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Danondso/mkhd/internal/daemon"
	"github.com/Danondso/mkhd/internal/daemonconfig"
	"github.com/Danondso/mkhd/internal/keycodes"
	"github.com/Danondso/mkhd/internal/observe"
	"github.com/Danondso/mkhd/internal/parser"
	"github.com/Danondso/mkhd/internal/ruleset"
	"github.com/Danondso/mkhd/internal/runner"
	"github.com/Danondso/mkhd/internal/source"
)

const version = "mkhd 0.1.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Println(version)
			return
		case "install":
			handleInstall()
			return
		case "uninstall":
			handleUninstall()
			return
		case "start", "stop", "restart":
			handleLifecycle(os.Args[1])
			return
		}
	}

	configPath := flag.String("config", "", "path to the hotkey configuration file")
	noHotload := flag.Bool("no-hotload", false, "disable the config file watcher")
	verbose := flag.Bool("verbose", false, "enable verbose logging to stderr")
	profile := flag.String("profile", "", "daemon-settings profile name: read ~/.config/mkhd/daemon.toml.<profile> instead of daemon.toml")
	reload := flag.Bool("reload", false, "signal a running instance (SIGUSR1) to reload and exit")
	keyDryRun := flag.String("key", "", "parse a single key combination and print what it resolves to, then exit")
	textDryRun := flag.String("text", "", "parse a configuration fragment and report errors, then exit")
	observeMode := flag.Bool("observe", false, "run in the foreground with a live TUI of dispatch decisions")
	flag.Parse()

	dcfgPath := daemonconfig.DefaultPath()
	if *profile != "" {
		dcfgPath = daemonconfig.DefaultPath() + "." + *profile
	}
	dcfg, err := daemonconfig.Load(dcfgPath)
	if err != nil {
		log.Fatalf("load daemon settings: %v", err)
	}
	if *configPath != "" {
		dcfg.ConfigPath = *configPath
	}
	if *noHotload {
		dcfg.NoHotload = true
	}
	if *verbose {
		dcfg.Verbose = true
	}

	rulesetPath := daemonconfig.ResolveRulesetPath(dcfg.ConfigPath)

	if *keyDryRun != "" {
		runKeyDryRun(*keyDryRun, rulesetPath)
		return
	}
	if *textDryRun != "" {
		runTextDryRun(*textDryRun)
		return
	}

	if *reload {
		pidPath := daemon.PIDFilePath(dcfg.PIDDir)
		pid, err := daemon.ReadPID(pidPath)
		if err != nil {
			log.Fatalf("read pidfile %s: %v", pidPath, err)
		}
		if err := syscall.Kill(pid, syscall.SIGUSR1); err != nil {
			log.Fatalf("signal pid %d: %v", pid, err)
		}
		return
	}

	runForeground(dcfg, rulesetPath, *observeMode)
}

func runKeyDryRun(text, rulesetPath string) {
	state := ruleset.NewEngineState()
	ev, err := parser.ParseKeyCombination(text, state, keycodes.NullMap{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("type=%s flags=%#x key=%d\n", ev.Type, ev.Flags, ev.Key)
}

func runTextDryRun(text string) {
	state := ruleset.NewEngineState()
	loads, err := parser.Parse(text, "<--text>", state, keycodes.NullMap{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("ok: %d layers, %d load directives\n", len(state.Layers), len(loads))
}

func runForeground(dcfg *daemonconfig.Config, rulesetPath string, observeMode bool) {
	var logOut io.Writer = io.Discard
	if dcfg.Verbose || observeMode {
		logOut = os.Stderr
	}
	logger := log.New(logOut, "[mkhd] ", log.Ltime|log.Lmicroseconds)

	pidPath := daemon.PIDFilePath(dcfg.PIDDir)
	pidFile, err := daemon.AcquirePIDFile(pidPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer pidFile.Release()

	run := runner.New(logger)
	d := daemon.New(rulesetPath, keycodes.NullMap{}, run, logger)

	var program *tea.Program
	if observeMode {
		model := observe.New()
		program = tea.NewProgram(model)
		logger.SetOutput(observe.NewLogWriter(program))
		d.OnDecision = func(ev source.SourceEvent, captured bool) {
			program.Send(observe.DecisionMsg{At: time.Now(), ProcessName: ev.ProcessName, Event: ev.Event, Captured: captured})
		}
		unregister := observe.RegisterQuitHotkey(program, logger)
		defer unregister()
	}

	src, err := newEventSource(dcfg, logger)
	if err != nil {
		log.Fatalf("create event source: %v", err)
	}

	var watcher *configWatcher
	if !dcfg.NoHotload {
		watcher = newConfigWatcher(rulesetPath, logger)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go reloadOnSIGUSR1(d)

	if observeMode {
		go func() {
			if _, err := program.Run(); err != nil {
				log.Fatalf("observe: %v", err)
			}
			cancel()
		}()
	}

	if err := d.Run(ctx, src, watcher); err != nil {
		log.Fatalf("daemon: %v", err)
	}
}

func reloadOnSIGUSR1(d *daemon.Daemon) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGUSR1)
	for range sigs {
		d.RequestReload()
	}
}

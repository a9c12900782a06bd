/*
Poser loads a pose library (one XML pose file and a thumbnail per pose)
and applies its poses to a sample rig.

	poser [-config file] [-assets dir] [-log-level level] <command> [args]

Commands:

	list                 print the pose names in document order
	show <pose>          print the joints and axis values of a pose
	catalog              print the thumbnails reconciled with the pose file
	apply <pose>         apply a pose to the testbed rig
	watch                print the catalog every time the assets folder changes
	init-config <file>   write the current configuration as TOML
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spaghettifunk/poser/engine"
	"github.com/spaghettifunk/poser/engine/core"
	"github.com/spaghettifunk/poser/engine/poses"
	"github.com/spaghettifunk/poser/testbed"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	assetsDir := flag.String("assets", "", "assets folder (overrides the configuration)")
	logLevel := flag.String("log-level", "", "debug, info, warn, error or fatal (overrides the configuration)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := engine.LoadApplicationConfig(*configPath)
	if err != nil {
		core.LogFatal("%s", err)
	}
	if *assetsDir != "" {
		cfg.AssetsDir = *assetsDir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if err := run(cmd, args, cfg, os.Stdout); err != nil {
		core.LogError("%s", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] list|show <pose>|catalog|apply <pose>|watch|init-config <file>\n", os.Args[0])
	flag.PrintDefaults()
}

func run(cmd string, args []string, cfg *engine.ApplicationConfig, out io.Writer) error {
	if cmd == "init-config" {
		if len(args) != 1 {
			return fmt.Errorf("init-config needs a file name")
		}
		if err := engine.SaveApplicationConfig(args[0], *cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "configuration written to %s\n", args[0])
		return nil
	}

	if cmd == "watch" {
		cfg.Watch = true
	}

	tb, err := testbed.NewTestGame(cfg)
	if err != nil {
		return err
	}
	e, err := engine.New(tb.Game)
	if err != nil {
		return err
	}
	defer e.Shutdown()
	if err := e.Initialize(); err != nil {
		return err
	}

	switch cmd {
	case "list":
		return listPoses(e.Library(), out)

	case "show":
		if len(args) != 1 {
			return fmt.Errorf("show needs a pose name")
		}
		return showPose(e.Library(), args[0], out)

	case "catalog":
		return e.Catalog().Render(out)

	case "apply":
		if len(args) != 1 {
			return fmt.Errorf("apply needs a pose name")
		}
		report, err := e.ApplyPose(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s applied to %s (%d values)\n", report.Pose, strings.Join(report.Applied, ", "), report.Calls)
		for _, name := range report.Skipped {
			fmt.Fprintf(out, "  %s skipped: not in the rig\n", name)
		}
		for _, name := range report.Applied {
			node, _ := tb.Rig.Node(name)
			p, r := node.Transform.Position, node.Transform.Rotation
			fmt.Fprintf(out, "  %-14s t(%g, %g, %g) r(%g, %g, %g)\n", name, p.X, p.Y, p.Z, r.X, r.Y, r.Z)
		}
		return nil

	case "watch":
		return watch(e, out)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func listPoses(library *poses.Store, out io.Writer) error {
	if library == nil {
		return core.ErrNoPoseFile
	}
	if library.IsEmpty() {
		fmt.Fprintf(out, "pose file %s defines no poses\n", library.Path())
		return nil
	}
	for _, name := range library.PoseNames() {
		fmt.Fprintln(out, name)
	}
	return nil
}

func showPose(library *poses.Store, name string, out io.Writer) error {
	if library == nil {
		return core.ErrNoPoseFile
	}
	pose, ok := library.Pose(name)
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrPoseNotFound, name)
	}
	fmt.Fprintln(out, pose.Name())
	for _, j := range pose.Joints() {
		fmt.Fprintf(out, "  %s\n", j.Name())
		for _, category := range j.Categories() {
			attrs, _ := j.Category(category)
			fmt.Fprintf(out, "    %s:", category)
			for _, key := range sortedKeys(attrs) {
				fmt.Fprintf(out, " %s=%q", key, attrs[key])
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}

func sortedKeys(attrs poses.Attributes) []string {
	keys := make([]string, 0, len(attrs))
	for _, axis := range append(poses.TranslationAxes[:], poses.RotationAxes[:]...) {
		if _, ok := attrs[axis.String()]; ok {
			keys = append(keys, axis.String())
		}
	}
	var extra []string
	for key := range attrs {
		if poses.Axis(key).Index() < 0 {
			extra = append(extra, key)
		}
	}
	slices.Sort(extra)
	return append(keys, extra...)
}

func watch(e *engine.Engine, out io.Writer) error {
	if err := e.Catalog().Render(out); err != nil {
		return err
	}
	core.EventRegister(core.EVENT_CODE_LIBRARY_RELOADED, out, func(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
		if err := e.Catalog().Render(out); err != nil {
			core.LogError("%s", err)
		}
		return false
	})

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	// quit on the first signal
	go func() {
		<-sigCh
		e.Quit()
	}()

	if err := e.Run(); err != nil && !errors.Is(err, core.ErrAlreadyShutdown) {
		return err
	}
	return nil
}

// Command replay runs a recorded gesture scenario against a fresh wheel and
// prints the outbound commands and the resulting route. It is the offline
// harness for tuning hover-lock and jitter thresholds without a client.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/olinekleiven/snarveg/application/gesture"
	domaincfg "github.com/olinekleiven/snarveg/domain/config"
	"github.com/olinekleiven/snarveg/domain/core/aggregates"
	"github.com/olinekleiven/snarveg/domain/core/entities"
	"github.com/olinekleiven/snarveg/domain/core/valueobjects"
)

// Scenario is the TOML description of one replay run
type Scenario struct {
	Origin       Card    `toml:"origin"`
	Destinations []Card  `toml:"destinations"`
	Steps        []Step  `toml:"steps"`
	HoverLockMs  int     `toml:"hover_lock_ms"`
	JitterPixels float64 `toml:"jitter_pixels"`
}

// Card names a destination in the scenario
type Card struct {
	Label string `toml:"label"`
	Icon  string `toml:"icon"`
	Color string `toml:"color"`
}

// Step is one replay action. Target resolves against a destination label
// (or "origin"); X/Y are used when Target is empty.
type Step struct {
	Op      string  `toml:"op"` // down, move, up, cancel, advance, edit
	Target  string  `toml:"target"`
	X       float64 `toml:"x"`
	Y       float64 `toml:"y"`
	Ms      int     `toml:"ms"`
	Enabled bool    `toml:"enabled"`
}

var (
	headline = color.New(color.FgCyan, color.Bold)
	good     = color.New(color.FgGreen)
	warn     = color.New(color.FgYellow)
	faint    = color.New(color.Faint)
)

func main() {
	root := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded wheel gestures against a fresh wheel",
		Long: "replay loads a TOML gesture scenario, drives the gesture state machine\n" +
			"with a manual clock, and prints every outbound command plus the route\n" +
			"the connection set linearizes to.",
	}
	root.AddCommand(runCmd(), sampleCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run <scenario.toml>",
		Short: "Run a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var scenario Scenario
			if _, err := toml.DecodeFile(args[0], &scenario); err != nil {
				return fmt.Errorf("failed to parse scenario: %w", err)
			}
			return runScenario(&scenario, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every step as it executes")
	return cmd
}

func runScenario(scenario *Scenario, verbose bool) error {
	cfg := domaincfg.DefaultDomainConfig()
	if scenario.HoverLockMs > 0 {
		cfg.HoverLockDuration = time.Duration(scenario.HoverLockMs) * time.Millisecond
		cfg.LockConfirmDuration = cfg.HoverLockDuration
	}
	if scenario.JitterPixels > 0 {
		cfg.JitterThreshold = scenario.JitterPixels
	}

	originLabel := scenario.Origin.Label
	if originLabel == "" {
		originLabel = "Here"
	}
	originCard, err := valueobjects.NewCardWithConfig(originLabel, scenario.Origin.Icon, scenario.Origin.Color, cfg)
	if err != nil {
		return err
	}
	wheel, err := aggregates.NewWheel("replay", originCard, cfg)
	if err != nil {
		return err
	}

	// Fill the scenario's destinations, growing the ring as needed
	points := map[string]valueobjects.Point{"origin": {}}
	for _, dest := range scenario.Destinations {
		slot := firstPlaceholder(wheel)
		if slot == nil {
			added, err := wheel.AddPlaceholder()
			if err != nil {
				return fmt.Errorf("destination %q: %w", dest.Label, err)
			}
			slot = added
		}
		card, err := valueobjects.NewCardWithConfig(dest.Label, dest.Icon, dest.Color, cfg)
		if err != nil {
			return err
		}
		if err := wheel.FillDestination(slot.ID(), card); err != nil {
			return err
		}
	}
	// Angles settle once all fills are done; capture each label's point
	labels := map[string]string{}
	for _, d := range wheel.Destinations() {
		if d.IsPlaceholder() {
			continue
		}
		points[d.Card().Label()] = d.Position().Point()
		labels[d.ID().String()] = d.Card().Label()
	}
	points["origin"] = valueobjects.Point{}
	labels[wheel.Origin().ID().String()] = originLabel

	clock := gesture.NewManualClock(time.Now())
	name := func(id valueobjects.DestinationID) string {
		if label, ok := labels[id.String()]; ok {
			return label
		}
		return id.String()
	}

	hooks := gesture.Hooks{
		OnDrawStart: func(from valueobjects.DestinationID) {
			faint.Printf("  draw start: %s\n", name(from))
		},
		OnConnectionCreate: func(from, to valueobjects.DestinationID) {
			good.Printf("  connect: %s -> %s\n", name(from), name(to))
		},
		OnConnectionLock: func(from, to valueobjects.DestinationID) {
			good.Printf("  locked:  %s -> %s\n", name(from), name(to))
		},
		OnNodeClick: func(id valueobjects.DestinationID, kind gesture.ClickKind) {
			faint.Printf("  %s: %s\n", kind, name(id))
		},
		OnAdvisory: func(message string) {
			warn.Printf("  advisory: %s\n", message)
		},
	}
	machine := gesture.NewMachine(wheel, clock, nil, hooks, nil)

	headline.Printf("replaying %d steps\n", len(scenario.Steps))
	for i, step := range scenario.Steps {
		p, err := resolvePoint(step, points)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if verbose {
			faint.Printf("step %d: %s %s\n", i+1, step.Op, describe(step))
		}
		switch strings.ToLower(step.Op) {
		case "down":
			machine.PointerDown(p)
		case "move":
			machine.PointerMove(p)
		case "up":
			machine.PointerUp(p)
		case "cancel":
			machine.PointerCancel()
		case "advance":
			clock.Advance(time.Duration(step.Ms) * time.Millisecond)
		case "edit":
			machine.SetEditMode(step.Enabled)
		default:
			return fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
	}
	// Flush any pending lock-confirmation timer
	clock.Advance(cfg.LockConfirmDuration)

	headline.Println("\nroute")
	route := wheel.Linearize()
	if route == nil {
		warn.Println("  no route: fewer than two connected stops")
		return nil
	}
	fmt.Printf("  %s\n", strings.Join(route.Labels, " -> "))
	for i, mode := range route.Legs {
		faint.Printf("  leg %d: %s -> %s by %s\n", i+1, route.Labels[i], route.Labels[i+1], mode)
	}
	fmt.Printf("  total: %s, %.1f km\n", route.Duration, route.DistanceKm)
	return nil
}

func firstPlaceholder(wheel *aggregates.Wheel) *entities.Destination {
	for _, d := range wheel.Ring() {
		if d.IsPlaceholder() {
			return d
		}
	}
	return nil
}

func resolvePoint(step Step, points map[string]valueobjects.Point) (valueobjects.Point, error) {
	if step.Target == "" {
		return valueobjects.Point{X: step.X, Y: step.Y}, nil
	}
	p, ok := points[step.Target]
	if !ok {
		return valueobjects.Point{}, fmt.Errorf("unknown target %q", step.Target)
	}
	return p, nil
}

func describe(step Step) string {
	if step.Target != "" {
		return step.Target
	}
	switch strings.ToLower(step.Op) {
	case "advance":
		return fmt.Sprintf("%dms", step.Ms)
	case "edit":
		return fmt.Sprintf("enabled=%v", step.Enabled)
	default:
		return fmt.Sprintf("(%.0f, %.0f)", step.X, step.Y)
	}
}

func sampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print a sample scenario file",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(sampleScenario)
		},
	}
}

const sampleScenario = `# Drag from the origin to Cafe and dwell until the connection locks,
# then continue the chain to Museum with a manual release.

hover_lock_ms = 1000

[origin]
label = "Home"

[[destinations]]
label = "Cafe"

[[destinations]]
label = "Museum"

[[steps]]
op = "down"
target = "origin"

[[steps]]
op = "move"
target = "Cafe"

[[steps]]
op = "advance"
ms = 1000

[[steps]]
op = "down"
target = "Cafe"

[[steps]]
op = "move"
target = "Museum"

[[steps]]
op = "up"
target = "Museum"
`

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dd0wney/cluso-habitat/pkg/algorithms"
	"github.com/dd0wney/cluso-habitat/pkg/building"
	"github.com/dd0wney/cluso-habitat/pkg/config"
	"github.com/dd0wney/cluso-habitat/pkg/fixtures"
	"github.com/dd0wney/cluso-habitat/pkg/habitat"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/dd0wney/cluso-habitat/pkg/repair"
	"github.com/dd0wney/cluso-habitat/pkg/validation"
	"github.com/dd0wney/cluso-habitat/pkg/visualization"
)

type CLI struct {
	engine  *habitat.Engine
	scanner *bufio.Scanner
	out     io.Writer
}

func main() {
	env := config.LoadEnv()
	configPath := flag.String("config", env.ConfigPath, "Building YAML file (default: embedded demo)")
	flag.Parse()

	logger := logging.NewTextLogger(os.Stderr, env.LogLevel)

	printBanner()

	cfg, err := fixtures.LoadOrDemo(*configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load building: %v\n", err)
		os.Exit(1)
	}
	engine, err := habitat.NewFromConfig(cfg, logger, nil)
	if err != nil {
		fmt.Printf("❌ Failed to build %q: %v\n", cfg.Name, err)
		os.Exit(1)
	}
	defer engine.Close()

	stats := engine.Snapshot()
	fmt.Printf("✅ Building %q loaded\n", engine.Name())
	fmt.Printf("   Spaces: %d\n", len(stats.Spaces))
	fmt.Printf("   Walls: %d\n\n", len(stats.Walls))

	cli := newCLI(engine, os.Stdin, os.Stdout)

	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()

	cli.run()
}

func newCLI(engine *habitat.Engine, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		engine:  engine,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                                                           ║
║   ██╗  ██╗ █████╗ ██████╗ ██╗████████╗ █████╗ ████████╗   ║
║   ██║  ██║██╔══██╗██╔══██╗██║╚══██╔══╝██╔══██╗╚══██╔══╝   ║
║   ███████║███████║██████╔╝██║   ██║   ███████║   ██║      ║
║   ██╔══██║██╔══██║██╔══██╗██║   ██║   ██╔══██║   ██║      ║
║   ██║  ██║██║  ██║██████╔╝██║   ██║   ██║  ██║   ██║      ║
║   ╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝ ╚═╝   ╚═╝   ╚═╝  ╚═╝   ╚═╝      ║
║                                                           ║
║            Acoustic Habitability Shell v1.0               ║
║                                                           ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}

func (cli *CLI) printf(format string, args ...any) {
	fmt.Fprintf(cli.out, format, args...)
}

func (cli *CLI) run() {
	for {
		cli.printf("habitat> ")

		if !cli.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(cli.scanner.Text())
		if input == "" {
			continue
		}

		if input == "exit" || input == "quit" {
			cli.printf("👋 Goodbye!\n")
			break
		}

		cli.executeCommand(input)
		cli.printf("\n")
	}
}

func (cli *CLI) executeCommand(input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	command := strings.ToLower(parts[0])

	switch command {
	case "help":
		cli.showHelp()

	case "list", "ls":
		cli.listSpaces()

	case "noise":
		if len(parts) < 2 {
			cli.printf("Usage: noise <space-id>\n")
			return
		}
		cli.showNoise(parts[1])

	case "habitable":
		if len(parts) < 2 {
			cli.printf("Usage: habitable <space-id>\n")
			return
		}
		cli.showHabitable(parts[1])

	case "report":
		cli.showReport(cli.engine.Evaluate())

	case "check":
		cli.runCheck()

	case "color", "colour":
		cli.runColoring(parts[1:])

	case "repair":
		cli.runRepair()

	case "reset":
		ev := cli.engine.Reset()
		cli.printf("✅ Building restored to its loaded state\n")
		cli.showReport(ev)

	case "set-noise":
		if len(parts) < 4 {
			cli.printf("Usage: set-noise <source-id> <frequency> <intensity>\n")
			return
		}
		cli.setNoise(parts[1], parts[2], parts[3])

	case "render":
		if len(parts) < 3 {
			cli.printf("Usage: render <habitability|gradient|coloring> <file.png|svg|pdf>\n")
			return
		}
		cli.render(parts[1], parts[2])

	case "clear":
		cli.printf("\033[H\033[2J")

	default:
		cli.printf("❌ Unknown command: %s (type 'help' for available commands)\n", command)
	}
}

func (cli *CLI) showHelp() {
	help := `
📖 Available Commands:

🔍 Inspection:
  list                  List spaces with noise and verdict
  noise <id>            Perceived noise level of a space
  habitable <id>        Whether a space meets its threshold
  report                Full evaluation with warnings
  check                 Run constraint checks

🛠️  Changes:
  set-noise <id> <f> <i>  Set a source's frequency (500|2000) and intensity
  repair                Make failing spaces habitable
  reset                 Restore the loaded building

🎨 Output:
  color [palette...]    Colour the adjacency graph (Welch-Powell)
  render <mode> <file>  Draw the building (habitability, gradient, coloring)

  clear                 Clear screen
  exit, quit            Exit CLI
`
	cli.printf("%s", help)
}

func (cli *CLI) listSpaces() {
	spaces := cli.engine.ListSpaces()
	cli.printf("📋 Spaces (%d):\n\n", len(spaces))
	cli.printf("   %-8s %-12s %10s %10s  %s\n", "ID", "ACTIVITY", "NOISE", "THRESHOLD", "VERDICT")
	for _, s := range spaces {
		cli.printf("   %-8s %-12s %10.1f %10s  %s\n",
			s.ID, orDash(s.Activity), s.Noise, formatThreshold(s.Threshold), verdict(s.Habitable))
	}
}

func (cli *CLI) showNoise(id string) {
	noise, err := cli.engine.EvaluateNoise(id)
	if err != nil {
		cli.printError(err)
		return
	}
	cli.printf("🔊 %s: %.1f dB\n", id, noise)
}

func (cli *CLI) showHabitable(id string) {
	ok, err := cli.engine.IsHabitable(id)
	if err != nil {
		cli.printError(err)
		return
	}
	cli.printf("%s %s\n", id, verdict(ok))
}

func (cli *CLI) showReport(ev habitat.Evaluation) {
	cli.printf("🏠 %s: %d/%d spaces habitable\n\n", ev.Building, ev.Habitable, len(ev.Spaces))
	for _, s := range ev.Spaces {
		cli.printf("   %-8s %8.1f dB / %-8s %s\n", s.ID, s.Noise, formatThreshold(s.Threshold), verdict(s.Habitable))
	}
	if len(ev.Warnings) > 0 {
		cli.printf("\n⚠️  Warnings:\n")
		for _, w := range ev.Warnings {
			cli.printf("   %s\n", w.String())
		}
	}
	if failing := ev.Failing(); len(failing) > 0 {
		cli.printf("\n❌ Failing: %s\n", strings.Join(failing, ", "))
	}
}

func (cli *CLI) runCheck() {
	res, err := cli.engine.Check()
	if err != nil {
		cli.printError(err)
		return
	}
	if res.Valid && len(res.Violations) == 0 {
		cli.printf("✅ All constraints satisfied\n")
		return
	}
	cli.printf("📏 %d violation(s):\n", len(res.Violations))
	for _, v := range res.Violations {
		cli.printf("   [%s] %s: %s\n", v.Severity, v.SpaceID, v.Message)
	}
}

func (cli *CLI) runColoring(palette []string) {
	c, err := cli.engine.ColorGraph(palette)
	if err != nil {
		var exhausted *algorithms.PaletteExhaustedError
		if errors.As(err, &exhausted) {
			cli.printf("❌ Palette exhausted at %s; use more colours\n", exhausted.SpaceID)
			return
		}
		cli.printError(err)
		return
	}
	cli.printf("🎨 %d colour(s) used:\n", c.ColorsUsed)
	for _, id := range c.Order {
		cli.printf("   %-8s %s\n", id, c.Assignments[id])
	}
}

func (cli *CLI) runRepair() {
	report, err := cli.engine.Repair()
	if err != nil {
		cli.printError(err)
		return
	}
	cli.printf("🔧 %s (%v)\n", report.Message, report.Duration)
	for _, s := range report.Spaces {
		switch s.Phase {
		case repair.PhaseMaterial, repair.PhaseNeighbor:
			cli.printf("   %-8s %-10s walls -> %s (%.1f -> %.1f dB)\n",
				s.SpaceID, s.Phase, s.Material, s.NoiseBefore, s.NoiseAfter)
		case repair.PhaseThreshold:
			cli.printf("   %-8s %-10s %s -> %s, threshold %s -> %s\n",
				s.SpaceID, s.Phase, orDash(s.ActivityBefore), orDash(s.ActivityAfter),
				formatThreshold(s.ThresholdBefore), formatThreshold(s.ThresholdAfter))
		default:
			cli.printf("   %-8s %s\n", s.SpaceID, s.Phase)
		}
	}
}

func (cli *CLI) setNoise(id, frequency, intensity string) {
	ev, err := cli.engine.UpdateNoiseSource(validation.NoiseSourceInput{
		ID:        id,
		Frequency: frequency,
		Intensity: intensity,
	})
	if err != nil {
		cli.printError(err)
		return
	}
	cli.printf("✅ Source %s updated\n", id)
	cli.showReport(ev)
}

func (cli *CLI) render(modeName, path string) {
	mode, err := visualization.ParseMode(modeName)
	if err != nil {
		cli.printError(err)
		return
	}
	if err := cli.engine.Render(mode, path); err != nil {
		cli.printError(err)
		return
	}
	cli.printf("🖼️  Wrote %s\n", path)
}

func (cli *CLI) printError(err error) {
	if building.IsNotFound(err) {
		cli.printf("❌ Not found: %v\n", err)
		return
	}
	cli.printf("❌ %v\n", err)
}

func verdict(ok bool) string {
	if ok {
		return "✅ habitable"
	}
	return "❌ uninhabitable"
}

func formatThreshold(t *float64) string {
	if t == nil {
		return "none"
	}
	return fmt.Sprintf("%.1f", *t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

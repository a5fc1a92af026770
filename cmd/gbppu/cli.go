package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/FabianRolfMatthiasNoll/GameBoyPPU/internal/log"
)

type mode byte

const (
	renderMode  mode = iota // Render scenes headless
	viewMode                // Show a scene in a window
	versionMode             // Show version
)

type (
	CLI struct {
		Render  Render  `cmd:"" help:"Render scenes headless and check their frames."`
		View    View    `cmd:"" help:"Show a scene in a window."`
		Version Version `cmd:"" help:"Show gbppu version."`

		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		Config string     `help:"${config_help}" type:"path" placeholder:"FILE"`

		mode mode
	}

	Render struct {
		Scenes []string `arg:"" name:"scene" help:"Scene files (TOML)." type:"existingfile"`

		Frames int    `name:"frames" help:"Frames to run per scene." default:"60"`
		Out    string `name:"out" help:"Write one PNG per scene into DIR." type:"existingdir" placeholder:"DIR"`
		Expect string `name:"expect" help:"${expect_help}" placeholder:"CRC32"`
		Report string `name:"report" help:"Write a JSON report to FILE (- for stdout)." placeholder:"FILE"`
		Jobs   int    `name:"jobs" help:"Scenes rendered concurrently." default:"${jobs}"`
	}

	View struct {
		Scene string `arg:"" name:"scene" help:"Scene file (TOML)." type:"existingfile"`

		Scale  int    `name:"scale" help:"Window scale, overrides the configuration."`
		Shades string `name:"shades" help:"${shades_help}"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"log_help":    "Enable logging for specified modules.",
	"config_help": "Configuration file, defaults are used when missing.",
	"expect_help": "Fail unless every scene's final frame has this CRC32 (hex).",
	"shades_help": "Shade set, overrides the configuration.",
	"jobs":        strconv.Itoa(runtime.NumCPU()),
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("gbppu"),
		kong.Description("Game Boy PPU scene renderer and viewer."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "view <scene>":
		cfg.mode = viewMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = renderMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
	var strs []string
	for _, m := range log.ModuleNames() {
		strs = append(strs, "    - "+m)
	}
	fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	log.SetLevel(log.DebugLevel)
	return nil
}

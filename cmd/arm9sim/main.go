// Package main provides the entry point for arm9sim.
// arm9sim streams an ARM program image through the instruction predecode
// stage and reports what the stage did with it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/sarchlab/arm9sim/loader"
	"github.com/sarchlab/arm9sim/timing/core"
	"github.com/sarchlab/arm9sim/timing/predecode"
)

var (
	configPath = flag.String("config", "", "Path to stage configuration JSON file")
	flat       = flag.Bool("flat", false, "Treat the input as a raw binary image")
	base       = flag.Uint("base", 0x8000, "Load address for raw binary images")
	maxCycles  = flag.Uint64("cycles", 0, "Cycle budget (0 = run until fetch halts)")
	useEngine  = flag.Bool("engine", false, "Drive the core under the Akita event engine")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: arm9sim [options] <program>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	var prog *loader.Program
	var err error
	if *flat {
		prog, err = loader.LoadFlat(programPath, uint32(*base))
	} else {
		prog, err = loader.Load(programPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	config := predecode.DefaultConfig()
	if *configPath != "" {
		config, err = predecode.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	image, imageBase, err := prog.Flatten()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error laying out program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)
		fmt.Printf("Image: 0x%X..0x%X\n", imageBase, imageBase+uint32(len(image)))
	}

	c := core.NewCore(image, imageBase, prog.EntryPoint, config)

	if *useEngine {
		if _, err := core.RunUnderEngine("Predecode", c, *maxCycles); err != nil {
			fmt.Fprintf(os.Stderr, "Engine error: %v\n", err)
			os.Exit(1)
		}
	} else {
		c.Run(*maxCycles)
	}

	printStats(c)
}

func printStats(c *core.Core) {
	runStats := c.Stats()
	stageStats := c.Stage.Stats()

	fmt.Printf("Cycles:      %d\n", runStats.Cycles)
	fmt.Printf("Fetched:     %d\n", runStats.Fetched)
	fmt.Printf("Redirects:   %d\n", runStats.Redirects)
	fmt.Printf("Commits:     %d\n", stageStats.Commits)
	fmt.Printf("Holds:       %d\n", stageStats.Holds)
	fmt.Printf("Clears:      %d\n", stageStats.Clears)
	fmt.Printf("Dispatches:  %d\n", stageStats.Dispatches)
	fmt.Printf("Commit rate: %.2f%%\n", stageStats.CommitRate()*100)
	fmt.Printf("Stall rate:  %.2f%%\n", stageStats.StallRate()*100)

	if *verbose {
		fmt.Println("\nFinal latch state:")
		spew.Dump(c.Stage.Latch())
		fmt.Println("Predictor stats:")
		spew.Dump(c.Predictor().Stats())
	}
}

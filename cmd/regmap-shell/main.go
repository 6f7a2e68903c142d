// Command regmap-shell is an interactive console for register spaces.
//
// The shell loads a register space from YAML definitions (or falls back to
// the built-in PCI Express capability set), backs it with an in-memory bus,
// and offers:
//   - Field-level and raw register access
//   - Bus sync/flush round trips
//   - YAML snapshots of register state
//   - Trace capture of access and bus events
//   - mDNS discovery of register agents and remote sessions
//
// Usage:
//
//	regmap-shell [flags]
//
// Flags:
//
//	-defs string      Directory of YAML register definitions
//	-space string     Space name when loading definitions (default "registers")
//	-snapshot string  Default snapshot path for save/load (default "regmap.snapshot.yaml")
//	-psk string       Pre-shared key offered to remote agents
//
// Examples:
//
//	# Inspect the built-in PCIe capability registers
//	regmap-shell
//
//	# Load custom definitions
//	regmap-shell -defs ./defs -space deviceControl
//
//	# Connect to an authenticated agent from inside the shell
//	regmap-shell -psk secret
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/regmap-project/regmap-go/cmd/regmap-shell/interactive"
	"github.com/regmap-project/regmap-go/pkg/bus"
	"github.com/regmap-project/regmap-go/pkg/pcie"
	"github.com/regmap-project/regmap-go/pkg/register"
	"github.com/regmap-project/regmap-go/pkg/schema"
)

// Config holds the shell configuration.
type Config struct {
	DefsDir   string
	SpaceName string
	Snapshot  string
	PSK       string
}

var config Config

func init() {
	flag.StringVar(&config.DefsDir, "defs", "", "Directory of YAML register definitions")
	flag.StringVar(&config.SpaceName, "space", "registers", "Space name when loading definitions")
	flag.StringVar(&config.Snapshot, "snapshot", "regmap.snapshot.yaml", "Default snapshot path for save/load")
	flag.StringVar(&config.PSK, "psk", "", "Pre-shared key offered to remote agents")
}

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	space, err := buildSpace()
	if err != nil {
		log.Fatalf("Failed to build register space: %v", err)
	}

	var psk []byte
	if config.PSK != "" {
		psk = []byte(config.PSK)
	}

	sh, err := interactive.New(space, bus.NewMemBus(), config.Snapshot, psk)
	if err != nil {
		log.Fatalf("Failed to create shell: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redirect log output through readline to avoid interfering with input
	log.SetOutput(sh.Stdout())
	go sh.Run(ctx, cancel)

	// Wait for shutdown signal or the quit command
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
		cancel()
	case <-ctx.Done():
	}

	if err := sh.Close(); err != nil {
		log.Printf("Error closing shell: %v", err)
	}
}

// buildSpace loads the space from the defs directory, or falls back to the
// built-in PCI Express capability set.
func buildSpace() (*register.Space, error) {
	if config.DefsDir == "" {
		return pcie.NewCapabilitySet().Space(), nil
	}

	defs, err := schema.LoadDir(config.DefsDir)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("no register definitions in %s", config.DefsDir)
	}
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
	}
	return schema.BuildSpace(config.SpaceName, defs)
}

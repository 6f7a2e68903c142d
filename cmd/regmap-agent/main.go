// Command regmap-agent serves a register space to remote hosts.
//
// The agent owns the live register values and applies every host access
// under one lock, with:
//   - YAML register definitions or the built-in PCIe Link registers
//   - framed CBOR transport with optional PSK authentication
//   - mDNS advertising for host discovery
//   - a link-training simulation playing the device side
//
// Usage:
//
//	regmap-agent [flags]
//
// Flags:
//
//	-defs string         Directory of YAML register definitions (built-in PCIe set if empty)
//	-space string        Space name when loading definitions (default "registers")
//	-port int            Listen port (default 7442)
//	-psk string          Pre-shared key clients must present (authentication off if empty)
//	-name string         mDNS instance name (derived from the space name if empty)
//	-description string  Description published in the mDNS TXT record
//	-announce            Advertise the agent via mDNS (default true)
//	-simulate            Run the link-training simulation (default true)
//	-log-level string    Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Serve the built-in PCIe Link registers on the default port
//	regmap-agent
//
//	# Serve custom definitions with PSK authentication
//	regmap-agent -defs ./defs -space soc -port 7450 -psk secret
//
//	# Quiet agent without discovery or simulation
//	regmap-agent -announce=false -simulate=false -log-level warn
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/regmap-project/regmap-go/pkg/discovery"
	"github.com/regmap-project/regmap-go/pkg/pcie"
	"github.com/regmap-project/regmap-go/pkg/register"
	"github.com/regmap-project/regmap-go/pkg/remote"
	"github.com/regmap-project/regmap-go/pkg/schema"
)

// Config holds the agent configuration.
type Config struct {
	DefsDir     string
	SpaceName   string
	Port        int
	PSK         string
	Instance    string
	Description string
	Announce    bool
	Simulate    bool
	LogLevel    string
}

var config Config

func init() {
	flag.StringVar(&config.DefsDir, "defs", "", "Directory of YAML register definitions (built-in PCIe set if empty)")
	flag.StringVar(&config.SpaceName, "space", "registers", "Space name when loading definitions")
	flag.IntVar(&config.Port, "port", remote.DefaultPort, "Listen port")
	flag.StringVar(&config.PSK, "psk", "", "Pre-shared key clients must present (authentication off if empty)")
	flag.StringVar(&config.Instance, "name", "", "mDNS instance name (derived from the space name if empty)")
	flag.StringVar(&config.Description, "description", "", "Description published in the mDNS TXT record")
	flag.BoolVar(&config.Announce, "announce", true, "Advertise the agent via mDNS")
	flag.BoolVar(&config.Simulate, "simulate", true, "Run the link-training simulation")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	// Setup logging
	setupLogging(config.LogLevel)

	log.Println("regmap Register Agent")
	log.Println("=====================")
	log.Printf("Port: %d", config.Port)

	// Validate configuration
	if err := validateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Build the served space
	space, err := buildSpace()
	if err != nil {
		log.Fatalf("Failed to build register space: %v", err)
	}
	log.Printf("Space: %s (%d registers)", space.Name(), space.Len())
	if config.PSK != "" {
		log.Println("Auth: PSK required")
	} else {
		log.Println("Auth: open")
	}

	server, err := remote.NewServer(space, remote.ServerConfig{
		Address: fmt.Sprintf(":%d", config.Port),
		PSK:     []byte(config.PSK),
		Logger:  serverLogger(config.LogLevel),
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := server.Start(ctx); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("Listening on %s", server.Addr())

	// Advertise via mDNS
	var announcer *discovery.Announcer
	if config.Announce {
		announcer = discovery.NewAnnouncer(discovery.DefaultAnnouncerConfig())
		info := &discovery.AgentInfo{
			SpaceName:    space.Name(),
			AuthRequired: config.PSK != "",
			Registers:    space.Len(),
			Description:  config.Description,
			Instance:     config.Instance,
			Port:         uint16(config.Port),
		}
		if err := announcer.Announce(info); err != nil {
			log.Printf("Warning: mDNS announcement failed: %v", err)
			announcer = nil
		} else {
			log.Printf("Announced as %q", announcedInstance(space.Name()))
		}
	}

	// Start simulation if enabled
	if config.Simulate {
		if _, ok := space.ByName(pcie.LinkStatusLayout.Name()); ok {
			go runSimulation(ctx, server)
		} else {
			log.Println("Simulation disabled: space has no Link registers")
		}
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Printf("Received signal: %v", sig)
	log.Println("Shutting down...")

	cancel()
	if announcer != nil {
		announcer.StopAll()
	}
	if err := server.Stop(); err != nil {
		log.Printf("Error stopping server: %v", err)
	}

	log.Println("Goodbye!")
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

// serverLogger builds the structured logger handed to the remote server.
// Its level follows the same -log-level flag as the plain log output.
func serverLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func validateConfig() error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", config.Port)
	}
	if config.Instance != "" {
		if err := discovery.ValidateInstanceName(config.Instance); err != nil {
			return err
		}
	}
	return nil
}

// buildSpace loads the served register space: YAML definitions when -defs
// is given, the embedded PCIe definitions otherwise.
func buildSpace() (*register.Space, error) {
	if config.DefsDir == "" {
		return pcie.NewSpace()
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

func announcedInstance(spaceName string) string {
	if config.Instance != "" {
		return config.Instance
	}
	return discovery.InstanceNameForSpace(spaceName)
}

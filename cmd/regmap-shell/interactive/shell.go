// Package interactive provides the interactive console for regmap-shell.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/regmap-project/regmap-go/pkg/bus"
	"github.com/regmap-project/regmap-go/pkg/discovery"
	"github.com/regmap-project/regmap-go/pkg/inspect"
	"github.com/regmap-project/regmap-go/pkg/register"
	"github.com/regmap-project/regmap-go/pkg/remote"
	"github.com/regmap-project/regmap-go/pkg/snapshot"
	"github.com/regmap-project/regmap-go/pkg/trace"
	"github.com/regmap-project/regmap-go/pkg/version"
)

// busTimeout bounds one sync or flush round.
const busTimeout = 10 * time.Second

// scanTimeout bounds one mDNS scan.
const scanTimeout = 5 * time.Second

// Shell handles interactive mode for regmap-shell. It owns a register space
// backed by a local memory bus and can swap the backing to a remote agent.
type Shell struct {
	space     *register.Space
	mem       *bus.MemBus
	binding   *bus.Binding
	formatter *inspect.Formatter
	rl        *readline.Instance
	out       io.Writer

	// Default snapshot path for save/load without arguments.
	snapPath string

	// PSK offered to agents when connect is given no key argument.
	psk []byte

	// Remote session; nil while operating on the local bus.
	client     *remote.Client
	remoteAddr string

	// Trace capture; nil while not recording.
	recorder  *trace.FileRecorder
	captureID string
	tracePath string
}

// New creates a new interactive shell over the given space. The memory bus
// backs the space until connect switches to a remote agent.
func New(space *register.Space, mem *bus.MemBus, snapshotPath string, psk []byte) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "regmap> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := &Shell{
		space:     space,
		mem:       mem,
		formatter: inspect.NewFormatter(),
		rl:        rl,
		out:       rl.Stdout(),
		snapPath:  snapshotPath,
		psk:       psk,
	}
	s.formatter.ShowDescriptions = true
	s.rebind()

	return s, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Close releases the shell's resources: an open trace capture and any
// remote session.
func (s *Shell) Close() error {
	var firstErr error
	if s.recorder != nil {
		if err := s.recorder.Close(); err != nil {
			firstErr = err
		}
		s.recorder = nil
	}
	if s.client != nil {
		if err := s.client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.client = nil
	}
	return firstErr
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "registers", "regs":
			s.cmdRegisters()

		case "fields", "f":
			s.cmdFields(args)

		case "inspect", "i":
			s.cmdInspect(args)

		case "read", "r":
			s.cmdRead(args)

		case "write", "w":
			s.cmdWrite(args)

		case "get":
			s.cmdGet(args)

		case "set":
			s.cmdSet(args)

		case "clear":
			s.cmdClear(args)

		case "sync":
			s.cmdSync(ctx, args)

		case "flush":
			s.cmdFlush(ctx, args)

		case "save":
			s.cmdSave(args)

		case "load":
			s.cmdLoad(args)

		case "trace":
			s.cmdTrace(args)

		case "scan":
			s.cmdScan(ctx)

		case "connect":
			s.cmdConnect(ctx, args)

		case "disconnect":
			s.cmdDisconnect()

		case "status":
			s.cmdStatus()

		case "version":
			s.cmdVersion()

		case "quit", "exit", "q":
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Register Shell Commands:
  Inspection:
    registers          - List registers with offsets and raw values
    fields <register>  - Show a register's fields, values, and permissions
    inspect [path]     - Inspect the space, a register, or a single field

  Field Access (permission-checked):
    read <reg/field>   - Read a field through its access permission
    write <reg/field> <value> - Write a field through its access permission

  Raw Values:
    get <register>     - Show a register's raw value
    set <register> <value> - Replace a register's raw value
    clear <register>   - Reset a register to all zero bits

  Bus:
    sync [register]    - Pull raw values from the bus into the model
    flush [register]   - Push modified registers out to the bus
    status             - Show shell status

  Snapshots:
    save [path]        - Save register values to a YAML snapshot
    load [path]        - Restore register values from a YAML snapshot

  Tracing:
    trace start <file> - Record access and bus events to a capture file
    trace stop         - Stop recording

  Remote:
    scan               - Discover register agents via mDNS
    connect <addr> [psk] - Attach the space to a remote agent
    disconnect         - Detach and return to the local bus

  General:
    version            - Show toolkit and protocol version
    help               - Show this help
    quit               - Exit shell

  Path Format:
    register/field - e.g., linkControl/linkDisable
    Values accept decimal (18), hex (0x12), and binary (0b10010)`)
}

// cmdRegisters handles the registers command.
func (s *Shell) cmdRegisters() {
	fmt.Fprint(s.out, s.formatter.FormatSpaceSummary(s.space))
}

// cmdFields handles the fields command.
func (s *Shell) cmdFields(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: fields <register>")
		fmt.Fprintln(s.out, "  Example: fields linkControl")
		return
	}

	reg, ok := s.space.ByName(args[0])
	if !ok {
		fmt.Fprintf(s.out, "Unknown register: %s\n", args[0])
		return
	}
	fmt.Fprint(s.out, s.formatter.FormatRegister(reg))
}

// cmdInspect handles the inspect command.
func (s *Shell) cmdInspect(args []string) {
	if len(args) == 0 {
		// Show the whole space
		fmt.Fprint(s.out, s.formatter.FormatSpaceSummary(s.space))
		return
	}

	path, err := inspect.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid path: %v\n", err)
		return
	}

	reg, ok := s.space.ByName(path.Register)
	if !ok {
		fmt.Fprintf(s.out, "Unknown register: %s\n", path.Register)
		return
	}

	if path.IsPartial {
		fmt.Fprint(s.out, s.formatter.FormatRegister(reg))
		return
	}

	spec, ok := reg.Layout().Field(path.Field)
	if !ok {
		fmt.Fprintf(s.out, "Unknown field: %s/%s\n", path.Register, path.Field)
		return
	}
	value, _ := reg.GetInternal(path.Field)
	line := fmt.Sprintf("%s/%s %s = 0x%X", path.Register, spec.Name,
		inspect.FormatRange(spec.Start, spec.End), value)
	if name := inspect.FormatEnumName(spec, value); name != "" {
		line += " (" + name + ")"
	}
	line += "  " + inspect.FormatAccess(spec.Access)
	fmt.Fprintln(s.out, line)
	if spec.Description != "" {
		fmt.Fprintf(s.out, "  %s\n", spec.Description)
	}
}

// cmdRead handles the read command.
func (s *Shell) cmdRead(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: read <register/field>")
		fmt.Fprintln(s.out, "  Example: read linkStatus/linkTraining")
		return
	}

	reg, path, ok := s.resolveFieldPath(args[0])
	if !ok {
		return
	}

	value, err := reg.Get(path.Field)
	s.recordAccess(trace.AccessOpGet, reg, path.Field, value, err)
	if err != nil {
		fmt.Fprintf(s.out, "Read failed: %v\n", err)
		return
	}

	line := fmt.Sprintf("%s/%s = 0x%X", path.Register, path.Field, value)
	if spec, ok := reg.Layout().Field(path.Field); ok {
		if name := inspect.FormatEnumName(spec, value); name != "" {
			line += " (" + name + ")"
		}
	}
	fmt.Fprintln(s.out, line)
}

// cmdWrite handles the write command.
func (s *Shell) cmdWrite(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: write <register/field> <value>")
		fmt.Fprintln(s.out, "  Example: write linkControl/linkDisable 1")
		return
	}

	reg, path, ok := s.resolveFieldPath(args[0])
	if !ok {
		return
	}

	value, err := inspect.ParseValue(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid value: %v\n", err)
		return
	}

	err = reg.Set(path.Field, value)
	s.recordAccess(trace.AccessOpSet, reg, path.Field, value, err)
	if err != nil {
		fmt.Fprintf(s.out, "Write failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "OK")
}

// cmdGet handles the get command.
func (s *Shell) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: get <register>")
		fmt.Fprintln(s.out, "  Example: get linkStatus")
		return
	}

	reg, ok := s.space.ByName(args[0])
	if !ok {
		fmt.Fprintf(s.out, "Unknown register: %s\n", args[0])
		return
	}

	raw := reg.Value()
	s.recordAccess(trace.AccessOpRead, reg, "", raw, nil)
	fmt.Fprintf(s.out, "%s = %s  %s\n", reg.Name(),
		inspect.FormatHex(raw, reg.Width()), inspect.FormatBinary(raw, reg.Width()))
}

// cmdSet handles the set command.
func (s *Shell) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: set <register> <value>")
		fmt.Fprintln(s.out, "  Example: set linkControl 0x40")
		return
	}

	reg, ok := s.space.ByName(args[0])
	if !ok {
		fmt.Fprintf(s.out, "Unknown register: %s\n", args[0])
		return
	}

	value, err := inspect.ParseValue(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid value: %v\n", err)
		return
	}

	err = reg.SetValue(value)
	s.recordAccess(trace.AccessOpWrite, reg, "", value, err)
	if err != nil {
		fmt.Fprintf(s.out, "Set failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "OK")
}

// cmdClear handles the clear command.
func (s *Shell) cmdClear(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: clear <register>")
		fmt.Fprintln(s.out, "  Example: clear linkControl")
		return
	}

	reg, ok := s.space.ByName(args[0])
	if !ok {
		fmt.Fprintf(s.out, "Unknown register: %s\n", args[0])
		return
	}

	reg.Clear()
	s.recordAccess(trace.AccessOpClear, reg, "", 0, nil)
	fmt.Fprintln(s.out, "OK")
}

// cmdSync handles the sync command.
func (s *Shell) cmdSync(ctx context.Context, args []string) {
	opCtx, cancel := context.WithTimeout(ctx, busTimeout)
	defer cancel()

	if len(args) > 0 {
		if err := s.binding.SyncRegister(opCtx, args[0]); err != nil {
			fmt.Fprintf(s.out, "Sync failed: %v\n", err)
			return
		}
		fmt.Fprintf(s.out, "Synced %s\n", args[0])
		return
	}

	if err := s.binding.Sync(opCtx); err != nil {
		fmt.Fprintf(s.out, "Sync failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Synced %d registers\n", s.space.Len())
}

// cmdFlush handles the flush command.
func (s *Shell) cmdFlush(ctx context.Context, args []string) {
	opCtx, cancel := context.WithTimeout(ctx, busTimeout)
	defer cancel()

	if len(args) > 0 {
		if err := s.binding.FlushRegister(opCtx, args[0]); err != nil {
			fmt.Fprintf(s.out, "Flush failed: %v\n", err)
			return
		}
		fmt.Fprintf(s.out, "Flushed %s\n", args[0])
		return
	}

	dirty := s.dirtyCount()
	if err := s.binding.Flush(opCtx); err != nil {
		fmt.Fprintf(s.out, "Flush failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Flushed %d registers\n", dirty)
}

// cmdSave handles the save command.
func (s *Shell) cmdSave(args []string) {
	path := s.snapPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		fmt.Fprintln(s.out, "Usage: save <path>")
		return
	}

	state := snapshot.Capture(s.space)
	if err := snapshot.NewStore(path).Save(state); err != nil {
		fmt.Fprintf(s.out, "Save failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Saved %d registers to %s\n", len(state.Registers), path)
}

// cmdLoad handles the load command.
func (s *Shell) cmdLoad(args []string) {
	path := s.snapPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		fmt.Fprintln(s.out, "Usage: load <path>")
		return
	}

	state, err := snapshot.NewStore(path).Load()
	if err != nil {
		fmt.Fprintf(s.out, "Load failed: %v\n", err)
		return
	}
	if state == nil {
		fmt.Fprintf(s.out, "No snapshot at %s\n", path)
		return
	}

	if err := snapshot.Apply(state, s.space); err != nil {
		fmt.Fprintf(s.out, "Load failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Restored %d registers (saved %s)\n",
		len(state.Registers), state.SavedAt.Format("2006-01-02 15:04:05"))
}

// cmdTrace handles the trace command.
// Usage:
//   - trace start <file> - Begin recording to a capture file
//   - trace stop         - Close the capture file
func (s *Shell) cmdTrace(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: trace start <file> | trace stop")
		return
	}

	switch strings.ToLower(args[0]) {
	case "start":
		if s.recorder != nil {
			fmt.Fprintf(s.out, "Already recording to %s\n", s.tracePath)
			return
		}
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: trace start <file>")
			fmt.Fprintln(s.out, "  Example: trace start session.rtrace")
			return
		}

		rec, err := trace.NewFileRecorder(args[1])
		if err != nil {
			fmt.Fprintf(s.out, "Trace start failed: %v\n", err)
			return
		}
		s.recorder = rec
		s.tracePath = args[1]
		s.rebind()
		fmt.Fprintf(s.out, "Recording to %s (capture %s)\n", s.tracePath, shortID(s.captureID))

	case "stop":
		if s.recorder == nil {
			fmt.Fprintln(s.out, "Not recording")
			return
		}
		if err := s.recorder.Close(); err != nil {
			fmt.Fprintf(s.out, "Trace stop failed: %v\n", err)
		}
		s.recorder = nil
		s.captureID = ""
		s.rebind()
		fmt.Fprintf(s.out, "Stopped recording to %s\n", s.tracePath)
		s.tracePath = ""

	default:
		fmt.Fprintf(s.out, "Unknown trace subcommand: %s (use start or stop)\n", args[0])
	}
}

// cmdScan handles the scan command.
func (s *Shell) cmdScan(ctx context.Context) {
	fmt.Fprintln(s.out, "Scanning for register agents...")
	scanCtx, cancel := context.WithTimeout(ctx, scanTimeout)
	agents, err := discovery.NewBrowser(discovery.DefaultBrowserConfig()).FindAll(scanCtx)
	cancel()
	if err != nil {
		fmt.Fprintf(s.out, "Scan error: %v\n", err)
		return
	}
	if len(agents) == 0 {
		fmt.Fprintln(s.out, "No register agents found")
		return
	}

	fmt.Fprintf(s.out, "Found %d register agent(s):\n", len(agents))
	for idx, a := range agents {
		auth := ""
		if a.AuthRequired {
			auth = ", auth required"
		}
		fmt.Fprintf(s.out, "  %d. %s (space: %s, registers: %d, addr: %s%s)\n",
			idx+1, a.InstanceName, a.SpaceName, a.Registers, a.Addr(), auth)
	}
}

// cmdConnect handles the connect command.
func (s *Shell) cmdConnect(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: connect <address> [psk]")
		fmt.Fprintln(s.out, "  Example: connect 192.168.4.21:7442")
		return
	}
	if s.client != nil {
		fmt.Fprintf(s.out, "Already connected to %s (disconnect first)\n", s.remoteAddr)
		return
	}

	config := remote.ClientConfig{PSK: s.psk}
	if len(args) > 1 {
		config.PSK = []byte(args[1])
	}

	fmt.Fprintf(s.out, "Connecting to %s...\n", args[0])
	client, err := remote.Dial(ctx, args[0], config)
	if err != nil {
		fmt.Fprintf(s.out, "Connect failed: %v\n", err)
		return
	}

	s.client = client
	s.remoteAddr = args[0]
	s.rebind()
	s.recordSession("", "established", "connect command", args[0])
	fmt.Fprintf(s.out, "Connected to %s (session %s)\n", args[0], shortID(client.SessionID()))
}

// cmdDisconnect handles the disconnect command.
func (s *Shell) cmdDisconnect() {
	if s.client == nil {
		fmt.Fprintln(s.out, "Not connected")
		return
	}

	addr := s.remoteAddr
	if err := s.client.Close(); err != nil {
		fmt.Fprintf(s.out, "Disconnect error: %v\n", err)
	}
	s.client = nil
	s.remoteAddr = ""
	s.rebind()
	s.recordSession("established", "closed", "disconnect command", addr)
	fmt.Fprintf(s.out, "Disconnected from %s (local bus active)\n", addr)
}

// cmdStatus shows the shell status.
func (s *Shell) cmdStatus() {
	fmt.Fprintln(s.out, "\nShell Status")
	fmt.Fprintln(s.out, "-------------------------------------------")
	fmt.Fprintf(s.out, "  Space:      %s\n", s.space.Name())
	fmt.Fprintf(s.out, "  Registers:  %d (%d modified)\n", s.space.Len(), s.dirtyCount())
	if s.client != nil {
		fmt.Fprintf(s.out, "  Bus:        remote %s (session %s)\n",
			s.remoteAddr, shortID(s.client.SessionID()))
	} else {
		fmt.Fprintf(s.out, "  Bus:        local memory\n")
	}
	if s.recorder != nil {
		fmt.Fprintf(s.out, "  Trace:      recording to %s (capture %s)\n",
			s.tracePath, shortID(s.captureID))
	} else {
		fmt.Fprintf(s.out, "  Trace:      off\n")
	}
	if s.snapPath != "" {
		fmt.Fprintf(s.out, "  Snapshot:   %s\n", s.snapPath)
	}
	fmt.Fprintln(s.out)
}

// cmdVersion handles the version command.
func (s *Shell) cmdVersion() {
	fmt.Fprintf(s.out, "regmap %s (protocol %s)\n", version.Current, version.CurrentProtocolID())
}

// resolveFieldPath parses a register/field path and looks up the register.
// Errors are reported to the user; ok is false when the caller should stop.
func (s *Shell) resolveFieldPath(input string) (*register.Register, *inspect.Path, bool) {
	path, err := inspect.ParsePath(input)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid path: %v\n", err)
		return nil, nil, false
	}
	if path.IsPartial {
		fmt.Fprintf(s.out, "Not a register/field path: %s\n", input)
		return nil, nil, false
	}

	reg, ok := s.space.ByName(path.Register)
	if !ok {
		fmt.Fprintf(s.out, "Unknown register: %s\n", path.Register)
		return nil, nil, false
	}
	return reg, path, true
}

// rebind rebuilds the binding over the active bus, wrapping it with capture
// instrumentation while a recording is running. The capture ID is minted on
// the first bind of a recording and survives later bus swaps.
func (s *Shell) rebind() {
	var active bus.Bus = s.mem
	if s.client != nil {
		active = s.client
	}
	if s.recorder != nil {
		instrumented := trace.NewInstrumentedBus(active, s.recorder, s.space.Name())
		if s.captureID == "" {
			s.captureID = instrumented.CaptureID()
		} else {
			instrumented.SetCaptureID(s.captureID)
		}
		active = instrumented
	}
	s.binding = bus.NewBinding(s.space, active)
}

// recordAccess emits a model-level trace event when a capture is running.
func (s *Shell) recordAccess(op trace.AccessOp, reg *register.Register, field string, value uint32, opErr error) {
	if s.recorder == nil {
		return
	}

	access := &trace.AccessEvent{
		Op:    op,
		Field: field,
		Value: value,
		Raw:   reg.Value(),
	}
	if opErr != nil {
		access.Err = opErr.Error()
	}
	s.recorder.Record(trace.Event{
		Timestamp: time.Now(),
		CaptureID: s.captureID,
		Role:      trace.RoleHost,
		Kind:      trace.KindAccess,
		Space:     s.space.Name(),
		Register:  reg.Name(),
		Access:    access,
	})
}

// recordSession emits a session lifecycle trace event when a capture is
// running.
func (s *Shell) recordSession(oldState, newState, reason, peer string) {
	if s.recorder == nil {
		return
	}

	s.recorder.Record(trace.Event{
		Timestamp: time.Now(),
		CaptureID: s.captureID,
		Role:      trace.RoleHost,
		Kind:      trace.KindSession,
		Space:     s.space.Name(),
		Peer:      peer,
		Session: &trace.SessionEvent{
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

func (s *Shell) dirtyCount() int {
	dirty := 0
	for _, entry := range s.space.Entries() {
		if entry.Register.Dirty() {
			dirty++
		}
	}
	return dirty
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

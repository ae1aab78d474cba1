// Package interactive provides the bs-client command shell.
package interactive

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/chzyer/readline"

	"github.com/brilliantsole/bs-go/pkg/connection"
	"github.com/brilliantsole/bs-go/pkg/device"
	"github.com/brilliantsole/bs-go/pkg/relay"
	"github.com/brilliantsole/bs-go/pkg/scanner"
	"github.com/brilliantsole/bs-go/pkg/telemetry"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

const commandTimeout = 10 * time.Second

var errUsage = errors.New("usage")

// Shell is the interactive command loop over a relay client.
type Shell struct {
	rl     *readline.Instance
	client *relay.Client

	mu       sync.Mutex
	watching map[string]func()
	events   []func()
}

// New creates the readline instance. Call Attach before Run.
func New() (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "bs> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{rl: rl, watching: make(map[string]func())}, nil
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("help"),
	readline.PcItem("status"),
	readline.PcItem("scan", readline.PcItem("start"), readline.PcItem("stop")),
	readline.PcItem("discovered"),
	readline.PcItem("connect"),
	readline.PcItem("disconnect"),
	readline.PcItem("devices"),
	readline.PcItem("info"),
	readline.PcItem("name"),
	readline.PcItem("sensors"),
	readline.PcItem("watch"),
	readline.PcItem("unwatch"),
	readline.PcItem("vibrate"),
	readline.PcItem("quit"),
)

// Stdout returns a writer that does not clobber the prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that does not clobber the prompt.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Close releases the terminal.
func (s *Shell) Close() {
	_ = s.rl.Close()
}

// Attach binds the shell to client and prints relay events as they arrive.
func (s *Shell) Attach(client *relay.Client) {
	s.client = client
	out := s.rl.Stdout()
	s.events = append(s.events,
		client.OnConnectionStatus(func(st connection.Status) {
			fmt.Fprintf(out, "[relay] %s\n", st)
		}),
		client.OnIsScanning(func(scanning bool) {
			fmt.Fprintf(out, "[relay] scanning=%v\n", scanning)
		}),
		client.OnDiscoveredDevice(func(d scanner.DiscoveredDevice) {
			fmt.Fprintf(out, "[discovered] %s %q %s rssi=%d\n", d.BluetoothID, d.Name, d.DeviceType, d.RSSI)
		}),
		client.OnExpiredDiscoveredDevice(func(d scanner.DiscoveredDevice) {
			fmt.Fprintf(out, "[expired] %s\n", d.BluetoothID)
		}),
	)
}

// Run reads commands until EOF, "quit", or ctx is done.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.shutdown()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]
		if cmd == "quit" || cmd == "exit" || cmd == "q" {
			cancel()
			return
		}

		if err := s.exec(ctx, cmd, args); err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		}
	}
}

func (s *Shell) shutdown() {
	s.mu.Lock()
	for id, stop := range s.watching {
		stop()
		delete(s.watching, id)
	}
	s.mu.Unlock()
	for _, u := range s.events {
		u()
	}
	_ = s.rl.Close()
}

func (s *Shell) exec(ctx context.Context, cmd string, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	switch cmd {
	case "help", "?":
		s.printHelp()
		return nil
	case "status":
		return s.cmdStatus()
	case "scan":
		return s.cmdScan(ctx, args)
	case "discovered", "d":
		return s.cmdDiscovered()
	case "connect", "c":
		return s.cmdConnect(ctx, args)
	case "disconnect":
		return s.cmdDisconnect(ctx, args)
	case "devices", "ls":
		return s.cmdDevices()
	case "info", "i":
		return s.cmdInfo(args)
	case "name":
		return s.cmdName(ctx, args)
	case "sensors":
		return s.cmdSensors(ctx, args)
	case "watch", "w":
		return s.cmdWatch(args)
	case "unwatch":
		return s.cmdUnwatch(args)
	case "vibrate":
		return s.cmdVibrate(ctx, args)
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.rl.Stdout(), `Commands:
  status                          Relay connection and scanner state
  scan start|stop                 Control scanning on the relay
  discovered, d                   List discovered devices
  connect, c <id|#>               Connect a discovered device
  disconnect <id|#>               Disconnect a relayed device
  devices, ls                     List relayed devices
  info, i <id|#>                  Show device information
  name <id|#> <name>              Rename a device
  sensors <id|#> [type=ms ...]    Show or set the sensor configuration
  sensors <id|#> clear            Stop every sensor
  watch, w <id|#> [sensor]        Print readings as they arrive
  unwatch <id|#>                  Stop printing readings
  vibrate <id|#> <hex>            Send an encoded vibration payload
  quit                            Exit
`)
}

func (s *Shell) cmdStatus() error {
	out := s.rl.Stdout()
	fmt.Fprintf(out, "Relay:     %s\n", s.client.ConnectionStatus())
	fmt.Fprintf(out, "Scanner:   available=%v scanning=%v\n", s.client.IsAvailable(), s.client.IsScanning())
	fmt.Fprintf(out, "Devices:   %d relayed, %d discovered\n", len(s.client.Devices()), len(s.client.DiscoveredDevices()))
	return nil
}

func (s *Shell) cmdScan(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: scan start|stop", errUsage)
	}
	switch args[0] {
	case "start":
		return s.client.StartScan(ctx)
	case "stop":
		return s.client.StopScan()
	}
	return fmt.Errorf("%w: scan start|stop", errUsage)
}

func (s *Shell) cmdDiscovered() error {
	found := s.client.DiscoveredDevices()
	if len(found) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No devices discovered")
		return nil
	}
	tw := tabwriter.NewWriter(s.rl.Stdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tTYPE\tRSSI")
	for i, d := range found {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", i, d.BluetoothID, d.Name, d.DeviceType, d.RSSI)
	}
	return tw.Flush()
}

func (s *Shell) cmdConnect(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: connect <id|#>", errUsage)
	}
	ids := make([]string, 0)
	for _, d := range s.client.DiscoveredDevices() {
		ids = append(ids, d.BluetoothID)
	}
	id := resolveID(args[0], ids)
	d, err := s.client.ConnectToDevice(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.rl.Stdout(), "Connecting %s (%s)\n", id, d.ConnectionStatus())
	return nil
}

func (s *Shell) cmdDisconnect(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: disconnect <id|#>", errUsage)
	}
	return s.client.DisconnectFromDevice(ctx, resolveID(args[0], s.deviceIDs()))
}

// deviceIDs lists relayed devices in a stable order for # references.
func (s *Shell) deviceIDs() []string {
	devices := s.client.Devices()
	ids := make([]string, 0, len(devices))
	for _, d := range devices {
		ids = append(ids, d.BluetoothID())
	}
	slices.Sort(ids)
	return ids
}

func (s *Shell) device(arg string) (*device.Device, error) {
	id := resolveID(arg, s.deviceIDs())
	d, ok := s.client.Device(id)
	if !ok {
		return nil, fmt.Errorf("no relayed device %q", id)
	}
	return d, nil
}

func (s *Shell) cmdDevices() error {
	ids := s.deviceIDs()
	if len(ids) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No relayed devices")
		return nil
	}
	tw := tabwriter.NewWriter(s.rl.Stdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tTYPE\tSTATUS\tBATTERY")
	for i, id := range ids {
		d, ok := s.client.Device(id)
		if !ok {
			continue
		}
		info := d.Information()
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d%%\n", i, id, info.Name, info.Type, d.ConnectionStatus(), d.BatteryLevel())
	}
	return tw.Flush()
}

func (s *Shell) cmdInfo(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: info <id|#>", errUsage)
	}
	d, err := s.device(args[0])
	if err != nil {
		return err
	}
	info := d.Information()
	di := d.DeviceInformation()

	tw := tabwriter.NewWriter(s.rl.Stdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", d.BluetoothID())
	fmt.Fprintf(tw, "Status:\t%s\n", d.ConnectionStatus())
	fmt.Fprintf(tw, "Name:\t%s\n", info.Name)
	fmt.Fprintf(tw, "Type:\t%s\n", info.Type)
	fmt.Fprintf(tw, "Battery:\t%d%% charging=%v current=%.2fmA\n", d.BatteryLevel(), info.IsCharging, info.BatteryCurrent)
	fmt.Fprintf(tw, "MTU:\t%d\n", info.MTU)
	if info.IsCurrentTimeSet() {
		fmt.Fprintf(tw, "Clock:\t%s\n", info.CurrentTime.Format(time.RFC3339))
	}
	fmt.Fprintf(tw, "Manufacturer:\t%s\n", di.ManufacturerName)
	fmt.Fprintf(tw, "Model:\t%s\n", di.ModelNumber)
	fmt.Fprintf(tw, "Serial:\t%s\n", di.SerialNumber)
	fmt.Fprintf(tw, "Firmware:\t%s\n", di.FirmwareRevision)
	fmt.Fprintf(tw, "Hardware:\t%s\n", di.HardwareRevision)
	fmt.Fprintf(tw, "Software:\t%s\n", di.SoftwareRevision)
	return tw.Flush()
}

func (s *Shell) cmdName(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: name <id|#> <name>", errUsage)
	}
	d, err := s.device(args[0])
	if err != nil {
		return err
	}
	return d.SetName(ctx, strings.Join(args[1:], " "))
}

func (s *Shell) cmdSensors(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: sensors <id|#> [type=ms ...|clear]", errUsage)
	}
	d, err := s.device(args[0])
	if err != nil {
		return err
	}

	switch {
	case len(args) == 1:
		s.printSensorConfiguration(d.SensorConfiguration())
		return nil
	case len(args) == 2 && args[1] == "clear":
		return d.ClearSensorConfiguration(ctx)
	}

	cfg, err := parseSensorConfiguration(args[1:])
	if err != nil {
		return err
	}
	return d.SetSensorConfiguration(ctx, cfg, false)
}

func (s *Shell) printSensorConfiguration(cfg telemetry.SensorConfiguration) {
	if len(cfg) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No sensor configuration reported")
		return
	}
	tw := tabwriter.NewWriter(s.rl.Stdout(), 0, 4, 2, ' ', 0)
	for _, name := range wire.SensorTypes.Names() {
		if rate, ok := cfg[name]; ok {
			fmt.Fprintf(tw, "%s:\t%d ms\n", name, rate)
		}
	}
	_ = tw.Flush()
}

func (s *Shell) cmdWatch(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: watch <id|#> [sensor]", errUsage)
	}
	d, err := s.device(args[0])
	if err != nil {
		return err
	}
	sensor := wire.MsgSensorData
	if len(args) == 2 {
		if !wire.SensorTypes.Contains(args[1]) {
			return fmt.Errorf("unknown sensor type %q", args[1])
		}
		sensor = args[1]
	}

	id := d.BluetoothID()
	out := s.rl.Stdout()
	stop := d.Telemetry().OnReading(sensor, func(r telemetry.Reading) {
		fmt.Fprintf(out, "[%s] %s %s %+v\n", id, r.Timestamp.Format("15:04:05.000"), r.SensorType, r.Value)
	})

	s.mu.Lock()
	if prev, ok := s.watching[id]; ok {
		prev()
	}
	s.watching[id] = stop
	s.mu.Unlock()
	return nil
}

func (s *Shell) cmdUnwatch(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: unwatch <id|#>", errUsage)
	}
	id := resolveID(args[0], s.deviceIDs())

	s.mu.Lock()
	defer s.mu.Unlock()
	stop, ok := s.watching[id]
	if !ok {
		return fmt.Errorf("not watching %q", id)
	}
	stop()
	delete(s.watching, id)
	return nil
}

func (s *Shell) cmdVibrate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: vibrate <id|#> <hex>", errUsage)
	}
	d, err := s.device(args[0])
	if err != nil {
		return err
	}
	payload, err := hex.DecodeString(args[1])
	if err != nil {
		return fmt.Errorf("payload: %w", err)
	}
	return d.TriggerVibration(ctx, payload)
}

// resolveID maps a "#n" or "n" index into ids; anything else is an id.
func resolveID(arg string, ids []string) string {
	n, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || n < 0 || n >= len(ids) {
		return arg
	}
	return ids[n]
}

// parseSensorConfiguration reads "sensorType=ms" pairs.
func parseSensorConfiguration(args []string) (telemetry.SensorConfiguration, error) {
	cfg := make(telemetry.SensorConfiguration, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: expected type=ms, got %q", errUsage, arg)
		}
		if !wire.SensorTypes.Contains(name) {
			return nil, fmt.Errorf("unknown sensor type %q", name)
		}
		rate, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("rate for %s: %w", name, err)
		}
		cfg[name] = uint16(rate)
	}
	return cfg, nil
}

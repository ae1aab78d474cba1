package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/brilliantsole/bs-go/pkg/device"
	"github.com/brilliantsole/bs-go/pkg/log"
	"github.com/brilliantsole/bs-go/pkg/scanner"
	"github.com/brilliantsole/bs-go/pkg/sink"
	"github.com/brilliantsole/bs-go/pkg/telemetry"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

// Server defaults.
const (
	// sendBufferSize is the per-socket outbound queue length.
	sendBufferSize = 256

	DefaultPingInterval   = 30 * time.Second
	DefaultPongWait       = 10 * time.Second
	DefaultMaxMessageSize = 1 << 20

	// clearTimeout bounds the sensor configuration reset after the last
	// socket closes.
	clearTimeout = 5 * time.Second
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Scanner may be nil; the server then reports scanning as unavailable.
	Scanner scanner.Scanner

	// Pool is required.
	Pool *device.Pool

	// ClearSensorConfigurationsWhenNoClients stops every connected device's
	// sensors when the last socket closes.
	ClearSensorConfigurationsWhenNoClients bool

	// Sinks receive every sensor reading of every pooled device.
	Sinks []sink.Sink

	PingInterval   time.Duration
	PongWait       time.Duration
	MaxMessageSize int64

	Logger         *slog.Logger
	ProtocolLogger log.Logger
}

// Server relays a device pool to websocket clients. It implements
// http.Handler; mount it at the websocket path.
type Server struct {
	cfg      ServerConfig
	logger   *slog.Logger
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	sockets map[*socket]struct{}
	closed  bool

	devMu   sync.Mutex
	tracked map[*device.Device]func()

	unsubscribe []func()
}

// socket is one websocket client of the server.
type socket struct {
	id     string
	remote string
	server *Server
	conn   *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

var errNoPool = errors.New("relay server needs a device pool")

// NewServer subscribes to the scanner and pool and returns a server ready to
// accept sockets.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Pool == nil {
		return nil, errNoPool
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultPingInterval
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = DefaultPongWait
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = DefaultMaxMessageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		ctx:     ctx,
		cancel:  cancel,
		sockets: make(map[*socket]struct{}),
		tracked: make(map[*device.Device]func()),
	}

	if sc := cfg.Scanner; sc != nil {
		s.unsubscribe = append(s.unsubscribe,
			sc.OnIsAvailable(func(bool) { s.broadcast(s.isScanningAvailableMessage()) }),
			sc.OnIsScanning(func(bool) { s.broadcast(s.isScanningMessage()) }),
			sc.OnDiscoveredDevice(func(d scanner.DiscoveredDevice) {
				msg, err := discoveredDeviceMessage(d)
				if err != nil {
					s.logger.Warn("dropping discovered device", "device", d.BluetoothID, "error", err)
					return
				}
				s.broadcast(msg)
			}),
			sc.OnExpiredDiscoveredDevice(func(d scanner.DiscoveredDevice) {
				data, err := stringPayload(d.BluetoothID)
				if err != nil {
					return
				}
				s.broadcast(wire.Message{Type: wire.ServerExpiredDiscoveredDevice, Data: data})
			}),
		)
	}
	s.unsubscribe = append(s.unsubscribe,
		cfg.Pool.OnAvailableDevices(s.track),
		cfg.Pool.OnDeviceIsConnected(func(d *device.Device) {
			s.broadcastDevice(d, wire.Message{Type: wire.EventIsConnected, Data: boolByte(d.IsConnected())})
		}),
		cfg.Pool.OnConnectedDevices(func([]*device.Device) {
			if msg, err := s.connectedDevicesMessage(); err == nil {
				s.broadcast(msg)
			}
		}),
	)
	s.track(cfg.Pool.AvailableDevices())
	return s, nil
}

// track keeps one subscription set per pooled device.
func (s *Server) track(devices []*device.Device) {
	current := make(map[*device.Device]bool, len(devices))
	for _, d := range devices {
		current[d] = true
	}

	s.devMu.Lock()
	defer s.devMu.Unlock()
	for d, unsubscribe := range s.tracked {
		if !current[d] {
			unsubscribe()
			delete(s.tracked, d)
		}
	}
	for _, d := range devices {
		if _, ok := s.tracked[d]; ok {
			continue
		}
		unsubs := []func(){
			d.OnConnectionMessage(func(m wire.Message) {
				if d.IsConnected() {
					s.broadcastDevice(d, m)
				}
			}),
		}
		if len(s.cfg.Sinks) > 0 {
			unsubs = append(unsubs, d.Telemetry().OnReading(wire.MsgSensorData, func(r telemetry.Reading) {
				s.writeSinks(d.BluetoothID(), r)
			}))
		}
		s.tracked[d] = func() {
			for _, u := range unsubs {
				u()
			}
		}
	}
}

func (s *Server) writeSinks(id string, r telemetry.Reading) {
	for _, k := range s.cfg.Sinks {
		if err := k.Write(id, r); err != nil {
			s.logger.Debug("sink write failed", "device", id, "sensor", r.SensorType, "error", err)
		}
	}
}

// ServeHTTP upgrades the request and serves the socket until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	sock := &socket{
		id:     uuid.NewString(),
		remote: conn.RemoteAddr().String(),
		server: s,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
	// The snapshot is queued ahead of any broadcast.
	sock.queueMessages(s.welcomeMessages()...)
	if !s.register(sock) {
		_ = conn.Close()
		return
	}

	go sock.writePump()
	go sock.readPump()
}

func (s *Server) register(sock *socket) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.sockets[sock] = struct{}{}
	n := len(s.sockets)
	s.mu.Unlock()
	s.logger.Info("relay client connected", "socket", sock.id, "remote", sock.remote, "clients", n)
	return true
}

func (s *Server) unregister(sock *socket) {
	s.mu.Lock()
	_, existed := s.sockets[sock]
	delete(s.sockets, sock)
	n := len(s.sockets)
	closed := s.closed
	s.mu.Unlock()

	if !existed {
		return
	}
	sock.closeSend()
	s.logger.Info("relay client disconnected", "socket", sock.id, "clients", n)
	if n == 0 && !closed && s.cfg.ClearSensorConfigurationsWhenNoClients {
		s.clearSensorConfigurations()
	}
}

func (s *Server) clearSensorConfigurations() {
	for _, d := range s.cfg.Pool.ConnectedDevices() {
		go func() {
			ctx, cancel := context.WithTimeout(s.ctx, clearTimeout)
			defer cancel()
			if err := d.ClearSensorConfiguration(ctx); err != nil {
				s.logger.Warn("clearing sensor configuration failed", "device", d.BluetoothID(), "error", err)
			}
		}()
	}
}

// ClientCount returns the number of open sockets.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sockets)
}

// Close detaches from the scanner and pool and closes every socket.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	sockets := s.sockets
	s.sockets = make(map[*socket]struct{})
	s.mu.Unlock()

	s.cancel()
	for _, u := range s.unsubscribe {
		u()
	}
	s.devMu.Lock()
	for d, u := range s.tracked {
		u()
		delete(s.tracked, d)
	}
	s.devMu.Unlock()

	for sock := range sockets {
		sock.closeSend()
		_ = sock.conn.Close()
	}
	return nil
}

func (s *Server) welcomeMessages() []wire.Message {
	msgs := []wire.Message{s.isScanningAvailableMessage(), s.isScanningMessage()}
	msgs = append(msgs, s.discoveredDeviceMessages()...)
	if msg, err := s.connectedDevicesMessage(); err == nil {
		msgs = append(msgs, msg)
	}
	return msgs
}

func (s *Server) isScanningAvailableMessage() wire.Message {
	available := s.cfg.Scanner != nil && s.cfg.Scanner.IsAvailable()
	return wire.Message{Type: wire.ServerIsScanningAvailable, Data: boolByte(available)}
}

func (s *Server) isScanningMessage() wire.Message {
	scanning := s.cfg.Scanner != nil && s.cfg.Scanner.IsScanning()
	return wire.Message{Type: wire.ServerIsScanning, Data: boolByte(scanning)}
}

func (s *Server) discoveredDeviceMessages() []wire.Message {
	if s.cfg.Scanner == nil {
		return nil
	}
	var msgs []wire.Message
	for _, d := range s.cfg.Scanner.DiscoveredDevices() {
		msg, err := discoveredDeviceMessage(d)
		if err != nil {
			s.logger.Warn("dropping discovered device", "device", d.BluetoothID, "error", err)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func (s *Server) connectedDevicesMessage() (wire.Message, error) {
	msg, err := connectedDevicesMessage(s.cfg.Pool.ConnectedIDs())
	if err != nil {
		s.logger.Warn("encoding connected devices", "error", err)
	}
	return msg, err
}

func (s *Server) broadcastDevice(d *device.Device, msgs ...wire.Message) {
	msg, err := deviceMessage(wire.DeviceEventTypes, d.BluetoothID(), msgs...)
	if err != nil {
		s.logger.Warn("encoding device message", "device", d.BluetoothID(), "error", err)
		return
	}
	s.broadcast(msg)
}

// broadcast sends msgs to every socket in one frame.
func (s *Server) broadcast(msgs ...wire.Message) {
	frame, err := wire.Encode(wire.ServerMessageTypes, msgs...)
	if err != nil {
		s.logger.Warn("encoding broadcast", "error", err)
		return
	}

	s.mu.RLock()
	sockets := make([]*socket, 0, len(s.sockets))
	for sock := range s.sockets {
		sockets = append(sockets, sock)
	}
	s.mu.RUnlock()

	for _, sock := range sockets {
		sock.queue(frame)
	}
}

// handle runs the commands in one client frame and returns the replies for
// the sending socket.
func (s *Server) handle(sock *socket, frame []byte) []wire.Message {
	var replies []wire.Message
	err := wire.Decode(wire.ServerMessageTypes, frame, func(typ string, data []byte, _ bool) error {
		replies = append(replies, s.command(sock, typ, data)...)
		return nil
	})
	if err != nil {
		s.logger.Warn("malformed client frame", "socket", sock.id, "error", err)
	}
	return replies
}

func (s *Server) command(sock *socket, typ string, data []byte) []wire.Message {
	logger := s.logger.With("socket", sock.id, "command", typ)
	sc := s.cfg.Scanner

	switch typ {
	case wire.ServerIsScanningAvailable:
		return []wire.Message{s.isScanningAvailableMessage()}
	case wire.ServerIsScanning:
		return []wire.Message{s.isScanningMessage()}
	case wire.ServerDiscoveredDevices:
		return s.discoveredDeviceMessages()
	case wire.ServerConnectedDevices:
		if msg, err := s.connectedDevicesMessage(); err == nil {
			return []wire.Message{msg}
		}

	case wire.ServerStartScan:
		if sc == nil {
			logger.Warn("no scanner")
			return nil
		}
		if err := sc.StartScan(s.ctx); err != nil {
			logger.Warn("start scan failed", "error", err)
		}
	case wire.ServerStopScan:
		if sc == nil {
			return nil
		}
		if err := sc.StopScan(); err != nil {
			logger.Warn("stop scan failed", "error", err)
		}

	case wire.ServerConnectToDevice:
		id, err := parseStringPayload(data)
		if err != nil {
			logger.Warn("malformed device id", "error", err)
			return nil
		}
		if sc == nil {
			logger.Warn("no scanner", "device", id)
			return s.connectionReport(id)
		}
		go func() {
			if _, err := sc.ConnectToDevice(s.ctx, id); err != nil {
				logger.Warn("connect failed", "device", id, "error", err)
				sock.queueMessages(s.connectionReport(id)...)
			}
		}()
	case wire.ServerDisconnectFromDevice:
		id, err := parseStringPayload(data)
		if err != nil {
			logger.Warn("malformed device id", "error", err)
			return nil
		}
		d, ok := s.cfg.Pool.Get(id)
		if !ok {
			logger.Warn("dropping command", "error", &RelayError{Op: typ, DeviceID: id, Err: ErrUnknownDevice})
			return s.connectionReport(id)
		}
		go func() {
			if err := d.Disconnect(s.ctx); err != nil {
				logger.Warn("disconnect failed", "device", id, "error", err)
				sock.queueMessages(s.connectionReport(id)...)
			}
		}()

	case wire.ServerDeviceMessage:
		if msg, ok := s.deviceCommand(logger, data); ok {
			return []wire.Message{msg}
		}

	default:
		logger.Debug("ignoring server-only message")
	}
	return nil
}

// connectionReport answers a connect or disconnect request that will not
// produce a pool broadcast with the device's current isConnected state.
func (s *Server) connectionReport(id string) []wire.Message {
	_, connected := s.cfg.Pool.Connected(id)
	msg, err := deviceMessage(wire.DeviceEventTypes, id, wire.Message{Type: wire.EventIsConnected, Data: boolByte(connected)})
	if err != nil {
		s.logger.Warn("encoding connection report", "device", id, "error", err)
		return nil
	}
	return []wire.Message{msg}
}

// deviceCommand forwards smp and tx payloads to the device and answers every
// other type from the latest-message cache. Tx types with a payload are sent
// to the device; the echo arrives as a broadcast. A cache miss on a tx type
// is requested from the device, any other miss is answered with an empty
// payload.
func (s *Server) deviceCommand(logger *slog.Logger, data []byte) (wire.Message, bool) {
	id, inner, err := parseDeviceMessage(data)
	if err != nil {
		logger.Warn("malformed device message", "error", err)
		return wire.Message{}, false
	}
	d, ok := s.cfg.Pool.Connected(id)
	if !ok {
		logger.Warn("dropping device message", "error", &RelayError{Op: wire.ServerDeviceMessage, DeviceID: id, Err: ErrUnknownDevice})
		return wire.Message{}, false
	}
	logger = logger.With("device", id)

	var answers, forward []wire.Message
	err = wire.Decode(wire.ConnectionMessageTypes, inner, func(typ string, payload []byte, _ bool) error {
		switch {
		case typ == wire.MsgSmp:
			if err := d.SendSmpMessage(s.ctx, payload); err != nil {
				logger.Warn("forwarding smp failed", "error", err)
			}
		case typ == wire.MsgTx:
			if err := d.SendTxData(s.ctx, payload); err != nil {
				logger.Warn("forwarding tx failed", "error", err)
			}
		case len(payload) > 0 && wire.TxRxMessageTypes.Contains(typ):
			forward = append(forward, wire.Message{Type: typ, Data: payload})
		default:
			cached, ok := d.LatestMessage(typ)
			switch {
			case ok:
				answers = append(answers, wire.Message{Type: typ, Data: cached})
			case wire.TxRxMessageTypes.Contains(typ):
				logger.Debug("no cached value, asking device", "type", typ)
				forward = append(forward, wire.Message{Type: typ})
			default:
				logger.Debug("no cached value", "type", typ)
				answers = append(answers, wire.Message{Type: typ})
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("malformed device message", "error", err)
	}

	if len(forward) > 0 {
		if err := d.SendTxMessages(s.ctx, forward, true); err != nil {
			logger.Warn("forwarding tx messages failed", "error", err)
		}
	}
	if len(answers) == 0 {
		return wire.Message{}, false
	}
	msg, err := deviceMessage(wire.DeviceEventTypes, id, answers...)
	if err != nil {
		logger.Warn("encoding device answer", "error", err)
		return wire.Message{}, false
	}
	return msg, true
}

func (sock *socket) readPump() {
	s := sock.server
	defer func() {
		s.unregister(sock)
		_ = sock.conn.Close()
	}()

	sock.conn.SetReadLimit(s.cfg.MaxMessageSize)
	deadline := s.cfg.PingInterval + s.cfg.PongWait
	_ = sock.conn.SetReadDeadline(time.Now().Add(deadline))
	sock.conn.SetPongHandler(func(string) error {
		return sock.conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		_, frame, err := sock.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", "socket", sock.id, "error", err)
			} else {
				s.logger.Debug("websocket closed", "socket", sock.id, "error", err)
			}
			return
		}
		_ = sock.conn.SetReadDeadline(time.Now().Add(deadline))
		sock.emit(log.DirectionIn, frame)
		if replies := s.handle(sock, frame); len(replies) > 0 {
			sock.queueMessages(replies...)
		}
	}
}

func (sock *socket) writePump() {
	s := sock.server
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = sock.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-sock.send:
			if !ok {
				_ = sock.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			_ = sock.conn.SetWriteDeadline(time.Now().Add(s.cfg.PongWait))
			if err := sock.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
			sock.emit(log.DirectionOut, frame)
		case <-ticker.C:
			_ = sock.conn.SetWriteDeadline(time.Now().Add(s.cfg.PongWait))
			if err := sock.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (sock *socket) queueMessages(msgs ...wire.Message) {
	if len(msgs) == 0 {
		return
	}
	frame, err := wire.Encode(wire.ServerMessageTypes, msgs...)
	if err != nil {
		sock.server.logger.Warn("encoding reply", "socket", sock.id, "error", err)
		return
	}
	sock.queue(frame)
}

// queue hands frame to the write pump. Frames for a closed socket are
// discarded. A full queue closes the socket.
func (sock *socket) queue(frame []byte) {
	sock.mu.Lock()
	if sock.closed {
		sock.mu.Unlock()
		return
	}
	select {
	case sock.send <- frame:
		sock.mu.Unlock()
		return
	default:
	}
	sock.mu.Unlock()

	sock.server.logger.Warn("send queue full, closing slow client", "socket", sock.id)
	sock.closeSend()
	_ = sock.conn.Close()
}

// closeSend closes the send channel once. The write pump then sends a close
// frame and exits.
func (sock *socket) closeSend() {
	sock.mu.Lock()
	defer sock.mu.Unlock()
	if sock.closed {
		return
	}
	sock.closed = true
	close(sock.send)
}

func (sock *socket) emit(dir log.Direction, frame []byte) {
	log.Emit(sock.server.cfg.ProtocolLogger, log.Event{
		ConnectionID: sock.id,
		RemoteAddr:   sock.remote,
		Direction:    dir,
		Layer:        log.LayerRelay,
		Category:     log.CategoryMessage,
		Frame:        log.NewFrameEvent("websocket", frame),
	})
}

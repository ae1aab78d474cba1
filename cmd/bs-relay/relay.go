package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/brilliantsole/bs-go/pkg/config"
	"github.com/brilliantsole/bs-go/pkg/device"
	"github.com/brilliantsole/bs-go/pkg/discovery"
	"github.com/brilliantsole/bs-go/pkg/log"
	"github.com/brilliantsole/bs-go/pkg/persistence"
	"github.com/brilliantsole/bs-go/pkg/relay"
	"github.com/brilliantsole/bs-go/pkg/scanner"
	"github.com/brilliantsole/bs-go/pkg/sink"
)

const shutdownTimeout = 5 * time.Second

// relayProcess owns everything bs-relay starts. Fields are nil when the
// corresponding feature is disabled.
type relayProcess struct {
	cfg    *config.Config
	logger *slog.Logger

	protocolLog *log.FileLogger
	pool        *device.Pool
	scanner     scanner.Scanner
	closeRadio  func()
	store       *persistence.Store
	untrack     func()
	sinks       []sink.Sink
	server      *relay.Server
	advertiser  discovery.Advertiser
	httpServer  *http.Server
}

func newRelay(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*relayProcess, error) {
	r := &relayProcess{cfg: cfg, logger: logger, pool: device.NewPool(logger)}

	var protocolLogger log.Logger
	if cfg.Logging.ProtocolLog != "" {
		fl, err := log.NewFileLogger(cfg.Logging.ProtocolLog)
		if err != nil {
			return nil, fmt.Errorf("opening protocol log: %w", err)
		}
		r.protocolLog = fl
		protocolLogger = fl
		logger.Info("protocol capture enabled", "path", cfg.Logging.ProtocolLog)
	}

	sc, closeRadio, err := newScanner(cfg.Scanner.Backend, r.pool, logger, protocolLogger)
	if err != nil {
		r.shutdown()
		return nil, err
	}
	r.scanner, r.closeRadio = sc, closeRadio

	if cfg.Database.Path != "" {
		store, err := persistence.Open(cfg.Database.Path)
		if err != nil {
			r.shutdown()
			return nil, err
		}
		r.store = store
		r.untrack = store.Track(r.pool, time.Now, logger)
	}

	if err := r.dialSinks(ctx); err != nil {
		r.shutdown()
		return nil, err
	}

	server, err := relay.NewServer(relay.ServerConfig{
		Scanner:                                sc,
		Pool:                                   r.pool,
		ClearSensorConfigurationsWhenNoClients: cfg.Server.ClearSensorConfigurationsWhenNoClients,
		Sinks:                                  r.sinks,
		Logger:                                 logger,
		ProtocolLogger:                         protocolLogger,
	})
	if err != nil {
		r.shutdown()
		return nil, err
	}
	r.server = server

	mux := http.NewServeMux()
	mux.Handle(cfg.Server.Path, server)
	r.httpServer = &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return r, nil
}

func (r *relayProcess) dialSinks(ctx context.Context) error {
	if m := r.cfg.MQTT; m.Enabled() {
		s, err := sink.DialMQTT(sink.MQTTConfig{
			Broker:      m.Broker,
			ClientID:    m.ClientID,
			Username:    m.Username,
			Password:    m.Password,
			TopicPrefix: m.TopicPrefix,
			QoS:         byte(m.QoS),
			Logger:      r.logger,
		})
		if err != nil {
			return err
		}
		r.sinks = append(r.sinks, s)
	}
	if i := r.cfg.InfluxDB; i.Enabled() {
		s, err := sink.DialInfluxDB(ctx, sink.InfluxDBConfig{
			URL:    i.URL,
			Token:  i.Token,
			Org:    i.Org,
			Bucket: i.Bucket,
			Logger: r.logger,
		})
		if err != nil {
			return err
		}
		r.sinks = append(r.sinks, s)
	}
	return nil
}

// run serves until ctx is cancelled or the listener fails.
func (r *relayProcess) run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", r.cfg.Server.Listen, err)
	}
	r.logger.Info("relay listening", "addr", ln.Addr().String(), "path", r.cfg.Server.Path,
		"scanner", r.cfg.Scanner.Backend)

	if r.cfg.Discovery.Enabled {
		r.advertise(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- r.httpServer.Serve(ln) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (r *relayProcess) advertise(addr net.Addr) {
	_, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		r.logger.Warn("not advertising", "error", err)
		return
	}
	port, _ := strconv.Atoi(portStr)

	info := &discovery.RelayInfo{
		Instance: r.cfg.Discovery.Instance,
		Port:     port,
		Path:     r.cfg.Server.Path,
	}
	if r.scanner != nil {
		info.Scanner = r.cfg.Scanner.Backend
	}

	adv := discovery.NewMDNSAdvertiser(discovery.DefaultAdvertiserConfig())
	if err := adv.Advertise(info); err != nil {
		r.logger.Warn("mDNS advertisement failed", "error", err)
		return
	}
	r.advertiser = adv
	r.logger.Info("advertising relay", "instance", info.Instance, "service", discovery.ServiceType, "port", port)
}

// shutdown releases everything in reverse start order.
func (r *relayProcess) shutdown() {
	if r.advertiser != nil {
		r.advertiser.Stop()
	}
	if r.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := r.httpServer.Shutdown(ctx); err != nil {
			r.logger.Warn("http shutdown", "error", err)
		}
		cancel()
	}
	if r.server != nil {
		_ = r.server.Close()
	}
	if r.scanner != nil && r.scanner.IsScanning() {
		_ = r.scanner.StopScan()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	for _, d := range r.pool.AvailableDevices() {
		if d.IsConnected() {
			if err := d.Disconnect(ctx); err != nil {
				r.logger.Debug("disconnect on shutdown", "device", d.BluetoothID(), "error", err)
			}
		}
		d.Close()
	}
	cancel()

	if r.untrack != nil {
		r.untrack()
	}
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			r.logger.Warn("closing sink", "error", err)
		}
	}
	if r.store != nil {
		_ = r.store.Close()
	}
	if r.closeRadio != nil {
		r.closeRadio()
	}
	if r.protocolLog != nil {
		if err := r.protocolLog.Close(); err != nil {
			r.logger.Warn("closing protocol log", "error", err)
		}
	}
}

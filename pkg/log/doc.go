// Package log captures protocol events for offline inspection.
//
// It is separate from operational logging (slog). Capture records what
// crossed each layer: raw characteristic and socket bytes, decoded TLV
// messages, connection state transitions and errors.
//
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	fl, _ := log.NewFileLogger("/var/log/bs/relay.bslog")
//	cfg.ProtocolLogger = log.NewMultiLogger(log.NewSlogAdapter(logger), fl)
//
// Capture files are a stream of CBOR items with integer keys. The bs-log
// tool views, filters and exports them.
package log

// Package wire implements the type-length-value message framing shared by
// every device transport and the relay protocol.
//
// Each message is written as
//
//	[u8 type][u16LE length][payload]
//
// and messages are concatenated without separators. The type byte is the
// position of the message name in a Table. Tables are append-only; the
// generated tables in tables_gen.go are produced from tables.yaml.
//
// # Decoding
//
// Decode walks a buffer to exhaustion and hands each complete message to a
// callback. A truncated header or payload, or a type byte outside the table,
// ends the walk with a *ProtocolError. Messages already delivered stay
// delivered; a partial message is never delivered. Reassembly of messages
// split across transport packets is the transport's job.
//
// # Data normalization
//
// AppendData turns loosely typed values (numbers, booleans, strings, byte
// slices and nested slices) into payload bytes the same way on every
// transport, so a relayed command is byte-identical to a direct one.
package wire

//go:generate go run ../../cmd/bs-tablegen -input tables.yaml -output tables_gen.go

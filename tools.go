//go:build tools

package tools

// Code generators are run as installed binaries, not via go run:
//
//	mockery                     regenerates pkg/**/mocks from .mockery.yaml
//	go generate ./pkg/wire      regenerates tables_gen.go with cmd/bs-tablegen

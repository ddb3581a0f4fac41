package main

import (
	"bytes"
	"errors"
	"net"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/b/snapmixer/pkg/config"
)

// TestAppGraphValidity fails when a constructor is missing from the graph.
func TestAppGraphValidity(t *testing.T) {
	err := fx.ValidateApp(
		fx.Supply(zap.NewNop(), config.Default(), serverAddr("localhost:1705"), configPath("config.yaml")),
		appOptions,
		fx.NopLogger,
	)
	assert.NoError(t, err)
}

func TestUnreachableServerFailsStartup(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	app := fx.New(
		fx.Supply(zap.NewNop(), config.Default(), serverAddr(addr), configPath("config.yaml")),
		appOptions,
		fx.NopLogger,
	)
	err = app.Err()
	require.Error(t, err)

	var ce *connectError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Error(), "couldn't connect to Snapcast server at "+addr)
}

func TestPrintHelpListsKeys(t *testing.T) {
	flagSet := pflag.NewFlagSet("snapmixer", pflag.ContinueOnError)
	flagSet.StringP("server", "s", "localhost:1705", "Snapcast server `HOST[:PORT]`")

	var out bytes.Buffer
	printHelp(&out, flagSet)
	assert.Contains(t, out.String(), "--server HOST[:PORT]")
	assert.Contains(t, out.String(), "toggle mute")
	assert.Contains(t, out.String(), "snap volume to 10%, 20%")
}

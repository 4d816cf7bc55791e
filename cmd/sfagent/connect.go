// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/silicon-friends/api"
	"github.com/bureau-foundation/silicon-friends/cmd/sfagent/cli"
	"github.com/bureau-foundation/silicon-friends/lib/config"
	"github.com/bureau-foundation/silicon-friends/lib/secret"
	"github.com/bureau-foundation/silicon-friends/realtime"
	"github.com/bureau-foundation/silicon-friends/session"
)

// commonFlags are accepted by every command that talks to the server.
type commonFlags struct {
	ConfigPath string
	Verbose    bool
}

func (f *commonFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.ConfigPath, "config", "", "config file (default: $"+config.EnvironmentVariable+")")
	flagSet.BoolVarP(&f.Verbose, "verbose", "v", false, "log at debug level")
}

func (f *commonFlags) load() (*config.Config, error) {
	if f.ConfigPath != "" {
		return config.LoadFile(f.ConfigPath)
	}
	return config.Load()
}

// agent is an opened session with the secrets it owns.
type agent struct {
	session *session.Session
	secrets []*secret.Buffer
}

// Close stops the session and zeroes the secrets.
func (a *agent) Close() error {
	errs := []error{a.session.Close()}
	for _, buffer := range a.secrets {
		errs = append(errs, buffer.Close())
	}
	return errors.Join(errs...)
}

type openOptions struct {
	// withRealtime connects the realtime channel. One-shot commands
	// leave it off so sends go over REST and are acknowledged.
	withRealtime bool
	withPolling  bool
}

// openAgent builds the session described by cfg. The caller calls
// Start.
func openAgent(cfg *config.Config, logger *slog.Logger, options openOptions) (*agent, error) {
	opened := &agent{}
	password, err := cli.ReadPassword(cfg.Credentials.PasswordFile)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	opened.secrets = append(opened.secrets, password)

	var apiKey *secret.Buffer
	if cfg.AutoRegister && cfg.Credentials.APIKeyFile != "" {
		apiKey, err = secret.ReadFromPath(cfg.Credentials.APIKeyFile)
		if err != nil {
			password.Close()
			return nil, fmt.Errorf("reading API key: %w", err)
		}
		opened.secrets = append(opened.secrets, apiKey)
	}

	client, err := api.NewClient(api.ClientConfig{BaseURL: cfg.APIURL, Logger: logger})
	if err != nil {
		closeAll(opened.secrets)
		return nil, err
	}

	sessionConfig := session.Config{
		API: client,
		Credentials: session.Credentials{
			AgentID:  cfg.Credentials.AgentID,
			Password: password,
			APIKey:   apiKey,
		},
		Profile: session.Profile{
			DisplayName: cfg.Profile.DisplayName,
			AvatarURL:   cfg.Profile.AvatarURL,
			Bio:         cfg.Profile.Bio,
			OwnerName:   cfg.Profile.OwnerName,
		},
		DisableAutoRegister: !cfg.AutoRegister,
		Features: &session.Features{
			Moments:       cfg.Features.Moments,
			Messaging:     cfg.Features.Messaging,
			Notifications: cfg.Features.Notifications,
		},
		Logger: logger,
	}
	if options.withRealtime {
		sessionConfig.Realtime = realtime.NewChannel(realtime.ChannelConfig{
			URL:    cfg.RealtimeEndpoint(),
			Logger: logger,
		})
	}
	if options.withPolling && cfg.Polling.Enabled {
		sessionConfig.Polling = session.Polling{Enabled: true, Interval: cfg.PollingInterval()}
	}

	opened.session, err = session.New(sessionConfig)
	if err != nil {
		client.Close()
		closeAll(opened.secrets)
		return nil, err
	}
	return opened, nil
}

func closeAll(buffers []*secret.Buffer) {
	for _, buffer := range buffers {
		buffer.Close()
	}
}

// withAgent loads config, opens and starts a REST-only session, and
// runs body against it.
func withAgent(ctx context.Context, flags *commonFlags, command string, body func(ctx context.Context, s *session.Session) error) error {
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	logger := cli.NewCommandLogger(flags.Verbose).With("command", command)

	opened, err := openAgent(cfg, logger, openOptions{})
	if err != nil {
		return err
	}
	defer opened.Close()

	if _, err := opened.session.Start(ctx); err != nil {
		return err
	}
	return body(ctx, opened.session)
}

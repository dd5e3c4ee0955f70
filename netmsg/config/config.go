/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config declares the mapstructure-tagged configuration tree for a
// netmsg listener and loads it through viper, following the same
// model-struct-plus-validator idiom as the rest of this module's server
// components.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/flowmesh/golib/netmsg/listener"
	"github.com/flowmesh/golib/netmsg/session"
)

// ListenerConfig configures the bind address and accept loop.
type ListenerConfig struct {
	BindAddress   string        `mapstructure:"bind_address" json:"bind_address" yaml:"bind_address" toml:"bind_address"`
	Port          int           `mapstructure:"port" json:"port" yaml:"port" toml:"port" validate:"required"`
	Backlog       int           `mapstructure:"backlog" json:"backlog" yaml:"backlog" toml:"backlog"`
	AcceptTimeout time.Duration `mapstructure:"accept_timeout" json:"accept_timeout" yaml:"accept_timeout" toml:"accept_timeout"`
}

func (l ListenerConfig) Listener() listener.Config {
	cfg := listener.DefaultConfig()
	cfg.BindAddress = l.BindAddress
	cfg.Port = l.Port
	if l.Backlog > 0 {
		cfg.Backlog = l.Backlog
	}
	if l.AcceptTimeout > 0 {
		cfg.AcceptTimeout = l.AcceptTimeout
	}
	return cfg
}

// QueueConfig configures one session's outbound queue limits and standby
// behavior, per spec.md §4.8 and §4.9.
type QueueConfig struct {
	MaxCount     int           `mapstructure:"max_count" json:"max_count" yaml:"max_count" toml:"max_count"`
	MaxBytes     int64         `mapstructure:"max_bytes" json:"max_bytes" yaml:"max_bytes" toml:"max_bytes"`
	GracePeriod  time.Duration `mapstructure:"grace_period" json:"grace_period" yaml:"grace_period" toml:"grace_period"`
	PollInterval time.Duration `mapstructure:"poll_interval" json:"poll_interval" yaml:"poll_interval" toml:"poll_interval"`
	WarnThrottle time.Duration `mapstructure:"warn_throttle" json:"warn_throttle" yaml:"warn_throttle" toml:"warn_throttle"`

	StandbyMaxBytes  int64         `mapstructure:"standby_max_bytes" json:"standby_max_bytes" yaml:"standby_max_bytes" toml:"standby_max_bytes"`
	StandbyTimeLimit time.Duration `mapstructure:"standby_time_limit" json:"standby_time_limit" yaml:"standby_time_limit" toml:"standby_time_limit"`
}

// ConnectConfig configures the outbound multi-address connect strategy of
// spec.md §4.12.
type ConnectConfig struct {
	Strategy    string        `mapstructure:"strategy" json:"strategy" yaml:"strategy" toml:"strategy" validate:"omitempty,oneof=single sequential parallel"`
	Parallelism int64         `mapstructure:"parallelism" json:"parallelism" yaml:"parallelism" toml:"parallelism"`
	Deadline    time.Duration `mapstructure:"deadline" json:"deadline" yaml:"deadline" toml:"deadline"`
	ReadTimeout time.Duration `mapstructure:"read_timeout" json:"read_timeout" yaml:"read_timeout" toml:"read_timeout"`
}

// Config is the complete netmsg server configuration tree, loaded from a
// file, environment, or flags via viper.
type Config struct {
	Listener ListenerConfig `mapstructure:"listener" json:"listener" yaml:"listener" toml:"listener"`
	Queue    QueueConfig    `mapstructure:"queue" json:"queue" yaml:"queue" toml:"queue"`
	Connect  ConnectConfig  `mapstructure:"connect" json:"connect" yaml:"connect" toml:"connect"`
}

// Session builds a session.Config from the queue section, filling any
// unset field from session.DefaultConfig.
func (c Config) Session() session.Config {
	cfg := session.DefaultConfig()
	if c.Queue.MaxCount > 0 {
		cfg.QueueMaxCount = c.Queue.MaxCount
	}
	if c.Queue.MaxBytes > 0 {
		cfg.QueueMaxBytes = c.Queue.MaxBytes
	}
	if c.Queue.GracePeriod > 0 {
		cfg.QueueGracePeriod = c.Queue.GracePeriod
	}
	if c.Queue.PollInterval > 0 {
		cfg.QueuePollInterval = c.Queue.PollInterval
	}
	if c.Queue.WarnThrottle > 0 {
		cfg.WarnThrottle = c.Queue.WarnThrottle
	}
	if c.Queue.StandbyMaxBytes > 0 {
		cfg.StandbyMaxBytes = c.Queue.StandbyMaxBytes
	}
	if c.Queue.StandbyTimeLimit > 0 {
		cfg.StandbyTimeLimit = c.Queue.StandbyTimeLimit
	}
	return cfg
}

// Default returns a Config with every field defaulted to the values named
// in SPEC_FULL.md's config section.
func Default() Config {
	return Config{
		Listener: ListenerConfig{Port: 7000, Backlog: 50, AcceptTimeout: 5 * time.Second},
		Queue: QueueConfig{
			MaxCount:         1000,
			MaxBytes:         8 << 20,
			GracePeriod:      2 * time.Second,
			PollInterval:     250 * time.Millisecond,
			WarnThrottle:     time.Minute,
			StandbyTimeLimit: 30 * time.Second,
		},
		Connect: ConnectConfig{Strategy: "sequential", Parallelism: 4, Deadline: 10 * time.Second, ReadTimeout: 5 * time.Second},
	}
}

// Load reads v into a Config on top of Default, then validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package base

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/stratum/internal/cmd/base/logging"
)

// ProcessLogLevelAndFormat resolves the log level and format flags. An unset
// level means info; an unset format is reported as unspecified and renders
// as standard output.
func ProcessLogLevelAndFormat(flagLogLevel, flagLogFormat string) (hclog.Level, logging.LogFormat, error) {
	logFormat := logging.UnspecifiedFormat

	logLevel := strings.ToLower(strings.TrimSpace(flagLogLevel))
	if logLevel == "" {
		logLevel = "info"
	}

	// Set level based off text value
	var level hclog.Level
	switch logLevel {
	case "trace":
		level = hclog.Trace
	case "debug":
		level = hclog.Debug
	case "notice", "info":
		level = hclog.Info
	case "warn", "warning":
		level = hclog.Warn
	case "err", "error":
		level = hclog.Error
	default:
		return level, logFormat, fmt.Errorf("unknown log level: %s", logLevel)
	}

	if flagLogFormat != "" {
		var err error
		logFormat, err = logging.ParseLogFormat(flagLogFormat)
		if err != nil {
			return level, logFormat, err
		}
	}

	return level, logFormat, nil
}

// SetupLogging builds the command's logger from the log level and format
// flags. Log output goes to stderr so it never mixes with command output.
func (c *Command) SetupLogging(flagLogLevel, flagLogFormat string) error {
	logLevel, logFormat, err := ProcessLogLevelAndFormat(flagLogLevel, flagLogFormat)
	if err != nil {
		return err
	}
	c.Logger = hclog.New(&hclog.LoggerOptions{
		Name:   "stratum",
		Output: os.Stderr,
		Level:  logLevel,
		// Note that if logFormat is either unspecified or standard, then
		// the resulting logger's format will be standard.
		JSONFormat: logFormat == logging.JSONFormat,
	})
	return nil
}

// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

/*
Package config provides layered configuration loading for winspy.

# Configuration Sources

Sources are applied lowest to highest precedence:
  - Built-in defaults (defaultConfig)
  - YAML file: --config, $WINSPY_CONFIG, or ./winspy.yaml
  - WINSPY_* environment variables
  - Command line flags, passed as LoadOptions.Overrides

# Example File

	store:
	  path: C:\ProgramData\Microsoft\Diagnosis\EventTranscript\EventTranscript.db
	output:
	  path: events.json
	  indent: true
	detection:
	  disabled: [usb]
	publish:
	  url: nats://127.0.0.1:4222
	  topic: winspy.events
	logging:
	  level: debug
	  format: json

# Validation

Load validates the merged result with go-playground/validator struct tags
and a few cross-field checks. Failures name the offending koanf path, for
example "logging.level must be one of [...]".
*/
package config

// Package config provides configuration for the cursorseq tools.
//
// Settings are resolved from several sources, lowest precedence first:
//
//  1. Built-in defaults (Default)
//  2. A TOML file (LoadFile)
//  3. Environment variables prefixed with CURSORSEQ_ (ApplyEnv)
//  4. Command-line flags, applied by the caller
//
// Example file:
//
//	[sequence]
//	initial_capacity = 30
//	max_capacity = 0        # 0 means unlimited
//
//	[log]
//	level = "info"
//
//	[driver]
//	prompt = "seq> "
//	echo = false
//
//	[watch]
//	debounce = "200ms"
//
// A missing file is not an error; unknown keys are.
package config

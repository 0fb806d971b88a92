// Package config loads linedoc settings and turns them into document
// options.
//
// Settings are layered, higher layers overriding lower ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. LINEDOC_* environment variables
//
// A file looks like:
//
//	[history]
//	undoDepth = 200
//	eventDelay = "1.25s"
//
//	[selection]
//	mayTouch = false
//
//	[document]
//	lineSeparator = ""
//	direction = "ltr"
//	readOnly = false
//	firstLine = 0
//	mode = "null"
//
//	[logging]
//	level = "info"
//	format = "console"
//	file = ""
//
// Environment variables follow SECTION_SETTING_NAME, so
// LINEDOC_HISTORY_UNDO_DEPTH sets history.undoDepth. LINEDOC_LOG_LEVEL,
// LINEDOC_LOG_FORMAT and LINEDOC_LOG_FILE set the logging section.
//
// # Basic Usage
//
//	cfg, err := config.Load("linedoc.toml")
//	if err != nil {
//	    return err
//	}
//	opts, err := cfg.Options(mode.Default(), log)
//	if err != nil {
//	    return err
//	}
//	d := engine.New(text, opts...)
package config

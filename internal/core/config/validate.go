package config

import (
	"fmt"
	"os/exec"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/colonyops/taskscout/internal/core/task"
)

// Validate checks basic structural validity: log level, exclusion glob
// syntax, known tool names, and ant include globs.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("log_level", c.LogLevel, validLogLevel),
		c.validateExcludes(),
		c.validateTools(),
		c.validateAnt(),
	)
}

// ValidateDeep adds I/O checks on top of Validate: configured executable
// overrides must resolve on PATH or as files.
func (c *Config) ValidateDeep() error {
	if err := c.Validate(); err != nil {
		return err
	}

	var errs criterio.FieldErrorsBuilder
	for name, tc := range c.Tools {
		if tc.Path == "" {
			continue
		}
		if _, err := exec.LookPath(tc.Path); err != nil {
			errs = errs.Append(fmt.Sprintf("tools[%q].path", name), fmt.Errorf("executable not found: %s", tc.Path))
		}
	}
	return errs.ToError()
}

func validLogLevel(level string) error {
	if level == "" {
		return nil
	}
	if _, err := zerolog.ParseLevel(level); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	return nil
}

func (c *Config) validateExcludes() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Exclude {
		// Substring entries are always valid; only reject entries that look
		// like globs but fail to compile.
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("exclude[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}
	return errs.ToError()
}

func (c *Config) validateTools() error {
	var errs criterio.FieldErrorsBuilder
	for name := range c.Tools {
		if !slices.Contains(task.KnownTypes, task.Type(name)) {
			errs = errs.Append(fmt.Sprintf("tools[%q]", name), fmt.Errorf("unknown task type"))
		}
	}
	return errs.ToError()
}

func (c *Config) validateAnt() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Ant.IncludeGlobs {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("ant.include_globs[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}
	if c.Ant.EnableAnsicon && c.Ant.AnsiconPath == "" {
		errs = errs.Append("ant.enable_ansicon", fmt.Errorf("ansicon_path must be set when enable_ansicon is true"))
	}
	return errs.ToError()
}

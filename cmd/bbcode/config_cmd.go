package main

import (
	"fmt"

	"github.com/alnah/go-bbcode/internal/yamlutil"
)

// runConfig prints the effective configuration as YAML.
func runConfig(args []string, env *Environment) error {
	flags, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}

	s, err := loadSettings(flags.common, renderFlags{}, env)
	if err != nil {
		return err
	}

	data, err := yamlutil.Encode(s.cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(data)
	return err
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/exiled-team/exiled/internal/plugin"
	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

func newPrefixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prefix <plugin name>",
		Short: "Print the document section a plugin name maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			prefix := plugin.Prefix(name)
			if prefix == "" {
				return exilederr.Errorf(exilederr.CodeCLIInputInvalid, "plugin name %q has no usable prefix", name)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), prefix)
			return err
		},
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/exiled-team/exiled/internal/loader"
	exilederr "github.com/exiled-team/exiled/pkg/errors"
	pkgplugin "github.com/exiled-team/exiled/pkg/plugin"
)

// lintFs is the filesystem lint reads from. Tests replace it.
var lintFs = afero.NewOsFs()

type lintRow struct {
	prefix string
	keys   int
	status string
	ok     bool
}

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <document>",
		Short: "Check a configs or translations document section by section",
		Args:  cobra.ExactArgs(1),
		RunE:  runLint,
	}
	cmd.Flags().Bool("translations", false, "the document holds translations, not configs")
	return cmd
}

func runLint(cmd *cobra.Command, args []string) error {
	path := args[0]
	translations, _ := cmd.Flags().GetBool("translations")

	data, err := afero.ReadFile(lintFs, path)
	if err != nil {
		return exilederr.Wrap(err, exilederr.CodeDocumentReadFailure, "reading document", exilederr.FieldPath(path))
	}

	rows, err := lintDocument(data, translations)
	if err != nil {
		return exilederr.With(err, exilederr.FieldPath(path))
	}

	table := pterm.TableData{{"Section", "Keys", "Status"}}
	bad := 0
	for _, r := range rows {
		table = append(table, []string{r.prefix, strconv.Itoa(r.keys), r.status})
		if !r.ok {
			bad++
		}
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(table).Srender()
	if err != nil {
		return exilederr.Wrap(err, exilederr.CodeInternalFailure, "rendering lint table")
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), out); err != nil {
		return err
	}

	if bad > 0 {
		return exilederr.Errorf(exilederr.CodeDocumentParseInvalidFormat, "%d of %d sections have problems", bad, len(rows))
	}
	return nil
}

func lintDocument(data []byte, translations bool) ([]lintRow, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, exilederr.Wrap(err, exilederr.CodeDocumentParseInvalidFormat, "document is not valid YAML")
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, exilederr.New(exilederr.CodeDocumentEmpty, "document is empty")
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, exilederr.New(exilederr.CodeDocumentParseInvalidFormat, "document must map prefixes to sections")
	}

	seen := make(map[string]bool)
	var rows []lintRow
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i].Value, top.Content[i+1]
		row := lintRow{prefix: key, keys: len(value.Content) / 2}
		row.status, row.ok = lintSection(key, value, seen[key], translations)
		seen[key] = true
		rows = append(rows, row)
	}
	return rows, nil
}

func lintSection(prefix string, value *yaml.Node, duplicate, translations bool) (string, bool) {
	switch {
	case duplicate:
		return "duplicate section", false
	case !pkgplugin.ValidPrefix(prefix):
		return "prefix is not snake_case", false
	case value.Kind != yaml.MappingNode:
		return "section is not a mapping", false
	}

	if translations {
		return "ok", true
	}

	if prefix == loader.Prefix {
		var cfg loader.LoaderConfig
		if err := value.Decode(&cfg); err != nil {
			return "invalid: " + err.Error(), false
		}
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "is_enabled" {
			return "ok", true
		}
	}
	return "ok (no is_enabled, default applies)", true
}

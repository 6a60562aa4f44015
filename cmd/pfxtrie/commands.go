// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gaissmai/pfxtrie"
	"github.com/gaissmai/pfxtrie/handle"
	"github.com/gaissmai/pfxtrie/internal/metrics"
	"github.com/gaissmai/pfxtrie/internal/rules"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup ADDR[/LEN]...",
	Short: "Print the action of the longest matching rule for each argument",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, h, err := loadRules()
		if err != nil {
			return err
		}
		defer reg.Destroy(h)

		return lookup(cmd.OutOrStdout(), reg, h, args)
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the rules as prefix tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, h, err := loadRules()
		if err != nil {
			return err
		}
		defer reg.Destroy(h)

		return reg.Fprint(cmd.OutOrStdout(), h)
	},
}

var jsonCmd = &cobra.Command{
	Use:   "json",
	Short: "Print the rules as nested JSON list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, h, err := loadRules()
		if err != nil {
			return err
		}
		defer reg.Destroy(h)

		return dumpJSON(cmd.OutOrStdout(), reg, h)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print the documentation of the exported metrics as markdown",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "# pfxtrie metrics\n\nEach table below documents an exported metric.\n%s", metrics.Documentation())
	},
}

type lookupResult struct {
	Query  string `json:"query"`
	Match  string `json:"match,omitempty"`
	Action string `json:"action"`
}

func lookupOne(reg *handle.Registry, h handle.Handle, query string) (lookupResult, error) {
	pfx, err := pfxtrie.Parse(query)
	if err != nil {
		return lookupResult{}, errors.Wrapf(err, "lookup %q", query)
	}

	res := lookupResult{Query: pfx.String(), Action: rules.None.String()}

	lpm, action, ok, err := reg.LookupPrefix(h, pfx)
	if err != nil {
		return res, err
	}
	if ok {
		res.Match = lpm.String()
		res.Action = rules.Action(action).String()
	}
	return res, nil
}

func lookup(w io.Writer, reg *handle.Registry, h handle.Handle, queries []string) error {
	for _, q := range queries {
		res, err := lookupOne(reg, h, q)
		if err != nil {
			return err
		}

		if res.Match == "" {
			fmt.Fprintf(w, "%s -> %s\n", res.Query, res.Action)
			continue
		}
		fmt.Fprintf(w, "%s -> %s (%s)\n", res.Query, res.Action, res.Match)
	}
	return nil
}

func dumpJSON(w io.Writer, reg *handle.Registry, h handle.Handle) error {
	snap, err := reg.Snapshot(h)
	if err != nil {
		return err
	}

	list := snap.DumpList()
	if list == nil {
		list = []pfxtrie.DumpListNode[pfxtrie.IPPrefix, uint8]{}
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding json")
	}

	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

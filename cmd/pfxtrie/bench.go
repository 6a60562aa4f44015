// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"net/netip"
	"time"

	"github.com/gaissmai/bart"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gaissmai/pfxtrie"
	"github.com/gaissmai/pfxtrie/internal/tests/random"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Insert random real world IPv4 prefixes and time lookups, bart.Table as baseline",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		prng := rand.New(rand.NewPCG(42, 42))
		return bench(cmd.OutOrStdout(), prng, opts.Bench.Prefixes, opts.Bench.Lookups)
	},
}

type benchResult struct {
	name   string
	insert time.Duration
	lookup time.Duration
	hits   int
}

func bench(w io.Writer, prng *rand.Rand, nPrefixes, nLookups int) error {
	if nPrefixes <= 0 || nLookups <= 0 {
		return errors.New("bench: prefixes and lookups must be positive")
	}

	pfxs := random.RealWorldPrefixes4(prng, nPrefixes)

	probes := make([]netip.Prefix, 0, 1024)
	for range cap(probes) {
		ip := random.IP4(prng)
		probes = append(probes, netip.PrefixFrom(ip, ip.BitLen()))
	}

	results := []benchResult{
		benchTrie(pfxs, probes, nLookups),
		benchBart(pfxs, probes, nLookups),
	}

	for _, r := range results {
		log.WithField("table", r.name).WithField("hits", r.hits).Debug("bench done")
		fmt.Fprintf(w, "%-8s prefixes: %8d  insert: %8.1f ns/op  lookup: %6.1f ns/op  hits: %d\n",
			r.name, len(pfxs),
			float64(r.insert.Nanoseconds())/float64(len(pfxs)),
			float64(r.lookup.Nanoseconds())/float64(nLookups),
			r.hits)
	}

	if results[0].hits != results[1].hits {
		return errors.Errorf("bench: hit count mismatch, pfxtrie %d, bart %d", results[0].hits, results[1].hits)
	}
	return nil
}

func benchTrie(pfxs, probes []netip.Prefix, n int) benchResult {
	keys := make([]pfxtrie.IPPrefix, len(pfxs))
	for i, pfx := range pfxs {
		keys[i], _ = pfxtrie.From(pfx)
	}
	pks := make([]pfxtrie.IPPrefix, len(probes))
	for i, pfx := range probes {
		pks[i], _ = pfxtrie.From(pfx)
	}

	res := benchResult{name: "pfxtrie"}
	tbl := new(pfxtrie.PrefixMap[pfxtrie.IPPrefix, struct{}])

	start := time.Now()
	for _, k := range keys {
		tbl.Insert(k, struct{}{})
	}
	res.insert = time.Since(start)

	mask := len(pks) - 1
	start = time.Now()
	for i := range n {
		if _, _, ok := tbl.LookupLPM(pks[i&mask]); ok {
			res.hits++
		}
	}
	res.lookup = time.Since(start)
	return res
}

func benchBart(pfxs, probes []netip.Prefix, n int) benchResult {
	res := benchResult{name: "bart"}
	tbl := new(bart.Table[struct{}])

	start := time.Now()
	for _, pfx := range pfxs {
		tbl.Insert(pfx, struct{}{})
	}
	res.insert = time.Since(start)

	mask := len(probes) - 1
	start = time.Now()
	for i := range n {
		if _, _, ok := tbl.LookupPrefixLPM(probes[i&mask]); ok {
			res.hits++
		}
	}
	res.lookup = time.Since(start)
	return res
}

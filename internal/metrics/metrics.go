// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package metrics holds the prometheus collectors of the handle boundary.
//
// Every collector is registered with the default registry via promauto
// and recorded for Documentation, which renders a markdown table per metric.
package metrics

import (
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pfxtrie"

// Label values of the op label.
const (
	OpCreate  = "create"
	OpDestroy = "destroy"
	OpInsert  = "insert"
	OpLookup  = "lookup"
	OpRemove  = "remove"
)

// Label values of the result label.
const (
	ResultOK       = "ok"
	ResultMiss     = "miss"
	ResultInvalid  = "invalid"
	ResultNoHandle = "no_handle"
)

type metricDefinition struct {
	Name string
	Help string
	Type string
}

var (
	mu          sync.Mutex
	metricsOpts []metricDefinition
)

func record(name, help, typ string) {
	mu.Lock()
	defer mu.Unlock()
	metricsOpts = append(metricsOpts, metricDefinition{
		Name: name,
		Help: help,
		Type: typ,
	})
}

func fqName(name string) string {
	return prometheus.BuildFQName(namespace, "", name)
}

// NewCounterVec registers and documents a counter vector.
func NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	opts.Namespace = namespace
	record(fqName(opts.Name), opts.Help, "counter")
	return promauto.NewCounterVec(opts, labelNames)
}

// NewGauge registers and documents a gauge.
func NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	opts.Namespace = namespace
	record(fqName(opts.Name), opts.Help, "gauge")
	return promauto.NewGauge(opts)
}

// NewGaugeVec registers and documents a gauge vector.
func NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	opts.Namespace = namespace
	record(fqName(opts.Name), opts.Help, "gauge")
	return promauto.NewGaugeVec(opts, labelNames)
}

var (
	// Operations counts handle operations by op and result.
	Operations = NewCounterVec(prometheus.CounterOpts{
		Name: "operations_total",
		Help: "Number of operations on prefix trie handles, by operation and result.",
	}, []string{"op", "result"})

	// Handles is the number of live handles.
	Handles = NewGauge(prometheus.GaugeOpts{
		Name: "handles",
		Help: "Number of live prefix trie handles.",
	})

	// Entries is the number of entries per table name.
	Entries = NewGaugeVec(prometheus.GaugeOpts{
		Name: "entries",
		Help: "Number of prefixes stored in the named prefix trie.",
	}, []string{"table"})
)

// Documentation renders all registered metrics as markdown.
func Documentation() string {
	mu.Lock()
	defer mu.Unlock()

	var sb strings.Builder
	for _, opts := range metricsOpts {
		fmt.Fprintf(&sb, `
### %s
| **Name** | %s |
|:---|:---|
| **Description** | %s |
| **Type** | %s |

`,
			opts.Name,
			opts.Name,
			opts.Help,
			opts.Type,
		)
	}
	return sb.String()
}

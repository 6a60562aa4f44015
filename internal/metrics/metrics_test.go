// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestDocumentation(t *testing.T) {
	doc := Documentation()

	assert.Contains(t, doc, "### pfxtrie_operations_total")
	assert.Contains(t, doc, "| **Type** | counter |")
	assert.Contains(t, doc, "### pfxtrie_handles")
	assert.Contains(t, doc, "### pfxtrie_entries")
	assert.Contains(t, doc, "| **Type** | gauge |")
}

func TestOperations(t *testing.T) {
	Operations.WithLabelValues(OpLookup, ResultMiss).Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	assert.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "pfxtrie_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if m.GetCounter().GetValue() >= 1 {
				found = true
			}
		}
	}
	assert.True(t, found, "pfxtrie_operations_total not gathered")
}

// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRules = `
rules:
  - cidr: 10.0.0.0/8
    action: deny
  - cidr: 10.1.0.0/16
    action: allow
  - cidr: 192.168.1.0/24
    action: allow
`

func TestMain(m *testing.M) {
	initFlags()
	os.Exit(m.Run())
}

func withRules(t *testing.T, content string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	old := opts.Rules
	opts.Rules = path
	t.Cleanup(func() { opts.Rules = old })
}

func TestLookup(t *testing.T) {
	withRules(t, sampleRules)

	reg, h, err := loadRules()
	require.NoError(t, err)
	defer reg.Destroy(h)

	var buf bytes.Buffer
	require.NoError(t, lookup(&buf, reg, h, []string{"10.1.2.3", "10.2.0.0/16", "172.16.0.1"}))

	want := "10.1.2.3/32 -> allow (10.1.0.0/16)\n" +
		"10.2.0.0/16 -> deny (10.0.0.0/8)\n" +
		"172.16.0.1/32 -> none\n"
	assert.Equal(t, want, buf.String())

	assert.Error(t, lookup(&buf, reg, h, []string{"10.0.0.0/33"}))
}

func TestLoadRulesErrors(t *testing.T) {
	old := opts.Rules
	opts.Rules = ""
	_, _, err := loadRules()
	opts.Rules = old
	assert.Error(t, err)

	withRules(t, "rules:\n  - cidr: nonsense\n    action: deny\n")
	_, _, err = loadRules()
	assert.Error(t, err)
}

func TestDumpJSON(t *testing.T) {
	withRules(t, sampleRules)

	reg, h, err := loadRules()
	require.NoError(t, err)
	defer reg.Destroy(h)

	var buf bytes.Buffer
	require.NoError(t, dumpJSON(&buf, reg, h))

	want := `[
  {"cidr": "10.0.0.0/8", "value": 1, "subnets": [{"cidr": "10.1.0.0/16", "value": 2}]},
  {"cidr": "192.168.1.0/24", "value": 2}
]`
	assert.JSONEq(t, want, buf.String())
}

func TestDumpTree(t *testing.T) {
	withRules(t, sampleRules)

	reg, h, err := loadRules()
	require.NoError(t, err)
	defer reg.Destroy(h)

	var buf bytes.Buffer
	require.NoError(t, reg.Fprint(&buf, h))

	want := `▼
├─ 10.0.0.0/8 (1)
│  └─ 10.1.0.0/16 (2)
└─ 192.168.1.0/24 (2)
`
	assert.Equal(t, want, buf.String())
}

func TestBench(t *testing.T) {
	var buf bytes.Buffer
	prng := rand.New(rand.NewPCG(42, 42))
	require.NoError(t, bench(&buf, prng, 1_000, 10_000))
	assert.Contains(t, buf.String(), "pfxtrie")
	assert.Contains(t, buf.String(), "bart")

	assert.Error(t, bench(&buf, prng, 0, 10))
}

func TestMux(t *testing.T) {
	withRules(t, sampleRules)

	reg, h, err := loadRules()
	require.NoError(t, err)
	defer reg.Destroy(h)

	srv := httptest.NewServer(newMux(reg, h))
	defer srv.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/lookup?q=10.1.0.1")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"query":"10.1.0.1/32","match":"10.1.0.0/16","action":"allow"}`, body)

	code, body = get("/lookup?q=8.8.8.8")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"query":"8.8.8.8/32","action":"none"}`, body)

	code, _ = get("/lookup")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = get("/lookup?q=nonsense")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = get("/rules")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"10.1.0.0/16"`)

	code, body = get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "pfxtrie_operations_total")
}

func TestBindFlags(t *testing.T) {
	t.Setenv("PFXTRIE_BENCH_PREFIXES", "42")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var n int
	fs.IntVar(&n, "bench.prefixes", 1, "")

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	bindFlags(fs, v)

	assert.Equal(t, 42, n)
}

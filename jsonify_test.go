// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package pfxtrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonTestElement struct {
	cidr  IPPrefix
	value any
}

type jsonTest struct {
	elements []jsonTestElement
	want     string
}

func TestJsonEmpty(t *testing.T) {
	t.Parallel()
	checkJson(t, jsonTest{
		want: "[]",
	})
}

func TestJsonDefaultRoute(t *testing.T) {
	t.Parallel()
	checkJson(t, jsonTest{
		elements: []jsonTestElement{
			{mpp("::/0"), 31337},
		},
		want: `[{"cidr":"::/0","value":31337}]`,
	})
}

func TestJsonSampleV4(t *testing.T) {
	t.Parallel()
	checkJson(t, jsonTest{
		elements: []jsonTestElement{
			{mpp("172.16.0.0/12"), nil},
			{mpp("10.0.0.0/24"), nil},
			{mpp("192.168.0.0/16"), nil},
			{mpp("10.0.0.0/8"), nil},
			{mpp("10.0.1.0/24"), nil},
			{mpp("192.168.1.0/24"), "lan"},
		},
		want: `[` +
			`{"cidr":"10.0.0.0/8","value":null,"subnets":[` +
			`{"cidr":"10.0.0.0/24","value":null},` +
			`{"cidr":"10.0.1.0/24","value":null}]},` +
			`{"cidr":"172.16.0.0/12","value":null},` +
			`{"cidr":"192.168.0.0/16","value":null,"subnets":[` +
			`{"cidr":"192.168.1.0/24","value":"lan"}]}]`,
	})
}

func checkJson(t *testing.T, tt jsonTest) {
	t.Helper()

	tbl := new(PrefixMap[IPPrefix, any])
	for _, el := range tt.elements {
		tbl.Insert(el.cidr, el.value)
	}

	got, err := tbl.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, tt.want, string(got))
}

func TestJsonRoundTrip(t *testing.T) {
	t.Parallel()

	src := new(PrefixMap[IPPrefix, int])
	for i, s := range []string{"0.0.0.0/0", "10.0.0.0/8", "10.1.0.0/16", "10.2.0.0/16", "192.168.1.1/32"} {
		src.Insert(mpp(s), i)
	}

	data, err := src.MarshalJSON()
	require.NoError(t, err)

	dst := new(PrefixMap[IPPrefix, int])
	require.NoError(t, dst.UnmarshalJSON(data))
	require.NoError(t, checkInvariants(dst))

	assert.Equal(t, src.String(), dst.String())
	assert.Equal(t, src.Len(), dst.Len())

	assert.Error(t, dst.UnmarshalJSON([]byte(`[{"cidr":"10.0.0.0/33","value":1}]`)))
}

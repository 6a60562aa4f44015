// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package rules reads YAML rule files, lists of IPv4 prefixes with an
// action, and loads them into handle tables.
//
//	rules:
//	  - cidr: 10.0.0.0/8
//	    action: deny
//	  - cidr: 10.1.0.0/16
//	    action: allow
package rules

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gaissmai/pfxtrie"
	"github.com/gaissmai/pfxtrie/handle"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

var log = logrus.WithField("component", "rules")

// Action is the one byte payload of a rule.
type Action uint8

const (
	None  = Action(handle.ActionNone)
	Deny  = Action(handle.ActionDeny)
	Allow = Action(handle.ActionAllow)
)

var actionNames = map[Action]string{
	None:  "none",
	Deny:  "deny",
	Allow: "allow",
}

// ParseAction accepts an action name or a number in 0..255.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if s == name {
			return a, nil
		}
	}

	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return None, errors.Errorf("unknown action %q", s)
	}
	return Action(n), nil
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return strconv.Itoa(int(a))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Action) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	action, err := ParseAction(s)
	if err != nil {
		return err
	}
	*a = action
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Action) MarshalYAML() (any, error) {
	return a.String(), nil
}

// Rule maps an IPv4 prefix to an action.
type Rule struct {
	CIDR   string `yaml:"cidr"`
	Action Action `yaml:"action"`
}

// Prefix parses the CIDR of the rule, only IPv4 is accepted.
func (r Rule) Prefix() (pfxtrie.IPPrefix, error) {
	pfx, err := pfxtrie.Parse(r.CIDR)
	if err != nil {
		return pfx, err
	}
	if !pfx.Is4() {
		return pfx, errors.Wrapf(pfxtrie.ErrInvalidPrefix, "%s is not IPv4", r.CIDR)
	}
	return pfx, nil
}

func (r Rule) String() string {
	return fmt.Sprintf("%s -> %s", r.CIDR, r.Action)
}

// File is the content of a rule file.
type File struct {
	Rules []Rule `yaml:"rules"`
}

// Parse decodes and validates a rule file.
func Parse(data []byte) (*File, error) {
	f := new(File)
	if err := yaml.UnmarshalStrict(data, f); err != nil {
		return nil, errors.Wrap(err, "decoding rules")
	}

	for i, r := range f.Rules {
		if _, err := r.Prefix(); err != nil {
			return nil, errors.Wrapf(err, "rule #%d", i+1)
		}
	}
	return f, nil
}

// Load reads and parses the rule file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rules from %s", path)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "rules file %s", path)
	}

	log.WithField("path", path).WithField("rules", len(f.Rules)).Debug("loaded rules")
	return f, nil
}

// Marshal encodes f as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// Apply inserts all rules of f into the table behind h.
// Later rules for the same prefix override earlier ones.
func Apply(reg *handle.Registry, h handle.Handle, f *File) error {
	for i, r := range f.Rules {
		pfx, err := r.Prefix()
		if err != nil {
			return errors.Wrapf(err, "rule #%d", i+1)
		}
		if err := reg.InsertPrefix(h, pfx, uint8(r.Action)); err != nil {
			return errors.Wrapf(err, "rule #%d %s", i+1, r)
		}
		log.WithField("rule", r.String()).Trace("applied")
	}
	return nil
}

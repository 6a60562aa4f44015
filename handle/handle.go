// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package handle exposes IPv4 prefix tables behind opaque integer handles.
//
// The calls mirror a small C interface: a table is created and destroyed
// by handle, IPv4 prefixes are given as a 32-bit address (most significant
// byte first) plus a mask length, and every stored prefix carries a one
// byte action. Results are plain status codes, never errors or panics,
// so the functions can be exported over cgo unchanged.
//
// Each table has its own lock, distinct handles may be used concurrently.
package handle

import (
	"io"
	"strconv"
	"sync"

	"github.com/gaissmai/pfxtrie"
	"github.com/gaissmai/pfxtrie/internal/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "handle")

// Handle is an opaque reference to a prefix table, zero is never valid.
type Handle uintptr

// Status codes returned by Insert.
const (
	OK     = 0
	Failed = 1
)

// Actions, opaque to the table itself.
const (
	ActionNone  uint8 = 0
	ActionDeny  uint8 = 1
	ActionAllow uint8 = 2
)

// ErrUnknownHandle is returned for handles never created or already destroyed.
var ErrUnknownHandle = errors.New("handle: unknown handle")

// Table is the prefix table behind a handle.
type Table = pfxtrie.PrefixMap[pfxtrie.IPPrefix, uint8]

type table struct {
	mu   sync.Mutex
	m    Table
	dead bool // set by Destroy, under mu
}

// insert stores action for pfx. The entries gauge is set under t.mu,
// a destroyed table is never written and its series never recreated.
func (t *table) insert(h Handle, pfx pfxtrie.IPPrefix, action uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dead {
		return errors.Wrapf(ErrUnknownHandle, "%d", h)
	}

	t.m.Insert(pfx, action)
	metrics.Entries.WithLabelValues(label(h)).Set(float64(t.m.Len()))
	return nil
}

// remove deletes pfx, the counterpart of insert.
func (t *table) remove(h Handle, pfx pfxtrie.IPPrefix) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dead {
		return false, errors.Wrapf(ErrUnknownHandle, "%d", h)
	}

	_, ok := t.m.Remove(pfx)
	metrics.Entries.WithLabelValues(label(h)).Set(float64(t.m.Len()))
	return ok, nil
}

// Registry maps handles to tables.
// The zero value is ready to use.
type Registry struct {
	mu     sync.Mutex
	last   Handle
	tables map[Handle]*table
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) lookup(h Handle) (*table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[h]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownHandle, "%d", h)
	}
	return t, nil
}

// Create allocates a new empty table and returns its handle.
func (r *Registry) Create() Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tables == nil {
		r.tables = make(map[Handle]*table)
	}

	r.last++
	h := r.last
	r.tables[h] = &table{}

	metrics.Handles.Inc()
	metrics.Operations.WithLabelValues(metrics.OpCreate, metrics.ResultOK).Inc()
	log.WithField("handle", h).Debug("created table")
	return h
}

// Destroy releases the table behind h, unknown handles are ignored.
func (r *Registry) Destroy(h Handle) {
	r.mu.Lock()
	t, ok := r.tables[h]
	delete(r.tables, h)
	r.mu.Unlock()

	if !ok {
		metrics.Operations.WithLabelValues(metrics.OpDestroy, metrics.ResultNoHandle).Inc()
		log.WithField("handle", h).Warn("destroy of unknown handle")
		return
	}

	t.mu.Lock()
	t.m.Clear()
	t.dead = true
	metrics.Entries.DeleteLabelValues(label(h))
	t.mu.Unlock()

	metrics.Handles.Dec()
	metrics.Operations.WithLabelValues(metrics.OpDestroy, metrics.ResultOK).Inc()
	log.WithField("handle", h).Debug("destroyed table")
}

// InsertPrefix stores action for pfx, replacing a previous action.
func (r *Registry) InsertPrefix(h Handle, pfx pfxtrie.IPPrefix, action uint8) error {
	t, err := r.lookup(h)
	if err != nil {
		return err
	}
	if !pfx.Is4() {
		return errors.Wrapf(pfxtrie.ErrInvalidPrefix, "%s is not IPv4", pfx)
	}

	return t.insert(h, pfx, action)
}

// Insert stores action for addr/maskLen and returns OK,
// or Failed for an invalid mask length or an unknown handle.
func (r *Registry) Insert(h Handle, addr uint32, maskLen uint8, action uint8) int {
	pfx, err := pfxtrie.From4(addr, int(maskLen))
	if err == nil {
		err = r.InsertPrefix(h, pfx, action)
	}

	if err != nil {
		metrics.Operations.WithLabelValues(metrics.OpInsert, result(err)).Inc()
		log.WithError(err).WithField("handle", h).Debug("insert failed")
		return Failed
	}

	metrics.Operations.WithLabelValues(metrics.OpInsert, metrics.ResultOK).Inc()
	return OK
}

// LookupPrefix returns the longest stored prefix covering pfx and its action.
func (r *Registry) LookupPrefix(h Handle, pfx pfxtrie.IPPrefix) (lpm pfxtrie.IPPrefix, action uint8, ok bool, err error) {
	t, err := r.lookup(h)
	if err != nil {
		return lpm, action, false, err
	}
	if !pfx.Is4() {
		return lpm, action, false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	lpm, action, ok = t.m.LookupLPM(pfx)
	return lpm, action, ok, nil
}

// Lookup returns the action of the longest stored prefix covering
// addr/maskLen, or ActionNone if nothing covers it.
//
// An invalid mask length returns 1, indistinguishable from a deny
// action. C callers depend on this, check the mask length before.
func (r *Registry) Lookup(h Handle, addr uint32, maskLen uint8) uint8 {
	pfx, err := pfxtrie.From4(addr, int(maskLen))
	if err != nil {
		metrics.Operations.WithLabelValues(metrics.OpLookup, metrics.ResultInvalid).Inc()
		return 1
	}

	_, action, ok, err := r.LookupPrefix(h, pfx)
	switch {
	case err != nil:
		metrics.Operations.WithLabelValues(metrics.OpLookup, result(err)).Inc()
		log.WithError(err).Debug("lookup failed")
		return ActionNone
	case !ok:
		metrics.Operations.WithLabelValues(metrics.OpLookup, metrics.ResultMiss).Inc()
		return ActionNone
	}

	metrics.Operations.WithLabelValues(metrics.OpLookup, metrics.ResultOK).Inc()
	return action
}

// RemovePrefix deletes pfx, reports whether it was present.
func (r *Registry) RemovePrefix(h Handle, pfx pfxtrie.IPPrefix) (bool, error) {
	t, err := r.lookup(h)
	if err != nil {
		return false, err
	}
	if !pfx.Is4() {
		return false, nil
	}

	return t.remove(h, pfx)
}

// Remove deletes addr/maskLen, absent prefixes and invalid masks are ignored.
func (r *Registry) Remove(h Handle, addr uint32, maskLen uint8) {
	pfx, err := pfxtrie.From4(addr, int(maskLen))
	if err != nil {
		metrics.Operations.WithLabelValues(metrics.OpRemove, metrics.ResultInvalid).Inc()
		return
	}

	ok, err := r.RemovePrefix(h, pfx)
	switch {
	case err != nil:
		metrics.Operations.WithLabelValues(metrics.OpRemove, result(err)).Inc()
		log.WithError(err).Debug("remove failed")
	case !ok:
		metrics.Operations.WithLabelValues(metrics.OpRemove, metrics.ResultMiss).Inc()
	default:
		metrics.Operations.WithLabelValues(metrics.OpRemove, metrics.ResultOK).Inc()
	}
}

// Len returns the number of prefixes in the table behind h.
func (r *Registry) Len(h Handle) (int, error) {
	t, err := r.lookup(h)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.m.Len(), nil
}

// Snapshot returns a copy of the table behind h.
func (r *Registry) Snapshot(h Handle) (*Table, error) {
	t, err := r.lookup(h)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.m.Clone(), nil
}

// Fprint writes the hierarchical tree of the table behind h to w.
func (r *Registry) Fprint(w io.Writer, h Handle) error {
	snap, err := r.Snapshot(h)
	if err != nil {
		return err
	}
	return snap.Fprint(w)
}

func label(h Handle) string {
	return strconv.FormatUint(uint64(h), 10)
}

func result(err error) string {
	if errors.Is(err, ErrUnknownHandle) {
		return metrics.ResultNoHandle
	}
	return metrics.ResultInvalid
}

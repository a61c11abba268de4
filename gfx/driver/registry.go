// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package driver

import (
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	drivers    = make(map[string]Driver)
)

// Register makes a driver available under name.
// This is typically called from init() functions in backend packages.
// Registering a name twice replaces the earlier driver.
func Register(name string, d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	drivers[name] = d
}

// Unregister removes a driver from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(drivers, name)
}

// Available returns the sorted names of registered drivers.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a driver with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := drivers[name]
	return ok
}

// Get returns the driver registered under name, or nil.
func Get(name string) Driver {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return drivers[name]
}

// ForAPI returns the driver registered for api, or nil.
func ForAPI(api API) Driver {
	return Get(api.String())
}

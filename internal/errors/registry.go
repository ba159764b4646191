package errors

import (
	"sort"
	"sync"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Engine Errors (R001-R019)
	// ============================================

	"R001": {
		Category:   CategoryRuntime,
		Message:    "Uninitialized reactive property",
		Detail:     "The property is declared reactive but was read before its first write, so no cell exists yet.",
		Suggestion: "Assign the property with Set before reading it.",
		DocURL:     "https://reactor.vango.dev/errors/R001",
	},
	"R002": {
		Category:   CategoryDeclaration,
		Message:    "Derived property declared without a getter",
		Detail:     "A derived property wraps a getter in a memoized cell; without a getter there is nothing to compute.",
		Suggestion: "Pass a non-nil getter to Derived.",
		DocURL:     "https://reactor.vango.dev/errors/R002",
	},
	"R003": {
		Category:   CategorySubscription,
		Message:    "Dependency is not a materialized reactive array",
		Detail:     "An arrayChange subscription needs a dependency that evaluates to an array currently attached to a reactive property.",
		Suggestion: "Return the property's *Array from the dependency, after the property has been assigned.",
		DocURL:     "https://reactor.vango.dev/errors/R003",
	},
	"R004": {
		Category:   CategoryRuntime,
		Message:    "Unknown property",
		Detail:     "The object's type does not declare this property.",
		DocURL:     "https://reactor.vango.dev/errors/R004",
	},
	"R005": {
		Category:   CategoryRuntime,
		Message:    "Read-only property",
		Detail:     "The derived property has no setter, or the property is an event.",
		Suggestion: "Declare the derived property with WithSetter.",
		DocURL:     "https://reactor.vango.dev/errors/R005",
	},
	"R006": {
		Category: CategoryRuntime,
		Message:  "Value is not an array",
		Detail:   "Array properties only accept slices, *Array values or nil.",
		DocURL:   "https://reactor.vango.dev/errors/R006",
	},
	"R007": {
		Category:   CategorySubscription,
		Message:    "Invalid subscription callback",
		Detail:     "The callback does not match the subscription target.",
		Suggestion: "Use func(any) for change subscriptions, func([]cell.ArrayChange) for arrayChange and func(...any) for events.",
		DocURL:     "https://reactor.vango.dev/errors/R007",
	},
	"R008": {
		Category:   CategorySubscription,
		Message:    "Invalid subscription target",
		Detail:     "Subscribe accepts an event source or a func() any dependency.",
		DocURL:     "https://reactor.vango.dev/errors/R008",
	},
	"R009": {
		Category: CategoryRuntime,
		Message:  "Property has no cell",
		Detail:   "Events are backed by a subscribable, not by a value cell.",
		DocURL:   "https://reactor.vango.dev/errors/R009",
	},
	"R010": {
		Category: CategoryDeclaration,
		Message:  "Extender failed",
		Detail:   "An extender declared on the property could not be applied to its cell.",
		DocURL:   "https://reactor.vango.dev/errors/R010",
	},
	"R011": {
		Category:   CategoryDeclaration,
		Message:    "Property declared twice",
		Detail:     "A property key can only be declared once per type.",
		Suggestion: "Declare the property on a subtype instead, or pick another key.",
		DocURL:     "https://reactor.vango.dev/errors/R011",
	},
	"R012": {
		Category: CategoryRuntime,
		Message:  "Property value has another type",
		Detail:   "GetAs found a value of a different type than requested.",
		DocURL:   "https://reactor.vango.dev/errors/R012",
	},

	// ============================================
	// Configuration Errors (R020-R029)
	// ============================================

	"R020": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "reactor.yaml contains invalid or conflicting values.",
		DocURL:   "https://reactor.vango.dev/errors/R020",
	},
	"R021": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Pass --config with the path to reactor.yaml, or omit it to use defaults.",
		DocURL:     "https://reactor.vango.dev/errors/R021",
	},

	// ============================================
	// CLI Errors (R030-R039)
	// ============================================

	"R030": {
		Category: CategoryCLI,
		Message:  "Inspector server failed",
		Detail:   "The HTTP server could not start or stopped unexpectedly.",
		DocURL:   "https://reactor.vango.dev/errors/R030",
	},
}

var registryMu sync.RWMutex

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[code] = template
}

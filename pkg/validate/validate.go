// Package validate inspects upstream schema and hop topology facts and
// produces advisory results for a step. Results never block load or save.
package validate

import "fmt"

// Severity classifies one check result.
type Severity int

const (
	// SeverityOK reports a satisfied check
	SeverityOK Severity = iota
	// SeverityWarning reports an advisory problem
	SeverityWarning
	// SeverityError reports a problem that will fail at run time
	SeverityError
)

// String returns the display form of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Result is one advisory check outcome.
type Result struct {
	Severity Severity
	Message  string
}

// Env carries the topology facts the host supplies for a step.
type Env struct {
	// HasUpstreamSchema reports whether the previous step declares fields
	HasUpstreamSchema bool
	// UpstreamFieldCount is the number of declared upstream fields
	UpstreamFieldCount int
	// HasInputHops reports whether any hop leads into the step
	HasInputHops bool
}

// Catalog carries the check messages. It is passed in explicitly so hosts
// control localization; ReceivingFields is a format string taking the field
// count.
type Catalog struct {
	NoUpstreamSchema string
	ReceivingFields  string
	ReceivingInput   string
	NoInput          string
}

// DefaultCatalog returns the English messages.
func DefaultCatalog() Catalog {
	return Catalog{
		NoUpstreamSchema: "Not receiving any fields from previous steps",
		ReceivingFields:  "Step is connected to previous one, receiving %d fields",
		ReceivingInput:   "Step is receiving info from other steps",
		NoInput:          "No input received from other steps",
	}
}

// Validatable is implemented by step metadata that supports advisory
// checks.
type Validatable interface {
	Check(env Env, cat Catalog) []Result
}

// Check produces the ordered advisory results for the supplied facts.
func Check(env Env, cat Catalog) []Result {
	results := make([]Result, 0, 2)

	if !env.HasUpstreamSchema || env.UpstreamFieldCount == 0 {
		results = append(results, Result{Severity: SeverityWarning, Message: cat.NoUpstreamSchema})
	} else {
		results = append(results, Result{
			Severity: SeverityOK,
			Message:  fmt.Sprintf(cat.ReceivingFields, env.UpstreamFieldCount),
		})
	}

	if env.HasInputHops {
		results = append(results, Result{Severity: SeverityOK, Message: cat.ReceivingInput})
	} else {
		results = append(results, Result{Severity: SeverityError, Message: cat.NoInput})
	}

	return results
}

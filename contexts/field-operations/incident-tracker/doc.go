// Package incidenttracker records polling incidents inside the
// field-operations context.
//
// An incident is an append-only report tied to a geographic scope: it is
// opened once, annotated with severity and type, and closed exactly once
// with mandatory resolution notes. Resolution is terminal.
package incidenttracker

// Package officerregistry tracks election officers and their scope
// assignments inside the field-operations context.
//
// Assignment is where staffing races live: the exclusive roles (presiding,
// returning, deputy-returning) allow at most one active holder per scope
// and at most one active exclusive post per officer, enforced atomically
// in the store so two coordinators assigning concurrently cannot both win.
package officerregistry

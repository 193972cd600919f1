// Package dashboardservice serves the read-only collation views: headline
// summary, regional completion breakdown, leading candidates and the live
// activity feed.
//
// Everything here is a projection over state the write-side services have
// already committed. The service owns no tables and never mutates; a slow
// dashboard can never hold up a result sheet.
package dashboardservice

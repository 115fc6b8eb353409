// Package inbound fans a decoded CRM webhook batch out to the reconciliation
// engine. Each entity in the batch is processed independently so one bad
// event never blocks its siblings, and the batch is acknowledged once every
// entity has been attempted.
package inbound
